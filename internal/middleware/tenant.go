package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantGuard rejects requests that reach tenant routes without a complete
// actor. Every indent and lift query is filtered by tenant and firm, so a
// zero tenant ID or a missing firm scope must never pass through.
func TenantGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if msg := missingActorPart(c); msg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
			})
			return
		}
		c.Next()
	}
}

func missingActorPart(c *gin.Context) string {
	val, ok := c.Get(ContextKeyTenantID)
	if !ok {
		return "tenant context required"
	}
	if id, isID := val.(uuid.UUID); !isID || id == uuid.Nil {
		return "tenant context required"
	}
	if GetRole(c) == "" {
		return "role context required"
	}
	if _, ok := c.Get(ContextKeyFirm); !ok {
		return "firm scope required"
	}
	return ""
}
