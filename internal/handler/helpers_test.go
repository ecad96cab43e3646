package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"indentflow/internal/domain"
	"indentflow/internal/handler"
	"indentflow/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setAuthContext populates the context keys AuthMiddleware would set.
func setAuthContext(c *gin.Context, tenantID, userID uuid.UUID, role domain.UserRole, firm string) {
	c.Set(middleware.ContextKeyTenantID, tenantID)
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, string(role))
	c.Set(middleware.ContextKeyFirm, firm)
	c.Set(middleware.ContextKeyEmail, "user@acme.test")
}

// newJSONContext builds a test context carrying body encoded as JSON. A nil
// body sends no payload.
func newJSONContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// actorFor returns the actor the handlers derive from setAuthContext.
func actorFor(tenantID, userID uuid.UUID, role domain.UserRole, firm string) domain.Actor {
	return domain.Actor{TenantID: tenantID, UserID: userID, Role: role, Scope: domain.FirmScope(firm)}
}
