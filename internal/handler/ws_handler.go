package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"indentflow/internal/domain"
)

// EventStream upgrades a request into a realtime event subscription.
type EventStream interface {
	Serve(w http.ResponseWriter, r *http.Request, tenantID uuid.UUID, scope domain.FirmScope)
}

// WSHandler handles the realtime websocket endpoint.
type WSHandler struct {
	stream EventStream
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(stream EventStream) *WSHandler {
	return &WSHandler{stream: stream}
}

// Events handles GET /api/v1/ws?token=<access token>
// @Summary Realtime events
// @Description WebSocket stream of record events for the caller tenant and firm match. Authenticates with the token query parameter.
// @Tags realtime
// @Produce json
// @Param token query string true "Access token"
// @Success 101 {string} string "Switching protocols"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Router /ws [get]
func (h *WSHandler) Events(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}
	h.stream.Serve(c.Writer, c.Request, actor.TenantID, actor.Scope)
}
