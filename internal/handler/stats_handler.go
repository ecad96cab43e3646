package handler

import (
	"github.com/gin-gonic/gin"

	"indentflow/internal/service"
)

// StatsHandler handles dashboard endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetDashboard handles GET /api/v1/stats/dashboard
// @Summary Dashboard counts
// @Description Pending counts per stage and open PO value, scoped to the caller firm match.
// @Tags stats
// @Produce json
// @Success 200 {object} APIResponse{data=domain.DashboardStats} "Dashboard"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /stats/dashboard [get]
func (h *StatsHandler) GetDashboard(c *gin.Context) {
	actor, ok := extractActor(c)
	if !ok {
		return
	}

	stats, err := h.statsService.GetDashboard(c.Request.Context(), actor)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}
