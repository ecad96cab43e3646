package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
	"indentflow/internal/handler"
	"indentflow/mocks"
)

func TestStatsHandler_GetDashboard(t *testing.T) {
	stats := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(stats)
	tenantID, userID := uuid.New(), uuid.New()
	stats.On("GetDashboard", mock.Anything, actorFor(tenantID, userID, domain.RoleApprover, "Acme Spinning")).
		Return(&domain.DashboardStats{TotalIndents: 7}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/stats/dashboard", nil)
	setAuthContext(c, tenantID, userID, domain.RoleApprover, "Acme Spinning")
	h.GetDashboard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(7), data["total_indents"])
}

func TestStatsHandler_GetDashboard_NoAuth(t *testing.T) {
	h := handler.NewStatsHandler(new(mocks.MockStatsService))

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/stats/dashboard", nil)
	h.GetDashboard(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
