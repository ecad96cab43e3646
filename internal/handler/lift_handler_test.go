package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"indentflow/internal/domain"
	"indentflow/internal/handler"
	"indentflow/internal/service"
	"indentflow/internal/workflow"
	"indentflow/mocks"
)

func TestLiftHandler_Create(t *testing.T) {
	lifts := new(mocks.MockLiftService)
	h := handler.NewLiftHandler(lifts, new(mocks.MockExportService))
	tenantID, userID, indentID := uuid.New(), uuid.New(), uuid.New()

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/lifts", map[string]interface{}{
		"indent_id":       indentID,
		"lifted_quantity": 4,
		"vehicle_number":  "GJ05AB1234",
		"indent_version":  6,
	})
	setAuthContext(c, tenantID, userID, domain.RoleStore, domain.FirmMatchAll)
	lifts.On("Create", mock.Anything, actorFor(tenantID, userID, domain.RoleStore, domain.FirmMatchAll),
		mock.MatchedBy(func(in service.CreateLiftInput) bool {
			return in.IndentID == indentID && in.LiftedQuantity.Equal(decimal.NewFromInt(4)) && in.IndentVersion == 6
		})).Return(&domain.Lift{ID: uuid.New(), LiftNumber: "LF-0001"}, nil)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	lifts.AssertExpectations(t)
}

func TestLiftHandler_Create_MissingIndent(t *testing.T) {
	lifts := new(mocks.MockLiftService)
	h := handler.NewLiftHandler(lifts, new(mocks.MockExportService))

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/lifts", map[string]interface{}{"lifted_quantity": 4})
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleStore, domain.FirmMatchAll)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	lifts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestLiftHandler_Create_OverLift(t *testing.T) {
	lifts := new(mocks.MockLiftService)
	h := handler.NewLiftHandler(lifts, new(mocks.MockExportService))
	lifts.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidQuantity)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/lifts", map[string]interface{}{
		"indent_id": uuid.New(), "lifted_quantity": 400,
	})
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleStore, domain.FirmMatchAll)
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLiftHandler_EnterTally(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		svcErr     error
		wantStatus int
	}{
		{name: "done", body: map[string]interface{}{"status": "done", "voucher": "PV-118", "version": 2}, wantStatus: http.StatusOK},
		{name: "missing status", body: map[string]interface{}{"voucher": "PV-118"}, wantStatus: http.StatusBadRequest},
		{name: "unknown status", body: map[string]interface{}{"status": "maybe"}, svcErr: domain.ErrInvalidTallyStatus, wantStatus: http.StatusBadRequest},
		{name: "bill check pending", body: map[string]interface{}{"status": "done", "voucher": "PV-1"}, svcErr: domain.ErrInvalidTransition, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lifts := new(mocks.MockLiftService)
			h := handler.NewLiftHandler(lifts, new(mocks.MockExportService))
			id := uuid.New()
			if tt.svcErr != nil {
				lifts.On("EnterTally", mock.Anything, mock.Anything, id, mock.Anything).Return(nil, tt.svcErr)
			} else {
				lifts.On("EnterTally", mock.Anything, mock.Anything, id, mock.Anything).
					Return(&domain.Lift{ID: id, TallyStatus: domain.TallyDone}, nil).Maybe()
			}

			c, w := newJSONContext(t, http.MethodPost, "/api/v1/lifts/"+id.String()+"/tally", tt.body)
			c.Params = gin.Params{{Key: "id", Value: id.String()}}
			setAuthContext(c, uuid.New(), uuid.New(), domain.RoleAccounts, domain.FirmMatchAll)
			h.EnterTally(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestLiftHandler_List_InvalidStage(t *testing.T) {
	lifts := new(mocks.MockLiftService)
	h := handler.NewLiftHandler(lifts, new(mocks.MockExportService))
	lifts.On("ListByStage", mock.Anything, mock.Anything, mock.MatchedBy(func(f domain.StageFilter) bool {
		return f.Stage == domain.StageApproval
	})).Return(nil, 0, domain.ErrInvalidStage)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/lifts?stage=approval", nil)
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleStore, domain.FirmMatchAll)
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLiftHandler_History(t *testing.T) {
	lifts := new(mocks.MockLiftService)
	h := handler.NewLiftHandler(lifts, new(mocks.MockExportService))
	id := uuid.New()
	lifts.On("History", mock.Anything, mock.Anything, id, 0, 20).
		Return([]domain.AuditEntry{{Action: string(domain.AuditLiftCreated)}}, 1, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/lifts/"+id.String()+"/history", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleAccounts, domain.FirmMatchAll)
	h.History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeResponse(t, w).Meta.Total)
}

func TestLiftHandler_Anomalies(t *testing.T) {
	lifts := new(mocks.MockLiftService)
	h := handler.NewLiftHandler(lifts, new(mocks.MockExportService))
	tenantID, userID := uuid.New(), uuid.New()
	lifts.On("Anomalies", mock.Anything, actorFor(tenantID, userID, domain.RoleAdmin, "Acme Spinning")).
		Return([]service.LiftAnomaly{{
			LiftNumber: "LF-0002",
			Anomalies:  []workflow.Anomaly{{Stage: domain.StageTally, Kind: workflow.AnomalyOutOfOrder, Blocker: domain.StageBillCheck}},
		}}, nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/lifts/anomalies", nil)
	setAuthContext(c, tenantID, userID, domain.RoleAdmin, "Acme Spinning")
	h.Anomalies(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "LF-0002", first["lift_number"])
	assert.Equal(t, "out_of_order", first["anomalies"].([]interface{})[0].(map[string]interface{})["kind"])
}
