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
	"indentflow/mocks"
)

type indentHandlerFixture struct {
	h         *handler.IndentHandler
	indents   *mocks.MockIndentService
	exports   *mocks.MockExportService
	tenantID  uuid.UUID
	userID    uuid.UUID
	firmScope string
}

func newIndentHandlerFixture() *indentHandlerFixture {
	f := &indentHandlerFixture{
		indents:   new(mocks.MockIndentService),
		exports:   new(mocks.MockExportService),
		tenantID:  uuid.New(),
		userID:    uuid.New(),
		firmScope: "Acme Spinning",
	}
	f.h = handler.NewIndentHandler(f.indents, f.exports)
	return f
}

func (f *indentHandlerFixture) auth(c *gin.Context, role domain.UserRole) domain.Actor {
	setAuthContext(c, f.tenantID, f.userID, role, f.firmScope)
	return actorFor(f.tenantID, f.userID, role, f.firmScope)
}

func TestIndentHandler_Create(t *testing.T) {
	f := newIndentHandlerFixture()
	c, w := newJSONContext(t, http.MethodPost, "/api/v1/indents", map[string]interface{}{
		"firm_name":     "Acme Spinning",
		"indenter_name": "R. Patel",
		"product_name":  "Bearing 6204",
		"quantity":      "12.5",
		"uom":           "NOS",
		"indent_type":   "Purchase",
	})
	actor := f.auth(c, domain.RoleStore)
	f.indents.On("Create", mock.Anything, actor, mock.MatchedBy(func(in service.CreateIndentInput) bool {
		return in.Quantity.Equal(decimal.RequireFromString("12.5")) && in.IndentType == domain.IndentTypePurchase
	})).Return(&domain.Indent{ID: uuid.New(), IndentNumber: "SI-0001"}, nil)

	f.h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	f.indents.AssertExpectations(t)
}

func TestIndentHandler_Create_MissingProduct(t *testing.T) {
	f := newIndentHandlerFixture()
	c, w := newJSONContext(t, http.MethodPost, "/api/v1/indents", map[string]interface{}{
		"firm_name": "Acme Spinning", "indenter_name": "R. Patel", "uom": "NOS",
	})
	f.auth(c, domain.RoleStore)

	f.h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.indents.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestIndentHandler_List_ParsesStageFilter(t *testing.T) {
	f := newIndentHandlerFixture()
	c, w := newJSONContext(t, http.MethodGet, "/api/v1/indents?stage=vendor_rate&view=history&search=bearing&offset=40&limit=10", nil)
	actor := f.auth(c, domain.RolePurchaser)
	f.indents.On("ListByStage", mock.Anything, actor, domain.StageFilter{
		Stage:  domain.StageVendorRate,
		View:   domain.ViewHistory,
		Search: "bearing",
		Offset: 40,
		Limit:  10,
	}).Return([]domain.Indent{{IndentNumber: "SI-0041"}}, 41, nil)

	f.h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 41, resp.Meta.Total)
}

func TestIndentHandler_List_DefaultsToPending(t *testing.T) {
	f := newIndentHandlerFixture()
	c, w := newJSONContext(t, http.MethodGet, "/api/v1/indents?stage=approval", nil)
	actor := f.auth(c, domain.RoleApprover)
	f.indents.On("ListByStage", mock.Anything, actor, mock.MatchedBy(func(filter domain.StageFilter) bool {
		return filter.View == domain.ViewPending && filter.Limit == 20
	})).Return([]domain.Indent{}, 0, nil)

	f.h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	f.indents.AssertExpectations(t)
}

func TestIndentHandler_Approve_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{name: "wrong role", svcErr: domain.ErrStageForbidden, wantStatus: http.StatusForbidden, wantCode: "STAGE_FORBIDDEN"},
		{name: "stale version", svcErr: domain.ErrVersionConflict, wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "already approved", svcErr: domain.ErrInvalidTransition, wantStatus: http.StatusConflict, wantCode: "INVALID_TRANSITION"},
		{name: "over approval", svcErr: domain.ErrInvalidQuantity, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "foreign firm", svcErr: domain.ErrIndentNotFound, wantStatus: http.StatusNotFound, wantCode: "INDENT_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIndentHandlerFixture()
			id := uuid.New()
			c, w := newJSONContext(t, http.MethodPost, "/api/v1/indents/"+id.String()+"/approve", map[string]interface{}{
				"vendor_type": "Regular", "approved_quantity": "10", "version": 3,
			})
			c.Params = gin.Params{{Key: "id", Value: id.String()}}
			actor := f.auth(c, domain.RoleApprover)
			f.indents.On("Approve", mock.Anything, actor, id, mock.MatchedBy(func(in service.ApproveIndentInput) bool {
				return in.Version == 3 && in.VendorType == domain.VendorTypeRegular
			})).Return(nil, tt.svcErr)

			f.h.Approve(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestIndentHandler_Approve_InvalidID(t *testing.T) {
	f := newIndentHandlerFixture()
	c, w := newJSONContext(t, http.MethodPost, "/api/v1/indents/42/approve", map[string]interface{}{})
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	f.auth(c, domain.RoleApprover)

	f.h.Approve(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeResponse(t, w).Error.Code)
}

func TestIndentHandler_ApproveThreeParty(t *testing.T) {
	f := newIndentHandlerFixture()
	id := uuid.New()
	c, w := newJSONContext(t, http.MethodPost, "/api/v1/indents/"+id.String()+"/three-party", map[string]interface{}{"quote_index": 2})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	actor := f.auth(c, domain.RoleApprover)
	f.indents.On("ApproveThreeParty", mock.Anything, actor, id, service.ThreePartyInput{QuoteIndex: 2}).
		Return(&domain.Indent{ID: id, VendorName: "Third Vendor"}, nil)

	f.h.ApproveThreeParty(c)

	assert.Equal(t, http.StatusOK, w.Code)
	f.indents.AssertExpectations(t)
}

func TestIndentHandler_Export_Attachment(t *testing.T) {
	f := newIndentHandlerFixture()
	c, w := newJSONContext(t, http.MethodGet, "/api/v1/indents/export?stage=purchase_order&format=xlsx", nil)
	actor := f.auth(c, domain.RolePurchaser)
	f.exports.On("ExportIndents", mock.Anything, actor, mock.MatchedBy(func(filter domain.StageFilter) bool {
		return filter.Stage == domain.StagePO && filter.View == domain.ViewPending
	}), service.ExportXLSX).Return(&service.ExportFile{
		Filename:    "indents_purchase_order_pending_2026-10-14.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        []byte("PK"),
	}, nil)

	f.h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="indents_purchase_order_pending_2026-10-14.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK", w.Body.String())
}

func TestIndentHandler_Import_MissingFile(t *testing.T) {
	f := newIndentHandlerFixture()
	c, w := newJSONContext(t, http.MethodPost, "/api/v1/indents/import", nil)
	f.auth(c, domain.RoleAdmin)

	f.h.Import(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.indents.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything)
}

func TestIndentHandler_Import(t *testing.T) {
	f := newIndentHandlerFixture()
	c, w := newUploadContext(t, "/api/v1/indents/import", "indents.xlsx", []byte("PK fake workbook"))
	actor := f.auth(c, domain.RoleAdmin)
	f.indents.On("Import", mock.Anything, actor, mock.Anything).Return(nil, domain.ErrInvalidImport)

	f.h.Import(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.indents.AssertExpectations(t)
}

func TestIndentHandler_Anomalies(t *testing.T) {
	f := newIndentHandlerFixture()
	c, w := newJSONContext(t, http.MethodGet, "/api/v1/indents/anomalies", nil)
	actor := f.auth(c, domain.RoleAdmin)
	f.indents.On("Anomalies", mock.Anything, actor).Return([]service.IndentAnomaly{{IndentNumber: "SI-0009"}}, nil)

	f.h.Anomalies(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data, 1)
}
