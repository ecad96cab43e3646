package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
	"indentflow/internal/handler"
	"indentflow/internal/service"
	"indentflow/mocks"
)

func TestPurchaseOrderHandler_Create(t *testing.T) {
	pos := new(mocks.MockPurchaseOrderService)
	h := handler.NewPurchaseOrderHandler(pos)
	first, second := uuid.New(), uuid.New()
	pos.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(in service.CreatePOInput) bool {
		return len(in.IndentIDs) == 2 && in.IndentIDs[0] == first && in.PaymentTerms == "30 days"
	})).Return(&domain.PurchaseOrder{ID: uuid.New(), PONumber: "PO-0001"}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/purchase-orders", map[string]interface{}{
		"indent_ids":    []uuid.UUID{first, second},
		"payment_terms": "30 days",
	})
	setAuthContext(c, uuid.New(), uuid.New(), domain.RolePurchaser, domain.FirmMatchAll)
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	pos.AssertExpectations(t)
}

func TestPurchaseOrderHandler_Create_Errors(t *testing.T) {
	t.Run("no indents", func(t *testing.T) {
		h := handler.NewPurchaseOrderHandler(new(mocks.MockPurchaseOrderService))
		c, w := newJSONContext(t, http.MethodPost, "/api/v1/purchase-orders", map[string]interface{}{"indent_ids": []uuid.UUID{}})
		setAuthContext(c, uuid.New(), uuid.New(), domain.RolePurchaser, domain.FirmMatchAll)
		h.Create(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("mixed vendors", func(t *testing.T) {
		pos := new(mocks.MockPurchaseOrderService)
		h := handler.NewPurchaseOrderHandler(pos)
		pos.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrMixedPurchaseOrder)
		c, w := newJSONContext(t, http.MethodPost, "/api/v1/purchase-orders", map[string]interface{}{"indent_ids": []uuid.UUID{uuid.New()}})
		setAuthContext(c, uuid.New(), uuid.New(), domain.RolePurchaser, domain.FirmMatchAll)
		h.Create(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPurchaseOrderHandler_Download(t *testing.T) {
	pos := new(mocks.MockPurchaseOrderService)
	h := handler.NewPurchaseOrderHandler(pos)
	id := uuid.New()
	pos.On("GetDownloadURL", mock.Anything, mock.Anything, id).Return("https://presigned.example.com/PO-0001.pdf", nil)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/purchase-orders/"+id.String()+"/download", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleAccounts, domain.FirmMatchAll)
	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Equal(t, "https://presigned.example.com/PO-0001.pdf", data["download_url"])
}
