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

func TestTenantHandler_Create(t *testing.T) {
	mockSvc := new(mocks.MockTenantService)
	h := handler.NewTenantHandler(mockSvc)
	mockSvc.On("Create", mock.Anything, service.CreateTenantInput{Name: "Acme Group", Slug: "acme"}).
		Return(&domain.Tenant{ID: uuid.New(), Name: "Acme Group", Slug: "acme", IsActive: true}, nil)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/admin/tenants", map[string]string{"name": "Acme Group", "slug": "acme"})
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestTenantHandler_Create_DuplicateSlug(t *testing.T) {
	mockSvc := new(mocks.MockTenantService)
	h := handler.NewTenantHandler(mockSvc)
	mockSvc.On("Create", mock.Anything, mock.AnythingOfType("service.CreateTenantInput")).Return(nil, domain.ErrDuplicateTenantSlug)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/admin/tenants", map[string]string{"name": "Acme", "slug": "acme"})
	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_SLUG", decodeResponse(t, w).Error.Code)
}

func TestTenantHandler_Create_MissingSlug(t *testing.T) {
	h := handler.NewTenantHandler(new(mocks.MockTenantService))

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/admin/tenants", map[string]string{"name": "Acme"})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenantHandler_GetByID(t *testing.T) {
	mockSvc := new(mocks.MockTenantService)
	h := handler.NewTenantHandler(mockSvc)
	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/admin/tenants/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.GetByID(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newJSONContext(t, http.MethodGet, "/api/v1/admin/tenants/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.GetByID(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenantHandler_Update_Deactivate(t *testing.T) {
	mockSvc := new(mocks.MockTenantService)
	h := handler.NewTenantHandler(mockSvc)
	id := uuid.New()
	mockSvc.On("Update", mock.Anything, id, mock.MatchedBy(func(in service.UpdateTenantInput) bool {
		return in.IsActive != nil && !*in.IsActive
	})).Return(&domain.Tenant{ID: id, IsActive: false}, nil)

	c, w := newJSONContext(t, http.MethodPut, "/api/v1/admin/tenants/"+id.String(), map[string]bool{"is_active": false})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}
