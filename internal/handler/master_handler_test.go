package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
	"indentflow/internal/handler"
	"indentflow/internal/service"
	"indentflow/mocks"
)

func TestMasterHandler_List(t *testing.T) {
	masters := new(mocks.MockMasterService)
	h := handler.NewMasterHandler(masters)
	masters.On("ListGrouped", mock.Anything, mock.Anything).
		Return(map[domain.MasterKind][]string{domain.MasterUOM: {"KGS", "NOS"}}, nil)
	masters.On("List", mock.Anything, mock.Anything, domain.MasterKind("colour")).Return(nil, domain.ErrInvalidMasterKind)

	c, w := newJSONContext(t, http.MethodGet, "/api/v1/masters", nil)
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleStore, domain.FirmMatchAll)
	h.List(c)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]interface{})
	assert.Len(t, data["uom"], 2)

	c, w = newJSONContext(t, http.MethodGet, "/api/v1/masters?kind=colour", nil)
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleStore, domain.FirmMatchAll)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMasterHandler_Add_Forbidden(t *testing.T) {
	masters := new(mocks.MockMasterService)
	h := handler.NewMasterHandler(masters)
	masters.On("Add", mock.Anything, mock.Anything, service.AddMasterOptionInput{Kind: domain.MasterUOM, Value: "KGS"}).
		Return(nil, domain.ErrForbidden)

	c, w := newJSONContext(t, http.MethodPost, "/api/v1/masters", map[string]string{"kind": "uom", "value": "KGS"})
	setAuthContext(c, uuid.New(), uuid.New(), domain.RoleStore, domain.FirmMatchAll)
	h.Add(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
