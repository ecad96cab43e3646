package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"indentflow/internal/domain"
	"indentflow/internal/service"
	"indentflow/mocks"
)

func TestMasterService_Add(t *testing.T) {
	repo := new(mocks.MockMasterOptionRepo)
	svc := service.NewMasterService(repo)
	admin := domain.Actor{TenantID: uuid.New(), Role: domain.RoleAdmin}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.MasterOption")).Return(nil)

	opt, err := svc.Add(context.Background(), admin, service.AddMasterOptionInput{Kind: domain.MasterUOM, Value: " KGS "})
	require.NoError(t, err)
	assert.Equal(t, "KGS", opt.Value)
	assert.Equal(t, admin.TenantID, opt.TenantID)
}

func TestMasterService_Add_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.UserRole
		input   service.AddMasterOptionInput
		wantErr error
	}{
		{name: "non admin", role: domain.RolePurchaser, input: service.AddMasterOptionInput{Kind: domain.MasterUOM, Value: "NOS"}, wantErr: domain.ErrForbidden},
		{name: "unknown kind", role: domain.RoleAdmin, input: service.AddMasterOptionInput{Kind: "colour", Value: "red"}, wantErr: domain.ErrInvalidMasterKind},
		{name: "blank value", role: domain.RoleAdmin, input: service.AddMasterOptionInput{Kind: domain.MasterFirm, Value: " "}, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockMasterOptionRepo)
			svc := service.NewMasterService(repo)

			_, err := svc.Add(context.Background(), domain.Actor{TenantID: uuid.New(), Role: tt.role}, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestMasterService_List_InvalidKind(t *testing.T) {
	svc := service.NewMasterService(new(mocks.MockMasterOptionRepo))

	_, err := svc.List(context.Background(), domain.Actor{TenantID: uuid.New()}, "colour")
	assert.ErrorIs(t, err, domain.ErrInvalidMasterKind)
}

func TestMasterService_ListGrouped(t *testing.T) {
	repo := new(mocks.MockMasterOptionRepo)
	svc := service.NewMasterService(repo)
	actor := domain.Actor{TenantID: uuid.New(), Role: domain.RoleStore}
	repo.On("ListAll", mock.Anything, actor.TenantID).Return([]domain.MasterOption{
		{Kind: domain.MasterUOM, Value: "KGS"},
		{Kind: domain.MasterUOM, Value: "NOS"},
		{Kind: domain.MasterFirm, Value: "Acme Spinning"},
	}, nil)

	got, err := svc.ListGrouped(context.Background(), actor)
	require.NoError(t, err)

	assert.Len(t, got, len(domain.ValidMasterKinds))
	assert.Equal(t, []string{"KGS", "NOS"}, got[domain.MasterUOM])
	assert.Equal(t, []string{"Acme Spinning"}, got[domain.MasterFirm])
	assert.Equal(t, []string{}, got[domain.MasterDepartment])
}

func TestMasterService_Delete_AdminOnly(t *testing.T) {
	repo := new(mocks.MockMasterOptionRepo)
	svc := service.NewMasterService(repo)
	tenantID := uuid.New()
	id := uuid.New()
	repo.On("Delete", mock.Anything, tenantID, id).Return(nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), domain.Actor{TenantID: tenantID, Role: domain.RoleStore}, id), domain.ErrForbidden)
	assert.NoError(t, svc.Delete(context.Background(), domain.Actor{TenantID: tenantID, Role: domain.RoleAdmin}, id))
	repo.AssertNumberOfCalls(t, "Delete", 1)
}
