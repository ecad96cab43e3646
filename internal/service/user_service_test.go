package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
	"indentflow/internal/service"
	"indentflow/mocks"
)

func TestUserService_Create_DefaultsFirmMatchToAll(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)
	tenantID := uuid.New()

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Create(context.Background(), tenantID, service.CreateUserInput{
		Email:    "approver@acme.test",
		Password: "securepassword123",
		FullName: "Plant Head",
		Role:     domain.RoleApprover,
	})

	assert.NoError(t, err)
	assert.Equal(t, tenantID, user.TenantID)
	assert.Equal(t, domain.RoleApprover, user.Role)
	assert.Equal(t, domain.FirmMatchAll, user.FirmNameMatch)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.PasswordHash)
	repo.AssertExpectations(t)
}

func TestUserService_Create_KeepsFirmMatch(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Create(context.Background(), uuid.New(), service.CreateUserInput{
		Email:         "store@acme.test",
		Password:      "securepassword123",
		FullName:      "Store Keeper",
		Role:          domain.RoleStore,
		FirmNameMatch: "  Acme Spinning ",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Acme Spinning", user.FirmNameMatch)
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	user, err := svc.Create(context.Background(), uuid.New(), service.CreateUserInput{
		Email:    "x@acme.test",
		Password: "securepassword123",
		FullName: "X",
		Role:     domain.UserRole("member"),
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(domain.ErrDuplicateEmail)

	user, err := svc.Create(context.Background(), uuid.New(), service.CreateUserInput{
		Email:    "existing@acme.test",
		Password: "password123",
		FullName: "Test User",
		Role:     domain.RoleViewer,
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserService_Update_ChangesRoleAndFirm(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	tenantID := uuid.New()
	userID := uuid.New()
	existing := &domain.User{
		ID:            userID,
		TenantID:      tenantID,
		FullName:      "Old Name",
		Role:          domain.RoleViewer,
		FirmNameMatch: "Acme Spinning",
		IsActive:      true,
	}
	newRole := domain.RolePurchaser
	firm := "ALL"

	repo.On("GetByID", mock.Anything, tenantID, userID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Update(context.Background(), tenantID, userID, service.UpdateUserInput{
		Role:          &newRole,
		FirmNameMatch: &firm,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RolePurchaser, user.Role)
	assert.Equal(t, domain.FirmMatchAll, user.FirmNameMatch)
	repo.AssertExpectations(t)
}

func TestUserService_Update_InvalidRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	tenantID := uuid.New()
	userID := uuid.New()
	bad := domain.UserRole("superuser")
	repo.On("GetByID", mock.Anything, tenantID, userID).Return(&domain.User{ID: userID, TenantID: tenantID}, nil)

	user, err := svc.Update(context.Background(), tenantID, userID, service.UpdateUserInput{Role: &bad})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_List(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	tenantID := uuid.New()
	expected := []domain.User{{ID: uuid.New()}, {ID: uuid.New()}}
	repo.On("ListByTenant", mock.Anything, tenantID, 0, 20).Return(expected, 2, nil)

	users, total, err := svc.List(context.Background(), tenantID, 0, 20)

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, total)
}

func TestUserService_Delete_NotFound(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo)

	tenantID := uuid.New()
	userID := uuid.New()
	repo.On("Delete", mock.Anything, tenantID, userID).Return(domain.ErrNotFound)

	err := svc.Delete(context.Background(), tenantID, userID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
