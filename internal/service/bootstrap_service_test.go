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

func bootstrapInput() service.BootstrapInput {
	return service.BootstrapInput{
		TenantName: "Acme Mills",
		TenantSlug: "ACME",
		Email:      "owner@acme.test",
		Password:   "password123",
		FullName:   "Owner",
	}
}

func TestBootstrapService_CreatesTenantAndAdmin(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewBootstrapService(tenantRepo, userRepo)

	tenantRepo.On("GetBySlug", mock.Anything, "acme").Return(nil, domain.ErrNotFound)
	tenantRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tenant")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Tenant).ID = uuid.New() }).
		Return(nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	out, err := svc.Bootstrap(context.Background(), bootstrapInput())

	require.NoError(t, err)
	assert.Equal(t, "acme", out.Tenant.Slug)
	assert.Equal(t, out.Tenant.ID, out.Admin.TenantID)
	assert.Equal(t, domain.RoleAdmin, out.Admin.Role)
	assert.Equal(t, domain.FirmMatchAll, out.Admin.FirmNameMatch)
	tenantRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestBootstrapService_ReusesExistingTenant(t *testing.T) {
	tenantRepo := new(mocks.MockTenantRepo)
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewBootstrapService(tenantRepo, userRepo)

	existing := &domain.Tenant{ID: uuid.New(), Slug: "acme", IsActive: true}
	tenantRepo.On("GetBySlug", mock.Anything, "acme").Return(existing, nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	out, err := svc.Bootstrap(context.Background(), bootstrapInput())

	require.NoError(t, err)
	assert.Same(t, existing, out.Tenant)
	tenantRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBootstrapService_ShortPassword(t *testing.T) {
	svc := service.NewBootstrapService(new(mocks.MockTenantRepo), new(mocks.MockUserRepo))
	in := bootstrapInput()
	in.Password = "short"

	out, err := svc.Bootstrap(context.Background(), in)

	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
