package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
	"indentflow/internal/service"
)

// MockVendorService is a mock implementation of service.VendorService.
type MockVendorService struct {
	mock.Mock
}

func (m *MockVendorService) Create(ctx context.Context, actor domain.Actor, input service.CreateVendorInput) (*domain.Vendor, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *MockVendorService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Vendor, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *MockVendorService) List(ctx context.Context, actor domain.Actor, search string, offset, limit int) ([]domain.Vendor, int, error) {
	args := m.Called(ctx, actor, search, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Vendor), args.Int(1), args.Error(2)
}

func (m *MockVendorService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.UpdateVendorInput) (*domain.Vendor, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *MockVendorService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
