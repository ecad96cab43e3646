package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
)

// MockMasterOptionRepo is a mock implementation of port.MasterOptionRepository.
type MockMasterOptionRepo struct {
	mock.Mock
}

func (m *MockMasterOptionRepo) Create(ctx context.Context, opt *domain.MasterOption) error {
	args := m.Called(ctx, opt)
	return args.Error(0)
}

func (m *MockMasterOptionRepo) ListByKind(ctx context.Context, tenantID uuid.UUID, kind domain.MasterKind) ([]domain.MasterOption, error) {
	args := m.Called(ctx, tenantID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MasterOption), args.Error(1)
}

func (m *MockMasterOptionRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.MasterOption, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MasterOption), args.Error(1)
}

func (m *MockMasterOptionRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}
