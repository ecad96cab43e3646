package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
)

// MockLiftRepo is a mock implementation of port.LiftRepository.
type MockLiftRepo struct {
	mock.Mock
}

func (m *MockLiftRepo) CreateWithIndent(ctx context.Context, lift *domain.Lift, indent *domain.Indent) error {
	args := m.Called(ctx, lift, indent)
	return args.Error(0)
}

func (m *MockLiftRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID, scope domain.FirmScope) (*domain.Lift, error) {
	args := m.Called(ctx, tenantID, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lift), args.Error(1)
}

func (m *MockLiftRepo) ListByStage(ctx context.Context, tenantID uuid.UUID, filter domain.StageFilter) ([]domain.Lift, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Lift), args.Int(1), args.Error(2)
}

func (m *MockLiftRepo) ListByIndent(ctx context.Context, tenantID, indentID uuid.UUID) ([]domain.Lift, error) {
	args := m.Called(ctx, tenantID, indentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lift), args.Error(1)
}

func (m *MockLiftRepo) ListAll(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope, offset, limit int) ([]domain.Lift, int, error) {
	args := m.Called(ctx, tenantID, scope, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Lift), args.Int(1), args.Error(2)
}

func (m *MockLiftRepo) SumLifted(ctx context.Context, tenantID, indentID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, indentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLiftRepo) ListNumbers(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLiftRepo) Update(ctx context.Context, lift *domain.Lift) error {
	args := m.Called(ctx, lift)
	return args.Error(0)
}
