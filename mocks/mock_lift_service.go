package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
	"indentflow/internal/service"
)

// MockLiftService is a mock implementation of service.LiftService.
type MockLiftService struct {
	mock.Mock
}

func (m *MockLiftService) Create(ctx context.Context, actor domain.Actor, input service.CreateLiftInput) (*domain.Lift, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lift), args.Error(1)
}

func (m *MockLiftService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Lift, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lift), args.Error(1)
}

func (m *MockLiftService) ListByStage(ctx context.Context, actor domain.Actor, filter domain.StageFilter) ([]domain.Lift, int, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Lift), args.Int(1), args.Error(2)
}

func (m *MockLiftService) ListByIndent(ctx context.Context, actor domain.Actor, indentID uuid.UUID) ([]domain.Lift, error) {
	args := m.Called(ctx, actor, indentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lift), args.Error(1)
}

func (m *MockLiftService) StoreIn(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.StoreInInput) (*domain.Lift, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lift), args.Error(1)
}

func (m *MockLiftService) CheckBill(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.BillCheckInput) (*domain.Lift, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lift), args.Error(1)
}

func (m *MockLiftService) EnterTally(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.TallyInput) (*domain.Lift, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lift), args.Error(1)
}

func (m *MockLiftService) CorrectTally(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.CorrectionInput) (*domain.Lift, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lift), args.Error(1)
}

func (m *MockLiftService) History(ctx context.Context, actor domain.Actor, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error) {
	args := m.Called(ctx, actor, id, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AuditEntry), args.Int(1), args.Error(2)
}

func (m *MockLiftService) Anomalies(ctx context.Context, actor domain.Actor) ([]service.LiftAnomaly, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.LiftAnomaly), args.Error(1)
}
