package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
)

// MockIndentRepo is a mock implementation of port.IndentRepository.
type MockIndentRepo struct {
	mock.Mock
}

func (m *MockIndentRepo) Create(ctx context.Context, indent *domain.Indent) error {
	args := m.Called(ctx, indent)
	return args.Error(0)
}

func (m *MockIndentRepo) CreateBatch(ctx context.Context, indents []*domain.Indent) error {
	args := m.Called(ctx, indents)
	return args.Error(0)
}

func (m *MockIndentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID, scope domain.FirmScope) (*domain.Indent, error) {
	args := m.Called(ctx, tenantID, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Indent), args.Error(1)
}

func (m *MockIndentRepo) GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, scope domain.FirmScope) ([]domain.Indent, error) {
	args := m.Called(ctx, tenantID, ids, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Indent), args.Error(1)
}

func (m *MockIndentRepo) ListByStage(ctx context.Context, tenantID uuid.UUID, filter domain.StageFilter) ([]domain.Indent, int, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Indent), args.Int(1), args.Error(2)
}

func (m *MockIndentRepo) ListAll(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope, offset, limit int) ([]domain.Indent, int, error) {
	args := m.Called(ctx, tenantID, scope, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Indent), args.Int(1), args.Error(2)
}

func (m *MockIndentRepo) ListByPO(ctx context.Context, tenantID, poID uuid.UUID) ([]domain.Indent, error) {
	args := m.Called(ctx, tenantID, poID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Indent), args.Error(1)
}

func (m *MockIndentRepo) ListNumbers(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockIndentRepo) Update(ctx context.Context, indent *domain.Indent) error {
	args := m.Called(ctx, indent)
	return args.Error(0)
}
