package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
	"indentflow/internal/service"
)

// MockIndentService is a mock implementation of service.IndentService.
type MockIndentService struct {
	mock.Mock
}

func (m *MockIndentService) Create(ctx context.Context, actor domain.Actor, input service.CreateIndentInput) (*domain.Indent, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Indent), args.Error(1)
}

func (m *MockIndentService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Indent, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Indent), args.Error(1)
}

func (m *MockIndentService) ListByStage(ctx context.Context, actor domain.Actor, filter domain.StageFilter) ([]domain.Indent, int, error) {
	args := m.Called(ctx, actor, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Indent), args.Int(1), args.Error(2)
}

func (m *MockIndentService) Approve(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.ApproveIndentInput) (*domain.Indent, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Indent), args.Error(1)
}

func (m *MockIndentService) UpdateRate(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.UpdateRateInput) (*domain.Indent, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Indent), args.Error(1)
}

func (m *MockIndentService) ApproveThreeParty(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.ThreePartyInput) (*domain.Indent, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Indent), args.Error(1)
}

func (m *MockIndentService) IssueFromStore(ctx context.Context, actor domain.Actor, id uuid.UUID, input service.StoreIssueInput) (*domain.Indent, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Indent), args.Error(1)
}

func (m *MockIndentService) History(ctx context.Context, actor domain.Actor, id uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error) {
	args := m.Called(ctx, actor, id, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AuditEntry), args.Int(1), args.Error(2)
}

func (m *MockIndentService) Anomalies(ctx context.Context, actor domain.Actor) ([]service.IndentAnomaly, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.IndentAnomaly), args.Error(1)
}

func (m *MockIndentService) Import(ctx context.Context, actor domain.Actor, r io.Reader) (*service.ImportReport, error) {
	args := m.Called(ctx, actor, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportReport), args.Error(1)
}
