package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
	"indentflow/internal/service"
)

// MockMasterService is a mock implementation of service.MasterService.
type MockMasterService struct {
	mock.Mock
}

func (m *MockMasterService) List(ctx context.Context, actor domain.Actor, kind domain.MasterKind) ([]domain.MasterOption, error) {
	args := m.Called(ctx, actor, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MasterOption), args.Error(1)
}

func (m *MockMasterService) ListGrouped(ctx context.Context, actor domain.Actor) (map[domain.MasterKind][]string, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.MasterKind][]string), args.Error(1)
}

func (m *MockMasterService) Add(ctx context.Context, actor domain.Actor, input service.AddMasterOptionInput) (*domain.MasterOption, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MasterOption), args.Error(1)
}

func (m *MockMasterService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
