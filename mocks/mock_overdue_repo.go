package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
)

// MockOverdueRepo is a mock implementation of port.OverdueRepository.
type MockOverdueRepo struct {
	mock.Mock
}

func (m *MockOverdueRepo) ListOverdue(ctx context.Context, cutoff time.Time, limit int) ([]domain.OverdueItem, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverdueItem), args.Error(1)
}

func (m *MockOverdueRepo) ClaimEscalations(ctx context.Context, items []domain.OverdueItem) ([]domain.OverdueItem, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverdueItem), args.Error(1)
}
