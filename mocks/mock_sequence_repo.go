package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSequenceRepo is a mock implementation of port.SequenceRepository.
type MockSequenceRepo struct {
	mock.Mock
}

func (m *MockSequenceRepo) Next(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepo) AdvanceTo(ctx context.Context, tenantID uuid.UUID, prefix string, value int64) error {
	args := m.Called(ctx, tenantID, prefix, value)
	return args.Error(0)
}

func (m *MockSequenceRepo) Current(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.Get(0).(int64), args.Error(1)
}
