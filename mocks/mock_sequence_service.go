package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"indentflow/internal/numbering"
)

// MockSequenceService is a mock implementation of service.SequenceService.
type MockSequenceService struct {
	mock.Mock
}

func (m *MockSequenceService) Next(ctx context.Context, tenantID uuid.UUID, prefix numbering.Prefix) (string, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockSequenceService) AdvanceTo(ctx context.Context, tenantID uuid.UUID, prefix numbering.Prefix, value int64) error {
	args := m.Called(ctx, tenantID, prefix, value)
	return args.Error(0)
}

func (m *MockSequenceService) Align(ctx context.Context, tenantID uuid.UUID) (map[numbering.Prefix]int64, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[numbering.Prefix]int64), args.Error(1)
}
