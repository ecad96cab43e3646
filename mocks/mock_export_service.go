package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
	"indentflow/internal/service"
)

// MockExportService is a mock implementation of service.ExportService.
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportIndents(ctx context.Context, actor domain.Actor, filter domain.StageFilter, format service.ExportFormat) (*service.ExportFile, error) {
	args := m.Called(ctx, actor, filter, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockExportService) ExportLifts(ctx context.Context, actor domain.Actor, filter domain.StageFilter, format service.ExportFormat) (*service.ExportFile, error) {
	args := m.Called(ctx, actor, filter, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}
