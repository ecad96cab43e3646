package mocks

import (
	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
)

// MockPurchaseOrderRenderer is a mock implementation of port.PurchaseOrderRenderer.
type MockPurchaseOrderRenderer struct {
	mock.Mock
}

func (m *MockPurchaseOrderRenderer) Render(po *domain.PurchaseOrder) ([]byte, error) {
	args := m.Called(po)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
