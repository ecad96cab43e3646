package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"indentflow/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendPurchaseOrderEmail(ctx context.Context, toEmail, toName string, po *domain.PurchaseOrder, downloadURL string) error {
	args := m.Called(ctx, toEmail, toName, po, downloadURL)
	return args.Error(0)
}

func (m *MockEmailSender) SendOverdueDigest(ctx context.Context, toEmail string, items []domain.OverdueItem) error {
	args := m.Called(ctx, toEmail, items)
	return args.Error(0)
}
