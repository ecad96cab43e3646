package noop

import (
	"context"

	"go.uber.org/zap"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

type noopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates an EmailSender that only logs what would be sent.
func NewNoopSender(logger *zap.Logger) port.EmailSender {
	return &noopSender{logger: logger}
}

func (s *noopSender) SendPurchaseOrderEmail(_ context.Context, toEmail, toName string, po *domain.PurchaseOrder, downloadURL string) error {
	s.logger.Info("noop email: purchase order",
		zap.String("to", toEmail),
		zap.String("name", toName),
		zap.String("po_number", po.PONumber),
		zap.String("url", downloadURL),
	)
	return nil
}

func (s *noopSender) SendOverdueDigest(_ context.Context, toEmail string, items []domain.OverdueItem) error {
	s.logger.Info("noop email: overdue digest", zap.String("to", toEmail), zap.Int("items", len(items)))
	return nil
}
