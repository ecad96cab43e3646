package port

import (
	"context"

	"indentflow/internal/domain"
)

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendPurchaseOrderEmail(ctx context.Context, toEmail, toName string, po *domain.PurchaseOrder, downloadURL string) error
	SendOverdueDigest(ctx context.Context, toEmail string, items []domain.OverdueItem) error
}
