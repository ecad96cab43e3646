package port

import (
	"github.com/google/uuid"

	"indentflow/internal/domain"
)

// EventPublisher fans record changes out to connected clients of a tenant.
// Publish must not block on slow consumers.
type EventPublisher interface {
	Publish(tenantID uuid.UUID, event domain.Event)
}

// PurchaseOrderRenderer renders a purchase order document.
type PurchaseOrderRenderer interface {
	Render(po *domain.PurchaseOrder) ([]byte, error)
}
