package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"indentflow/internal/domain"
)

// IndentRepository persists indents. Reads take the caller's firm scope and
// treat rows outside it as missing. Update is conditional on Version and
// returns domain.ErrVersionConflict when the row changed underneath.
type IndentRepository interface {
	Create(ctx context.Context, indent *domain.Indent) error
	CreateBatch(ctx context.Context, indents []*domain.Indent) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID, scope domain.FirmScope) (*domain.Indent, error)
	GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, scope domain.FirmScope) ([]domain.Indent, error)
	ListByStage(ctx context.Context, tenantID uuid.UUID, filter domain.StageFilter) ([]domain.Indent, int, error)
	ListAll(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope, offset, limit int) ([]domain.Indent, int, error)
	ListByPO(ctx context.Context, tenantID, poID uuid.UUID) ([]domain.Indent, error)
	ListNumbers(ctx context.Context, tenantID uuid.UUID) ([]string, error)
	Update(ctx context.Context, indent *domain.Indent) error
}

// LiftRepository persists lifts.
type LiftRepository interface {
	// CreateWithIndent inserts lift and applies the versioned indent update
	// in a single transaction.
	CreateWithIndent(ctx context.Context, lift *domain.Lift, indent *domain.Indent) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID, scope domain.FirmScope) (*domain.Lift, error)
	ListByStage(ctx context.Context, tenantID uuid.UUID, filter domain.StageFilter) ([]domain.Lift, int, error)
	ListByIndent(ctx context.Context, tenantID, indentID uuid.UUID) ([]domain.Lift, error)
	ListAll(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope, offset, limit int) ([]domain.Lift, int, error)
	SumLifted(ctx context.Context, tenantID, indentID uuid.UUID) (decimal.Decimal, error)
	ListNumbers(ctx context.Context, tenantID uuid.UUID) ([]string, error)
	Update(ctx context.Context, lift *domain.Lift) error
}

// PurchaseOrderRepository persists purchase orders.
type PurchaseOrderRepository interface {
	// CreateWithIndents inserts po and applies the versioned updates of the
	// indents it covers in a single transaction.
	CreateWithIndents(ctx context.Context, po *domain.PurchaseOrder, indents []*domain.Indent) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID, scope domain.FirmScope) (*domain.PurchaseOrder, error)
	List(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope, offset, limit int) ([]domain.PurchaseOrder, int, error)
	ListNumbers(ctx context.Context, tenantID uuid.UUID) ([]string, error)
	SetPDF(ctx context.Context, tenantID, id, fileID uuid.UUID) error
}

// SequenceRepository allocates record numbers from a per tenant counter.
type SequenceRepository interface {
	Next(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error)
	AdvanceTo(ctx context.Context, tenantID uuid.UUID, prefix string, value int64) error
	Current(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error)
}

// AuditRepository persists the audit log.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByEntity(ctx context.Context, tenantID uuid.UUID, entityType domain.EntityType, entityID uuid.UUID, offset, limit int) ([]domain.AuditEntry, int, error)
}

// VendorRepository persists vendor master records.
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Vendor, error)
	GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*domain.Vendor, error)
	List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Vendor, int, error)
	Update(ctx context.Context, vendor *domain.Vendor) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// MasterOptionRepository persists dropdown values.
type MasterOptionRepository interface {
	Create(ctx context.Context, opt *domain.MasterOption) error
	ListByKind(ctx context.Context, tenantID uuid.UUID, kind domain.MasterKind) ([]domain.MasterOption, error)
	ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.MasterOption, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// StatsRepository provides aggregate dashboard queries.
type StatsRepository interface {
	GetDashboard(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope) (*domain.DashboardStats, error)
}

// OverdueRepository finds stages pending since before a cutoff across all
// tenants. Stages already claimed for their current planned timestamp are
// skipped, so successive polls walk the whole overdue set.
type OverdueRepository interface {
	ListOverdue(ctx context.Context, cutoff time.Time, limit int) ([]domain.OverdueItem, error)
	// ClaimEscalations records items as escalated and returns the subset this
	// call recorded. Items claimed earlier, by this or another process, are
	// left out.
	ClaimEscalations(ctx context.Context, items []domain.OverdueItem) ([]domain.OverdueItem, error)
}
