package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

type purchaseOrderRepo struct {
	db *sqlx.DB
}

// NewPurchaseOrderRepo creates a new PostgreSQL-backed PurchaseOrderRepository.
func NewPurchaseOrderRepo(db *sqlx.DB) port.PurchaseOrderRepository {
	return &purchaseOrderRepo{db: db}
}

func (r *purchaseOrderRepo) CreateWithIndents(ctx context.Context, po *domain.PurchaseOrder, indents []*domain.Indent) error {
	if po.ID == uuid.Nil {
		po.ID = uuid.New()
	}
	po.CreatedAt = time.Now().UTC()

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO purchase_orders (
				id, tenant_id, po_number, firm_name, vendor_id, vendor_name, vendor_email, vendor_address,
				vendor_gstin, quotation_number, quotation_date, delivery_date, payment_terms, terms,
				gst_percent, subtotal, gst_amount, total, pdf_file_id, created_by, created_at
			) VALUES (
				:id, :tenant_id, :po_number, :firm_name, :vendor_id, :vendor_name, :vendor_email, :vendor_address,
				:vendor_gstin, :quotation_number, :quotation_date, :delivery_date, :payment_terms, :terms,
				:gst_percent, :subtotal, :gst_amount, :total, :pdf_file_id, :created_by, :created_at
			)`, po)
		if err != nil {
			if isUniqueViolation(err, "po_number") {
				return domain.ErrDuplicateNumber
			}
			return fmt.Errorf("purchaseOrderRepo.CreateWithIndents: %w", err)
		}
		for _, indent := range indents {
			if err := updateIndent(ctx, tx, indent); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *purchaseOrderRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID, scope domain.FirmScope) (*domain.PurchaseOrder, error) {
	args := []interface{}{id, tenantID}
	clause, args := firmScope(scope, "firm_name", args)

	var po domain.PurchaseOrder
	err := r.db.GetContext(ctx, &po,
		"SELECT * FROM purchase_orders WHERE id = $1 AND tenant_id = $2"+clause, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPONotFound
		}
		return nil, fmt.Errorf("purchaseOrderRepo.GetByID: %w", err)
	}
	return &po, nil
}

func (r *purchaseOrderRepo) List(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope, offset, limit int) ([]domain.PurchaseOrder, int, error) {
	args := []interface{}{tenantID}
	clause, args := firmScope(scope, "firm_name", args)

	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM purchase_orders WHERE tenant_id = $1"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("purchaseOrderRepo.List count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		"SELECT * FROM purchase_orders WHERE tenant_id = $1%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		clause, len(args)-1, len(args))

	var pos []domain.PurchaseOrder
	if err := r.db.SelectContext(ctx, &pos, query, args...); err != nil {
		return nil, 0, fmt.Errorf("purchaseOrderRepo.List: %w", err)
	}
	return pos, total, nil
}

func (r *purchaseOrderRepo) ListNumbers(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	var numbers []string
	if err := r.db.SelectContext(ctx, &numbers,
		"SELECT po_number FROM purchase_orders WHERE tenant_id = $1", tenantID); err != nil {
		return nil, fmt.Errorf("purchaseOrderRepo.ListNumbers: %w", err)
	}
	return numbers, nil
}

func (r *purchaseOrderRepo) SetPDF(ctx context.Context, tenantID, id, fileID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE purchase_orders SET pdf_file_id = $1 WHERE id = $2 AND tenant_id = $3", fileID, id, tenantID)
	if err != nil {
		return fmt.Errorf("purchaseOrderRepo.SetPDF: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPONotFound
	}
	return nil
}
