package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

const liftInsert = `INSERT INTO lifts (
	id, tenant_id, lift_number, indent_id, indent_number, po_id, po_number, firm_name, vendor_name,
	product_name, lifted_quantity, received_quantity, transporter_name, vehicle_number, lr_number,
	bill_number, bill_date, bill_amount, bill_file_id,
	quality_ok, store_remarks, planned_store_in, actual_store_in,
	reconcile_status, reconcile_results, planned_bill_check, actual_bill_check,
	tally_status, tally_voucher, tally_remarks, planned_tally, actual_tally,
	correction_remarks, planned_correction, actual_correction,
	created_by, created_at, updated_at, version
) VALUES (
	:id, :tenant_id, :lift_number, :indent_id, :indent_number, :po_id, :po_number, :firm_name, :vendor_name,
	:product_name, :lifted_quantity, :received_quantity, :transporter_name, :vehicle_number, :lr_number,
	:bill_number, :bill_date, :bill_amount, :bill_file_id,
	:quality_ok, :store_remarks, :planned_store_in, :actual_store_in,
	:reconcile_status, :reconcile_results, :planned_bill_check, :actual_bill_check,
	:tally_status, :tally_voucher, :tally_remarks, :planned_tally, :actual_tally,
	:correction_remarks, :planned_correction, :actual_correction,
	:created_by, :created_at, :updated_at, :version
)`

const liftUpdate = `UPDATE lifts SET
	received_quantity = :received_quantity, transporter_name = :transporter_name,
	vehicle_number = :vehicle_number, lr_number = :lr_number,
	bill_number = :bill_number, bill_date = :bill_date, bill_amount = :bill_amount, bill_file_id = :bill_file_id,
	quality_ok = :quality_ok, store_remarks = :store_remarks,
	planned_store_in = :planned_store_in, actual_store_in = :actual_store_in,
	reconcile_status = :reconcile_status, reconcile_results = :reconcile_results,
	planned_bill_check = :planned_bill_check, actual_bill_check = :actual_bill_check,
	tally_status = :tally_status, tally_voucher = :tally_voucher, tally_remarks = :tally_remarks,
	planned_tally = :planned_tally, actual_tally = :actual_tally,
	correction_remarks = :correction_remarks,
	planned_correction = :planned_correction, actual_correction = :actual_correction,
	updated_at = :updated_at, version = version + 1
WHERE id = :id AND tenant_id = :tenant_id AND version = :version`

type liftRepo struct {
	db *sqlx.DB
}

// NewLiftRepo creates a new PostgreSQL-backed LiftRepository.
func NewLiftRepo(db *sqlx.DB) port.LiftRepository {
	return &liftRepo{db: db}
}

func (r *liftRepo) CreateWithIndent(ctx context.Context, lift *domain.Lift, indent *domain.Indent) error {
	if lift.ID == uuid.Nil {
		lift.ID = uuid.New()
	}
	now := time.Now().UTC()
	lift.CreatedAt = now
	lift.UpdatedAt = now
	lift.Version = 1
	if lift.ReconcileStatus == "" {
		lift.ReconcileStatus = domain.ReconcilePending
	}
	if lift.TallyStatus == "" {
		lift.TallyStatus = domain.TallyPending
	}
	if len(lift.ReconcileResults) == 0 {
		lift.ReconcileResults = []byte("[]")
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, liftInsert, lift); err != nil {
			if isUniqueViolation(err, "lift_number") {
				return domain.ErrDuplicateNumber
			}
			return fmt.Errorf("liftRepo.CreateWithIndent: %w", err)
		}
		return updateIndent(ctx, tx, indent)
	})
}

func (r *liftRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID, scope domain.FirmScope) (*domain.Lift, error) {
	args := []interface{}{id, tenantID}
	clause, args := firmScope(scope, "firm_name", args)

	var lift domain.Lift
	err := r.db.GetContext(ctx, &lift,
		"SELECT * FROM lifts WHERE id = $1 AND tenant_id = $2"+clause, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLiftNotFound
		}
		return nil, fmt.Errorf("liftRepo.GetByID: %w", err)
	}
	return &lift, nil
}

func (r *liftRepo) ListByStage(ctx context.Context, tenantID uuid.UUID, f domain.StageFilter) ([]domain.Lift, int, error) {
	if !f.Stage.IsLiftStage() {
		return nil, 0, domain.ErrInvalidStage
	}
	where, args, order, err := stageWhere(tenantID, f,
		"lift_number", "indent_number", "po_number", "product_name", "vendor_name", "bill_number")
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM lifts WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("liftRepo.ListByStage count: %w", err)
	}

	offset, limit := clampPage(f.Offset, f.Limit)
	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM lifts WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		where, order, len(args)-1, len(args))

	var lifts []domain.Lift
	if err := r.db.SelectContext(ctx, &lifts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("liftRepo.ListByStage: %w", err)
	}
	return lifts, total, nil
}

func (r *liftRepo) ListByIndent(ctx context.Context, tenantID, indentID uuid.UUID) ([]domain.Lift, error) {
	var lifts []domain.Lift
	err := r.db.SelectContext(ctx, &lifts,
		"SELECT * FROM lifts WHERE tenant_id = $1 AND indent_id = $2 ORDER BY created_at", tenantID, indentID)
	if err != nil {
		return nil, fmt.Errorf("liftRepo.ListByIndent: %w", err)
	}
	return lifts, nil
}

func (r *liftRepo) ListAll(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope, offset, limit int) ([]domain.Lift, int, error) {
	args := []interface{}{tenantID}
	clause, args := firmScope(scope, "firm_name", args)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM lifts WHERE tenant_id = $1"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("liftRepo.ListAll count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM lifts WHERE tenant_id = $1%s ORDER BY created_at LIMIT $%d OFFSET $%d",
		clause, len(args)-1, len(args))

	var lifts []domain.Lift
	if err := r.db.SelectContext(ctx, &lifts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("liftRepo.ListAll: %w", err)
	}
	return lifts, total, nil
}

func (r *liftRepo) SumLifted(ctx context.Context, tenantID, indentID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.GetContext(ctx, &sum,
		"SELECT COALESCE(SUM(lifted_quantity), 0) FROM lifts WHERE tenant_id = $1 AND indent_id = $2",
		tenantID, indentID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("liftRepo.SumLifted: %w", err)
	}
	return sum, nil
}

func (r *liftRepo) ListNumbers(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	var numbers []string
	if err := r.db.SelectContext(ctx, &numbers,
		"SELECT lift_number FROM lifts WHERE tenant_id = $1", tenantID); err != nil {
		return nil, fmt.Errorf("liftRepo.ListNumbers: %w", err)
	}
	return numbers, nil
}

func (r *liftRepo) Update(ctx context.Context, lift *domain.Lift) error {
	lift.UpdatedAt = time.Now().UTC()
	result, err := r.db.NamedExecContext(ctx, liftUpdate, lift)
	if err != nil {
		return fmt.Errorf("liftRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM lifts WHERE id = $1 AND tenant_id = $2)",
			lift.ID, lift.TenantID); err != nil {
			return fmt.Errorf("liftRepo.Update exists: %w", err)
		}
		if exists {
			return domain.ErrVersionConflict
		}
		return domain.ErrLiftNotFound
	}
	lift.Version++
	return nil
}
