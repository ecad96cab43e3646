package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"indentflow/internal/domain"
	"indentflow/internal/port"
	"indentflow/internal/workflow"
)

const indentInsert = `INSERT INTO indents (
	id, tenant_id, indent_number, firm_name, indenter_name, department, area_of_use, group_head,
	product_name, specifications, quantity, uom, indent_type, attachment_file_id,
	vendor_type, approved_quantity, approved_by, approval_remarks, planned_approval, actual_approval,
	vendor_id, vendor_name, rate, payment_term, quotation_file_id, quotes, planned_rate, actual_rate,
	approved_quote_index, planned_three_party, actual_three_party,
	po_id, po_number, planned_po, actual_po,
	received_quantity, planned_receipt, actual_receipt,
	issued_quantity, issued_by, planned_store_issue, actual_store_issue,
	created_by, created_at, updated_at, version
) VALUES (
	:id, :tenant_id, :indent_number, :firm_name, :indenter_name, :department, :area_of_use, :group_head,
	:product_name, :specifications, :quantity, :uom, :indent_type, :attachment_file_id,
	:vendor_type, :approved_quantity, :approved_by, :approval_remarks, :planned_approval, :actual_approval,
	:vendor_id, :vendor_name, :rate, :payment_term, :quotation_file_id, :quotes, :planned_rate, :actual_rate,
	:approved_quote_index, :planned_three_party, :actual_three_party,
	:po_id, :po_number, :planned_po, :actual_po,
	:received_quantity, :planned_receipt, :actual_receipt,
	:issued_quantity, :issued_by, :planned_store_issue, :actual_store_issue,
	:created_by, :created_at, :updated_at, :version
)`

// Every mutable column; identity, number and creation fields never change.
const indentUpdate = `UPDATE indents SET
	firm_name = :firm_name, indenter_name = :indenter_name, department = :department,
	area_of_use = :area_of_use, group_head = :group_head, product_name = :product_name,
	specifications = :specifications, quantity = :quantity, uom = :uom, indent_type = :indent_type,
	attachment_file_id = :attachment_file_id,
	vendor_type = :vendor_type, approved_quantity = :approved_quantity, approved_by = :approved_by,
	approval_remarks = :approval_remarks, planned_approval = :planned_approval, actual_approval = :actual_approval,
	vendor_id = :vendor_id, vendor_name = :vendor_name, rate = :rate, payment_term = :payment_term,
	quotation_file_id = :quotation_file_id, quotes = :quotes, planned_rate = :planned_rate, actual_rate = :actual_rate,
	approved_quote_index = :approved_quote_index, planned_three_party = :planned_three_party,
	actual_three_party = :actual_three_party,
	po_id = :po_id, po_number = :po_number, planned_po = :planned_po, actual_po = :actual_po,
	received_quantity = :received_quantity, planned_receipt = :planned_receipt, actual_receipt = :actual_receipt,
	issued_quantity = :issued_quantity, issued_by = :issued_by,
	planned_store_issue = :planned_store_issue, actual_store_issue = :actual_store_issue,
	updated_at = :updated_at, version = version + 1
WHERE id = :id AND tenant_id = :tenant_id AND version = :version`

type indentRepo struct {
	db *sqlx.DB
}

// NewIndentRepo creates a new PostgreSQL-backed IndentRepository.
func NewIndentRepo(db *sqlx.DB) port.IndentRepository {
	return &indentRepo{db: db}
}

func prepareIndentInsert(indent *domain.Indent) {
	if indent.ID == uuid.Nil {
		indent.ID = uuid.New()
	}
	now := time.Now().UTC()
	if indent.CreatedAt.IsZero() {
		indent.CreatedAt = now
	}
	indent.UpdatedAt = now
	indent.Version = 1
	if indent.VendorType == "" {
		indent.VendorType = domain.VendorTypePending
	}
	if indent.IndentType == "" {
		indent.IndentType = domain.IndentTypePurchase
	}
}

func (r *indentRepo) Create(ctx context.Context, indent *domain.Indent) error {
	prepareIndentInsert(indent)
	if _, err := r.db.NamedExecContext(ctx, indentInsert, indent); err != nil {
		if isUniqueViolation(err, "indent_number") {
			return domain.ErrDuplicateNumber
		}
		return fmt.Errorf("indentRepo.Create: %w", err)
	}
	return nil
}

func (r *indentRepo) CreateBatch(ctx context.Context, indents []*domain.Indent) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, indent := range indents {
			prepareIndentInsert(indent)
			if _, err := tx.NamedExecContext(ctx, indentInsert, indent); err != nil {
				if isUniqueViolation(err, "indent_number") {
					return fmt.Errorf("%w: %s", domain.ErrDuplicateNumber, indent.IndentNumber)
				}
				return fmt.Errorf("indentRepo.CreateBatch: %w", err)
			}
		}
		return nil
	})
}

func (r *indentRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID, scope domain.FirmScope) (*domain.Indent, error) {
	args := []interface{}{id, tenantID}
	clause, args := firmScope(scope, "firm_name", args)

	var indent domain.Indent
	err := r.db.GetContext(ctx, &indent,
		"SELECT * FROM indents WHERE id = $1 AND tenant_id = $2"+clause, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIndentNotFound
		}
		return nil, fmt.Errorf("indentRepo.GetByID: %w", err)
	}
	return &indent, nil
}

func (r *indentRepo) GetByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID, scope domain.FirmScope) ([]domain.Indent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		"SELECT * FROM indents WHERE tenant_id = ? AND id IN (?) ORDER BY indent_number", tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("indentRepo.GetByIDs: %w", err)
	}

	var rows []domain.Indent
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("indentRepo.GetByIDs: %w", err)
	}

	out := rows[:0]
	for _, in := range rows {
		if scope.AllowsFirm(in.FirmName) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r *indentRepo) ListByStage(ctx context.Context, tenantID uuid.UUID, f domain.StageFilter) ([]domain.Indent, int, error) {
	if !f.Stage.IsIndentStage() {
		return nil, 0, domain.ErrInvalidStage
	}
	where, args, order, err := stageWhere(tenantID, f,
		"indent_number", "product_name", "indenter_name", "vendor_name")
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM indents WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("indentRepo.ListByStage count: %w", err)
	}

	offset, limit := clampPage(f.Offset, f.Limit)
	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM indents WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		where, order, len(args)-1, len(args))

	var indents []domain.Indent
	if err := r.db.SelectContext(ctx, &indents, query, args...); err != nil {
		return nil, 0, fmt.Errorf("indentRepo.ListByStage: %w", err)
	}
	return indents, total, nil
}

func (r *indentRepo) ListAll(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope, offset, limit int) ([]domain.Indent, int, error) {
	args := []interface{}{tenantID}
	clause, args := firmScope(scope, "firm_name", args)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM indents WHERE tenant_id = $1"+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("indentRepo.ListAll count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM indents WHERE tenant_id = $1%s ORDER BY created_at LIMIT $%d OFFSET $%d",
		clause, len(args)-1, len(args))

	var indents []domain.Indent
	if err := r.db.SelectContext(ctx, &indents, query, args...); err != nil {
		return nil, 0, fmt.Errorf("indentRepo.ListAll: %w", err)
	}
	return indents, total, nil
}

func (r *indentRepo) ListByPO(ctx context.Context, tenantID, poID uuid.UUID) ([]domain.Indent, error) {
	var indents []domain.Indent
	if err := r.db.SelectContext(ctx, &indents,
		"SELECT * FROM indents WHERE tenant_id = $1 AND po_id = $2 ORDER BY indent_number",
		tenantID, poID); err != nil {
		return nil, fmt.Errorf("indentRepo.ListByPO: %w", err)
	}
	return indents, nil
}

func (r *indentRepo) ListNumbers(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	var numbers []string
	if err := r.db.SelectContext(ctx, &numbers,
		"SELECT indent_number FROM indents WHERE tenant_id = $1", tenantID); err != nil {
		return nil, fmt.Errorf("indentRepo.ListNumbers: %w", err)
	}
	return numbers, nil
}

func (r *indentRepo) Update(ctx context.Context, indent *domain.Indent) error {
	return updateIndent(ctx, r.db, indent)
}

// updateIndent applies the versioned update with e, which may be a transaction.
func updateIndent(ctx context.Context, e sqlx.ExtContext, indent *domain.Indent) error {
	indent.UpdatedAt = time.Now().UTC()
	result, err := sqlx.NamedExecContext(ctx, e, indentUpdate, indent)
	if err != nil {
		return fmt.Errorf("indentRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := sqlx.GetContext(ctx, e, &exists,
			"SELECT EXISTS(SELECT 1 FROM indents WHERE id = $1 AND tenant_id = $2)",
			indent.ID, indent.TenantID); err != nil {
			return fmt.Errorf("indentRepo.Update exists: %w", err)
		}
		if exists {
			return domain.ErrVersionConflict
		}
		return domain.ErrIndentNotFound
	}
	indent.Version++
	return nil
}

// stageWhere builds the WHERE clause and ORDER BY of a stage listing. Column
// names come only from the workflow whitelist and the fixed search columns.
func stageWhere(tenantID uuid.UUID, f domain.StageFilter, searchColumns ...string) (string, []interface{}, string, error) {
	cond, ok := workflow.ViewCondition(f.Stage, f.View)
	if !ok {
		return "", nil, "", domain.ErrInvalidStage
	}
	cols, _ := workflow.StageColumns(f.Stage)

	args := []interface{}{tenantID}
	var b strings.Builder
	b.WriteString("tenant_id = $1 AND ")
	b.WriteString(cond)

	clause, args := firmScope(f.Scope, "firm_name", args)
	b.WriteString(clause)

	if firm := strings.TrimSpace(f.Firm); firm != "" {
		args = append(args, firm)
		fmt.Fprintf(&b, " AND lower(firm_name) = lower($%d)", len(args))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+search+"%")
		parts := make([]string, len(searchColumns))
		for i, c := range searchColumns {
			parts[i] = fmt.Sprintf("%s ILIKE $%d", c, len(args))
		}
		b.WriteString(" AND (" + strings.Join(parts, " OR ") + ")")
	}

	order := cols.Planned + " ASC"
	if f.View == domain.ViewHistory {
		order = cols.Actual + " DESC"
	}
	return b.String(), args, order, nil
}
