package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"indentflow/internal/domain"
	"indentflow/internal/port"
	"indentflow/internal/workflow"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) GetDashboard(ctx context.Context, tenantID uuid.UUID, scope domain.FirmScope) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	indentCounts, total, err := r.pendingCounts(ctx, "indents", domain.IndentStages, tenantID, scope)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.GetDashboard indents: %w", err)
	}
	stats.Indents = indentCounts
	stats.TotalIndents = total

	liftCounts, _, err := r.pendingCounts(ctx, "lifts", domain.LiftStages, tenantID, scope)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.GetDashboard lifts: %w", err)
	}
	stats.Lifts = liftCounts

	// A PO is open while any of its indents still awaits receipt.
	args := []interface{}{tenantID}
	clause, args := firmScope(scope, "po.firm_name", args)
	row := r.db.QueryRowxContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(po.total), 0) FROM purchase_orders po
		 WHERE po.tenant_id = $1`+clause+`
		   AND EXISTS (SELECT 1 FROM indents i
		               WHERE i.po_id = po.id AND i.planned_receipt IS NOT NULL AND i.actual_receipt IS NULL)`,
		args...)
	var value decimal.Decimal
	if err := row.Scan(&stats.OpenPOCount, &value); err != nil {
		return nil, fmt.Errorf("statsRepo.GetDashboard open po: %w", err)
	}
	stats.OpenPOValue = value
	return stats, nil
}

func (r *statsRepo) pendingCounts(ctx context.Context, table string, stages []domain.Stage, tenantID uuid.UUID, scope domain.FirmScope) ([]domain.StageCount, int, error) {
	exprs := make([]string, 0, len(stages)+1)
	exprs = append(exprs, "COUNT(*)")
	for _, s := range stages {
		cond, _ := workflow.ViewCondition(s, domain.ViewPending)
		exprs = append(exprs, "COUNT(*) FILTER (WHERE "+cond+")")
	}
	args := []interface{}{tenantID}
	clause, args := firmScope(scope, "firm_name", args)
	query := "SELECT " + strings.Join(exprs, ", ") + " FROM " + table + " WHERE tenant_id = $1" + clause

	counts := make([]int, len(stages)+1)
	dest := make([]interface{}, len(counts))
	for i := range counts {
		dest[i] = &counts[i]
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(dest...); err != nil {
		return nil, 0, err
	}

	out := make([]domain.StageCount, len(stages))
	for i, s := range stages {
		out[i] = domain.StageCount{Stage: s, Pending: counts[i+1]}
	}
	return out, counts[0], nil
}

type overdueRepo struct {
	db *sqlx.DB
}

// NewOverdueRepo creates a new PostgreSQL-backed OverdueRepository.
func NewOverdueRepo(db *sqlx.DB) port.OverdueRepository {
	return &overdueRepo{db: db}
}

func (r *overdueRepo) ListOverdue(ctx context.Context, cutoff time.Time, limit int) ([]domain.OverdueItem, error) {
	parts := make([]string, 0, len(domain.IndentStages)+len(domain.LiftStages))
	for _, s := range domain.IndentStages {
		parts = append(parts, overdueSelect(s, domain.EntityIndent, "indent_number"))
	}
	for _, s := range domain.LiftStages {
		parts = append(parts, overdueSelect(s, domain.EntityLift, "lift_number"))
	}
	query := strings.Join(parts, "\nUNION ALL\n") + "\nORDER BY planned_at LIMIT $2"

	var items []domain.OverdueItem
	if err := r.db.SelectContext(ctx, &items, query, cutoff, limit); err != nil {
		return nil, fmt.Errorf("overdueRepo.ListOverdue: %w", err)
	}
	return items, nil
}

func (r *overdueRepo) ClaimEscalations(ctx context.Context, items []domain.OverdueItem) ([]domain.OverdueItem, error) {
	var claimed []domain.OverdueItem
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		claimed = claimed[:0]
		for _, item := range items {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO stage_escalations (tenant_id, entity_type, entity_id, stage, planned_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT DO NOTHING`,
				item.TenantID, item.EntityType, item.EntityID, item.Stage, item.PlannedAt)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n == 1 {
				claimed = append(claimed, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("overdueRepo.ClaimEscalations: %w", err)
	}
	return claimed, nil
}

func overdueSelect(stage domain.Stage, entity domain.EntityType, numberColumn string) string {
	c, _ := workflow.StageColumns(stage)
	return fmt.Sprintf(
		"SELECT '%[1]s' AS entity_type, t.id AS entity_id, t.tenant_id, t.%[2]s AS number, t.firm_name, '%[3]s' AS stage, t.%[4]s AS planned_at"+
			" FROM %[5]s t WHERE t.%[4]s < $1 AND t.%[6]s IS NULL"+
			" AND NOT EXISTS (SELECT 1 FROM stage_escalations e WHERE e.entity_type = '%[1]s' AND e.entity_id = t.id AND e.stage = '%[3]s' AND e.planned_at = t.%[4]s)",
		entity, numberColumn, stage, c.Planned, c.Table, c.Actual)
}
