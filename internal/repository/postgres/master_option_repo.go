package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

type masterOptionRepo struct {
	db *sqlx.DB
}

// NewMasterOptionRepo creates a new PostgreSQL-backed MasterOptionRepository.
func NewMasterOptionRepo(db *sqlx.DB) port.MasterOptionRepository {
	return &masterOptionRepo{db: db}
}

func (r *masterOptionRepo) Create(ctx context.Context, opt *domain.MasterOption) error {
	opt.ID = uuid.New()
	opt.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO master_options (id, tenant_id, kind, value, created_at) VALUES ($1, $2, $3, $4, $5)`,
		opt.ID, opt.TenantID, opt.Kind, opt.Value, opt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "master_options") {
			return domain.ErrDuplicateOption
		}
		return fmt.Errorf("masterOptionRepo.Create: %w", err)
	}
	return nil
}

func (r *masterOptionRepo) ListByKind(ctx context.Context, tenantID uuid.UUID, kind domain.MasterKind) ([]domain.MasterOption, error) {
	var opts []domain.MasterOption
	err := r.db.SelectContext(ctx, &opts,
		"SELECT * FROM master_options WHERE tenant_id = $1 AND kind = $2 ORDER BY value", tenantID, kind)
	if err != nil {
		return nil, fmt.Errorf("masterOptionRepo.ListByKind: %w", err)
	}
	return opts, nil
}

func (r *masterOptionRepo) ListAll(ctx context.Context, tenantID uuid.UUID) ([]domain.MasterOption, error) {
	var opts []domain.MasterOption
	err := r.db.SelectContext(ctx, &opts,
		"SELECT * FROM master_options WHERE tenant_id = $1 ORDER BY kind, value", tenantID)
	if err != nil {
		return nil, fmt.Errorf("masterOptionRepo.ListAll: %w", err)
	}
	return opts, nil
}

func (r *masterOptionRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM master_options WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("masterOptionRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
