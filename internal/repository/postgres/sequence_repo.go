package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"indentflow/internal/port"
)

type sequenceRepo struct {
	db *sqlx.DB
}

// NewSequenceRepo creates a new PostgreSQL-backed SequenceRepository.
func NewSequenceRepo(db *sqlx.DB) port.SequenceRepository {
	return &sequenceRepo{db: db}
}

// Next increments and returns the counter in a single statement, so
// concurrent callers never observe the same value.
func (r *sequenceRepo) Next(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error) {
	var value int64
	err := r.db.GetContext(ctx, &value,
		`INSERT INTO sequences (tenant_id, prefix, value) VALUES ($1, $2, 1)
		 ON CONFLICT (tenant_id, prefix) DO UPDATE SET value = sequences.value + 1
		 RETURNING value`, tenantID, prefix)
	if err != nil {
		return 0, fmt.Errorf("sequenceRepo.Next: %w", err)
	}
	return value, nil
}

// AdvanceTo raises the counter to value; it never lowers it.
func (r *sequenceRepo) AdvanceTo(ctx context.Context, tenantID uuid.UUID, prefix string, value int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sequences (tenant_id, prefix, value) VALUES ($1, $2, $3)
		 ON CONFLICT (tenant_id, prefix) DO UPDATE SET value = GREATEST(sequences.value, EXCLUDED.value)`,
		tenantID, prefix, value)
	if err != nil {
		return fmt.Errorf("sequenceRepo.AdvanceTo: %w", err)
	}
	return nil
}

func (r *sequenceRepo) Current(ctx context.Context, tenantID uuid.UUID, prefix string) (int64, error) {
	var value int64
	err := r.db.GetContext(ctx, &value,
		"SELECT value FROM sequences WHERE tenant_id = $1 AND prefix = $2", tenantID, prefix)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("sequenceRepo.Current: %w", err)
	}
	return value, nil
}
