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
)

type vendorRepo struct {
	db *sqlx.DB
}

// NewVendorRepo creates a new PostgreSQL-backed VendorRepository.
func NewVendorRepo(db *sqlx.DB) port.VendorRepository {
	return &vendorRepo{db: db}
}

func (r *vendorRepo) Create(ctx context.Context, v *domain.Vendor) error {
	v.ID = uuid.New()
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO vendors (id, tenant_id, name, email, phone, address, gstin, payment_term,
			is_active, created_at, updated_at)
		 VALUES (:id, :tenant_id, :name, :email, :phone, :address, :gstin, :payment_term,
			:is_active, :created_at, :updated_at)`, v)
	if err != nil {
		if isUniqueViolation(err, "vendors") {
			return domain.ErrDuplicateVendor
		}
		return fmt.Errorf("vendorRepo.Create: %w", err)
	}
	return nil
}

func (r *vendorRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.db.GetContext(ctx, &v, "SELECT * FROM vendors WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("vendorRepo.GetByID: %w", err)
	}
	return &v, nil
}

func (r *vendorRepo) GetByName(ctx context.Context, tenantID uuid.UUID, name string) (*domain.Vendor, error) {
	var v domain.Vendor
	err := r.db.GetContext(ctx, &v,
		"SELECT * FROM vendors WHERE tenant_id = $1 AND lower(name) = lower($2)", tenantID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("vendorRepo.GetByName: %w", err)
	}
	return &v, nil
}

func (r *vendorRepo) List(ctx context.Context, tenantID uuid.UUID, search string, offset, limit int) ([]domain.Vendor, int, error) {
	where := "tenant_id = $1"
	args := []interface{}{tenantID}
	if s := strings.TrimSpace(search); s != "" {
		args = append(args, "%"+s+"%")
		where += " AND (name ILIKE $2 OR gstin ILIKE $2)"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM vendors WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("vendorRepo.List count: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT * FROM vendors WHERE %s ORDER BY name LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var vendors []domain.Vendor
	if err := r.db.SelectContext(ctx, &vendors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("vendorRepo.List: %w", err)
	}
	return vendors, total, nil
}

func (r *vendorRepo) Update(ctx context.Context, v *domain.Vendor) error {
	v.UpdatedAt = time.Now().UTC()
	result, err := r.db.NamedExecContext(ctx,
		`UPDATE vendors SET name = :name, email = :email, phone = :phone, address = :address,
			gstin = :gstin, payment_term = :payment_term, is_active = :is_active, updated_at = :updated_at
		 WHERE id = :id AND tenant_id = :tenant_id`, v)
	if err != nil {
		if isUniqueViolation(err, "vendors") {
			return domain.ErrDuplicateVendor
		}
		return fmt.Errorf("vendorRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func (r *vendorRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM vendors WHERE id = $1 AND tenant_id = $2", id, tenantID)
	if err != nil {
		return fmt.Errorf("vendorRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}
