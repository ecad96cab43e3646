package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

// CreateTenantInput is the DTO for creating a tenant.
type CreateTenantInput struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// UpdateTenantInput is the DTO for updating a tenant.
type UpdateTenantInput struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	IsActive *bool   `json:"is_active"`
}

// TenantService defines the tenant management contract.
type TenantService interface {
	Create(ctx context.Context, input CreateTenantInput) (*domain.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	List(ctx context.Context, offset, limit int) ([]domain.Tenant, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTenantInput) (*domain.Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Login resolves tenants by slug, so slugs stay URL and form safe.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// defaultMasterOptions are seeded into every new tenant so the indent form
// has units and payment terms before an admin curates them.
var defaultMasterOptions = []struct {
	kind  domain.MasterKind
	value string
}{
	{domain.MasterUOM, "NOS"},
	{domain.MasterUOM, "KG"},
	{domain.MasterUOM, "MTR"},
	{domain.MasterUOM, "LTR"},
	{domain.MasterPaymentTerm, "Advance"},
	{domain.MasterPaymentTerm, "30 Days"},
}

type tenantService struct {
	repo    port.TenantRepository
	masters port.MasterOptionRepository
	logger  *zap.Logger
}

// NewTenantService creates a new TenantService implementation. masters may be
// nil, in which case new tenants start without dropdown values.
func NewTenantService(repo port.TenantRepository, masters port.MasterOptionRepository, logger *zap.Logger) TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tenantService{repo: repo, masters: masters, logger: logger}
}

func (s *tenantService) Create(ctx context.Context, input CreateTenantInput) (*domain.Tenant, error) {
	name, err := tenantName(input.Name)
	if err != nil {
		return nil, err
	}
	slug, err := tenantSlug(input.Slug)
	if err != nil {
		return nil, err
	}
	tenant := &domain.Tenant{Name: name, Slug: slug, IsActive: true}
	if err := s.repo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	s.seedMasters(ctx, tenant.ID)
	return tenant, nil
}

// seedMasters is best effort. A tenant without defaults is still usable.
func (s *tenantService) seedMasters(ctx context.Context, tenantID uuid.UUID) {
	if s.masters == nil {
		return
	}
	for _, d := range defaultMasterOptions {
		opt := &domain.MasterOption{TenantID: tenantID, Kind: d.kind, Value: d.value}
		if err := s.masters.Create(ctx, opt); err != nil {
			s.logger.Warn("seeding master option failed",
				zap.String("tenant_id", tenantID.String()),
				zap.String("kind", string(d.kind)),
				zap.Error(err))
		}
	}
}

func tenantName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: tenant name is required", domain.ErrValidation)
	}
	return name, nil
}

func tenantSlug(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("%w: slug must be lower case letters, digits and single hyphens", domain.ErrValidation)
	}
	return slug, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *tenantService) List(ctx context.Context, offset, limit int) ([]domain.Tenant, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *tenantService) Update(ctx context.Context, id uuid.UUID, input UpdateTenantInput) (*domain.Tenant, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if tenant.Name, err = tenantName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Slug != nil {
		if tenant.Slug, err = tenantSlug(*input.Slug); err != nil {
			return nil, err
		}
	}
	if input.IsActive != nil {
		tenant.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *tenantService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
