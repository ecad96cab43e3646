package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

// BootstrapInput describes the first tenant and its administrator.
type BootstrapInput struct {
	TenantName string `json:"tenant_name" binding:"required"`
	TenantSlug string `json:"tenant_slug" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FullName   string `json:"full_name" binding:"required"`
}

// BootstrapOutput contains the created records.
type BootstrapOutput struct {
	Tenant *domain.Tenant `json:"tenant"`
	Admin  *domain.User   `json:"admin"`
}

// BootstrapService provisions a tenant together with an admin user that can
// reach every firm.
type BootstrapService interface {
	Bootstrap(ctx context.Context, input BootstrapInput) (*BootstrapOutput, error)
}

type bootstrapService struct {
	tenantRepo port.TenantRepository
	userRepo   port.UserRepository
}

// NewBootstrapService creates a new BootstrapService.
func NewBootstrapService(tenantRepo port.TenantRepository, userRepo port.UserRepository) BootstrapService {
	return &bootstrapService{tenantRepo: tenantRepo, userRepo: userRepo}
}

func (s *bootstrapService) Bootstrap(ctx context.Context, input BootstrapInput) (*BootstrapOutput, error) {
	slug := strings.ToLower(strings.TrimSpace(input.TenantSlug))
	if slug == "" || strings.TrimSpace(input.TenantName) == "" {
		return nil, fmt.Errorf("%w: tenant name and slug are required", domain.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	// An existing tenant is reused so the command can be re-run to add an admin.
	tenant, err := s.tenantRepo.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		tenant = &domain.Tenant{
			Name:     strings.TrimSpace(input.TenantName),
			Slug:     slug,
			IsActive: true,
		}
		if err := s.tenantRepo.Create(ctx, tenant); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("looking up tenant: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	admin := &domain.User{
		TenantID:      tenant.ID,
		Email:         strings.TrimSpace(input.Email),
		PasswordHash:  string(hash),
		FullName:      strings.TrimSpace(input.FullName),
		Role:          domain.RoleAdmin,
		FirmNameMatch: domain.FirmMatchAll,
		IsActive:      true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, err // ErrDuplicateEmail propagates naturally
	}

	return &BootstrapOutput{Tenant: tenant, Admin: admin}, nil
}
