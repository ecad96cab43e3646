package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

// CreateVendorInput is the DTO for adding a vendor.
type CreateVendorInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	GSTIN       string `json:"gstin"`
	PaymentTerm string `json:"payment_term"`
}

// UpdateVendorInput is the DTO for updating a vendor.
type UpdateVendorInput struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	GSTIN       *string `json:"gstin"`
	PaymentTerm *string `json:"payment_term"`
	IsActive    *bool   `json:"is_active"`
}

// VendorService defines the vendor master contract.
type VendorService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateVendorInput) (*domain.Vendor, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Vendor, error)
	List(ctx context.Context, actor domain.Actor, search string, offset, limit int) ([]domain.Vendor, int, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input UpdateVendorInput) (*domain.Vendor, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type vendorService struct {
	repo port.VendorRepository
}

// NewVendorService creates a new VendorService implementation.
func NewVendorService(repo port.VendorRepository) VendorService {
	return &vendorService{repo: repo}
}

func canManageVendors(role domain.UserRole) bool {
	return role == domain.RoleAdmin || role == domain.RolePurchaser
}

func (s *vendorService) Create(ctx context.Context, actor domain.Actor, input CreateVendorInput) (*domain.Vendor, error) {
	if !canManageVendors(actor.Role) {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: vendor name is required", domain.ErrValidation)
	}
	vendor := &domain.Vendor{
		TenantID:    actor.TenantID,
		Name:        name,
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		Address:     strings.TrimSpace(input.Address),
		GSTIN:       strings.ToUpper(strings.TrimSpace(input.GSTIN)),
		PaymentTerm: strings.TrimSpace(input.PaymentTerm),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Vendor, error) {
	return s.repo.GetByID(ctx, actor.TenantID, id)
}

func (s *vendorService) List(ctx context.Context, actor domain.Actor, search string, offset, limit int) ([]domain.Vendor, int, error) {
	return s.repo.List(ctx, actor.TenantID, strings.TrimSpace(search), offset, limit)
}

func (s *vendorService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input UpdateVendorInput) (*domain.Vendor, error) {
	if !canManageVendors(actor.Role) {
		return nil, domain.ErrForbidden
	}
	vendor, err := s.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: vendor name is required", domain.ErrValidation)
		}
		vendor.Name = name
	}
	if input.Email != nil {
		vendor.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		vendor.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		vendor.Address = strings.TrimSpace(*input.Address)
	}
	if input.GSTIN != nil {
		vendor.GSTIN = strings.ToUpper(strings.TrimSpace(*input.GSTIN))
	}
	if input.PaymentTerm != nil {
		vendor.PaymentTerm = strings.TrimSpace(*input.PaymentTerm)
	}
	if input.IsActive != nil {
		vendor.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if !canManageVendors(actor.Role) {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, actor.TenantID, id)
}
