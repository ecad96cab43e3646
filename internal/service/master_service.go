package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

// AddMasterOptionInput is the DTO for adding a dropdown value.
type AddMasterOptionInput struct {
	Kind  domain.MasterKind `json:"kind" binding:"required"`
	Value string            `json:"value" binding:"required"`
}

// MasterService maintains the dropdown values used on indent forms.
type MasterService interface {
	List(ctx context.Context, actor domain.Actor, kind domain.MasterKind) ([]domain.MasterOption, error)
	// ListGrouped returns every option of the tenant keyed by kind.
	ListGrouped(ctx context.Context, actor domain.Actor) (map[domain.MasterKind][]string, error)
	Add(ctx context.Context, actor domain.Actor, input AddMasterOptionInput) (*domain.MasterOption, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

type masterService struct {
	repo port.MasterOptionRepository
}

// NewMasterService creates a new MasterService implementation.
func NewMasterService(repo port.MasterOptionRepository) MasterService {
	return &masterService{repo: repo}
}

func (s *masterService) List(ctx context.Context, actor domain.Actor, kind domain.MasterKind) ([]domain.MasterOption, error) {
	if !domain.ValidMasterKinds[kind] {
		return nil, domain.ErrInvalidMasterKind
	}
	return s.repo.ListByKind(ctx, actor.TenantID, kind)
}

func (s *masterService) ListGrouped(ctx context.Context, actor domain.Actor) (map[domain.MasterKind][]string, error) {
	opts, err := s.repo.ListAll(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.MasterKind][]string, len(domain.ValidMasterKinds))
	for kind := range domain.ValidMasterKinds {
		out[kind] = []string{}
	}
	for _, o := range opts {
		out[o.Kind] = append(out[o.Kind], o.Value)
	}
	return out, nil
}

func (s *masterService) Add(ctx context.Context, actor domain.Actor, input AddMasterOptionInput) (*domain.MasterOption, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidMasterKinds[input.Kind] {
		return nil, domain.ErrInvalidMasterKind
	}
	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, fmt.Errorf("%w: value is required", domain.ErrValidation)
	}
	opt := &domain.MasterOption{
		TenantID: actor.TenantID,
		Kind:     input.Kind,
		Value:    value,
	}
	if err := s.repo.Create(ctx, opt); err != nil {
		return nil, err
	}
	return opt, nil
}

func (s *masterService) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, actor.TenantID, id)
}
