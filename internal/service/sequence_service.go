package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"indentflow/internal/numbering"
	"indentflow/internal/port"
)

// SequenceService hands out record numbers and keeps the counters ahead of
// numbers that entered the database by other means, such as imports.
type SequenceService interface {
	Next(ctx context.Context, tenantID uuid.UUID, prefix numbering.Prefix) (string, error)
	AdvanceTo(ctx context.Context, tenantID uuid.UUID, prefix numbering.Prefix, value int64) error
	Align(ctx context.Context, tenantID uuid.UUID) (map[numbering.Prefix]int64, error)
}

type sequenceService struct {
	seqRepo    port.SequenceRepository
	indentRepo port.IndentRepository
	poRepo     port.PurchaseOrderRepository
	liftRepo   port.LiftRepository
	logger     *zap.Logger
}

// NewSequenceService creates a new SequenceService implementation.
func NewSequenceService(
	seqRepo port.SequenceRepository,
	indentRepo port.IndentRepository,
	poRepo port.PurchaseOrderRepository,
	liftRepo port.LiftRepository,
	logger *zap.Logger,
) SequenceService {
	return &sequenceService{
		seqRepo:    seqRepo,
		indentRepo: indentRepo,
		poRepo:     poRepo,
		liftRepo:   liftRepo,
		logger:     logger,
	}
}

func (s *sequenceService) Next(ctx context.Context, tenantID uuid.UUID, prefix numbering.Prefix) (string, error) {
	seq, err := s.seqRepo.Next(ctx, tenantID, string(prefix))
	if err != nil {
		return "", fmt.Errorf("sequence.Next %s: %w", prefix, err)
	}
	return numbering.Format(prefix, seq), nil
}

func (s *sequenceService) AdvanceTo(ctx context.Context, tenantID uuid.UUID, prefix numbering.Prefix, value int64) error {
	if value <= 0 {
		return nil
	}
	if err := s.seqRepo.AdvanceTo(ctx, tenantID, string(prefix), value); err != nil {
		return fmt.Errorf("sequence.AdvanceTo %s: %w", prefix, err)
	}
	return nil
}

// Align moves every counter of the tenant to at least the highest number
// already stored and returns the resulting counter values.
func (s *sequenceService) Align(ctx context.Context, tenantID uuid.UUID) (map[numbering.Prefix]int64, error) {
	sources := []struct {
		prefix numbering.Prefix
		list   func(context.Context, uuid.UUID) ([]string, error)
	}{
		{numbering.PrefixIndent, s.indentRepo.ListNumbers},
		{numbering.PrefixPurchaseOrder, s.poRepo.ListNumbers},
		{numbering.PrefixLift, s.liftRepo.ListNumbers},
	}

	out := make(map[numbering.Prefix]int64, len(sources))
	for _, src := range sources {
		numbers, err := src.list(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("sequence.Align %s: %w", src.prefix, err)
		}
		if err := s.AdvanceTo(ctx, tenantID, src.prefix, numbering.MaxSequence(src.prefix, numbers)); err != nil {
			return nil, err
		}
		current, err := s.seqRepo.Current(ctx, tenantID, string(src.prefix))
		if err != nil {
			return nil, fmt.Errorf("sequence.Align %s: %w", src.prefix, err)
		}
		out[src.prefix] = current
		s.logger.Info("sequence aligned",
			zap.String("tenant_id", tenantID.String()),
			zap.String("prefix", string(src.prefix)),
			zap.Int64("value", current),
		)
	}
	return out, nil
}
