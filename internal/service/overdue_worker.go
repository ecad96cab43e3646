package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

// OverdueConfig holds settings for the overdue worker.
type OverdueConfig struct {
	PollInterval      time.Duration
	Threshold         time.Duration
	BatchSize         int
	EscalationAddress string
}

// OverdueWorker polls for stages pending longer than the threshold, mails a
// digest and broadcasts a stage_overdue event for each newly overdue stage.
// A stage is escalated once per planned timestamp; the claim is stored by the
// repository so restarts and replicas do not repeat it.
type OverdueWorker struct {
	overdueRepo port.OverdueRepository
	email       port.EmailSender
	events      port.EventPublisher
	cfg         OverdueConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewOverdueWorker creates a new OverdueWorker.
func NewOverdueWorker(
	overdueRepo port.OverdueRepository,
	email port.EmailSender,
	events port.EventPublisher,
	cfg OverdueConfig,
	logger *zap.Logger,
) *OverdueWorker {
	return &OverdueWorker{
		overdueRepo: overdueRepo,
		email:       email,
		events:      events,
		cfg:         cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the polling loop until ctx is canceled.
func (w *OverdueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.logger.Info("overdue worker started",
		zap.Duration("poll", w.cfg.PollInterval),
		zap.Duration("threshold", w.cfg.Threshold),
		zap.Int("batch", w.cfg.BatchSize),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("overdue worker stopped")
			return
		case <-ticker.C:
			if _, err := w.RunOnce(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("overdue poll failed", zap.Error(err))
			}
		}
	}
}

// RunOnce escalates every stage that is overdue and not yet claimed. It reads
// the overdue set in batches until a short batch is returned, and returns the
// items it escalated.
func (w *OverdueWorker) RunOnce(ctx context.Context) ([]domain.OverdueItem, error) {
	cutoff := w.now().Add(-w.cfg.Threshold)
	var fresh []domain.OverdueItem
	for {
		items, err := w.overdueRepo.ListOverdue(ctx, cutoff, w.cfg.BatchSize)
		if err != nil {
			return fresh, err
		}
		if len(items) == 0 {
			break
		}
		claimed, err := w.overdueRepo.ClaimEscalations(ctx, items)
		if err != nil {
			return fresh, err
		}
		fresh = append(fresh, claimed...)
		if w.cfg.BatchSize <= 0 || len(items) < w.cfg.BatchSize {
			break
		}
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	if w.cfg.EscalationAddress != "" {
		if err := w.email.SendOverdueDigest(ctx, w.cfg.EscalationAddress, fresh); err != nil {
			w.logger.Warn("overdue digest not sent", zap.Int("items", len(fresh)), zap.Error(err))
		}
	}
	if w.events != nil {
		for _, item := range fresh {
			w.events.Publish(item.TenantID, domain.Event{
				Type:     item.EntityType,
				ID:       item.EntityID,
				Number:   item.Number,
				Action:   domain.EventStageOverdue,
				FirmName: item.FirmName,
				Stage:    item.Stage,
			})
		}
	}
	w.logger.Info("overdue stages escalated", zap.Int("items", len(fresh)))
	return fresh, nil
}
