package service

import (
	"context"

	"indentflow/internal/domain"
	"indentflow/internal/port"
)

// StatsService provides the dashboard aggregates.
type StatsService interface {
	GetDashboard(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error)
}

type statsService struct {
	statsRepo port.StatsRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

// GetDashboard counts pending work inside the caller's firm scope.
func (s *statsService) GetDashboard(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error) {
	stats, err := s.statsRepo.GetDashboard(ctx, actor.TenantID, actor.Scope)
	if err != nil {
		return nil, err
	}
	stats.Indents = fillStages(stats.Indents, domain.IndentStages)
	stats.Lifts = fillStages(stats.Lifts, domain.LiftStages)
	return stats, nil
}

// fillStages returns one counter per stage in workflow order, zero filled.
func fillStages(counts []domain.StageCount, stages []domain.Stage) []domain.StageCount {
	byStage := make(map[domain.Stage]int, len(counts))
	for _, c := range counts {
		byStage[c.Stage] = c.Pending
	}
	out := make([]domain.StageCount, 0, len(stages))
	for _, st := range stages {
		out = append(out, domain.StageCount{Stage: st, Pending: byStage[st]})
	}
	return out
}
