package service

import (
	"context"

	"github.com/BOBWANDATI/backend/internal/domain"
)

const topLocationsLimit = 10

type statsService struct {
	repo StatsRepository
}

func NewStatsService(repo StatsRepository) StatsService {
	return &statsService{repo: repo}
}

// Dashboard recomputes every aggregate on each call; staleness tolerance is
// the caller's polling interval.
func (s *statsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	byStatus, err := s.repo.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	daily, err := s.repo.DailyCounts(ctx)
	if err != nil {
		return nil, err
	}

	topLocations, err := s.repo.TopLocations(ctx, topLocationsLimit)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range byStatus {
		total += c.Count
	}

	return &domain.DashboardStats{
		Total:        total,
		ByStatus:     byStatus,
		Daily:        daily,
		TopLocations: topLocations,
	}, nil
}
