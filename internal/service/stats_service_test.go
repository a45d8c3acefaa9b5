package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/internal/service"
	mock_service "github.com/BOBWANDATI/backend/internal/service/mocks"
)

func TestStatsService_Dashboard_TotalsAcrossStatuses(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)

	repo.EXPECT().
		CountsByStatus(gomock.Any()).
		Return([]domain.StatusCount{
			{Status: domain.StatusPending, Count: 4},
			{Status: domain.StatusResolved, Count: 6},
		}, nil).
		Times(1)
	repo.EXPECT().
		DailyCounts(gomock.Any()).
		Return([]domain.DailyCount{
			{Day: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Count: 10},
		}, nil).
		Times(1)
	repo.EXPECT().
		TopLocations(gomock.Any(), 10).
		Return([]domain.LocationCount{{Location: "Nairobi CBD", Count: 7}}, nil).
		Times(1)

	svc := service.NewStatsService(repo)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if stats.Total != 10 {
		t.Fatalf("expected total 10, got %d", stats.Total)
	}
	if len(stats.ByStatus) != 2 || len(stats.Daily) != 1 || len(stats.TopLocations) != 1 {
		t.Fatalf("aggregate shape mismatch: %+v", stats)
	}
}

func TestStatsService_Dashboard_RepoError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock_service.NewMockStatsRepository(ctrl)
	repo.EXPECT().CountsByStatus(gomock.Any()).Return(nil, errors.New("query failed")).Times(1)

	svc := service.NewStatsService(repo)

	if _, err := svc.Dashboard(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
