package service

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/pkg/e"
	"github.com/BOBWANDATI/backend/pkg/geo"
	"github.com/BOBWANDATI/backend/pkg/validator"
)

type reportService struct {
	repo   IncidentRepository
	pub    Publisher
	logger *slog.Logger
}

func NewReportService(repo IncidentRepository, pub Publisher, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		pub:    pub,
		logger: logger,
	}
}

func (s *reportService) Submit(ctx context.Context, req domain.SubmitReportRequest) (*domain.Incident, error) {
	if err := validator.ValidateStruct(req); err != nil {
		s.logger.Warn("submit rejected", slog.Any("error", err))
		return nil, fmt.Errorf("submit report: %w", e.ErrInvalidInput)
	}

	point, err := geo.ParsePoint(req.Location)
	if err != nil {
		s.logger.Warn("submit rejected, bad coordinates",
			slog.String("location", req.Location),
			slog.Any("error", err),
		)
		return nil, err
	}

	reporter := domain.ReporterUser
	if req.Anonymous {
		reporter = domain.ReporterAnonymous
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	inc := &domain.Incident{
		ID:           uuid.New(),
		IncidentType: req.IncidentType,
		Location:     point,
		LocationName: req.LocationName,
		Date:         date,
		Description:  req.Description,
		Urgency:      req.Urgency,
		Status:       domain.StatusPending,
		Reporter:     reporter,
		FollowUp:     req.FollowUp,
		Files:        req.Files,
	}

	// Commit first; nothing is published on a persistence failure.
	if err := s.repo.Create(ctx, inc); err != nil {
		return nil, err
	}

	s.logger.Info("incident reported",
		slog.String("id", inc.ID.String()),
		slog.String("type", inc.IncidentType),
		slog.String("urgency", inc.Urgency),
	)

	s.pub.Publish(domain.EventNewIncident, inc.Summary())
	s.publishFullList(ctx)

	return inc, nil
}

func (s *reportService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IncidentStatus) (*domain.Incident, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("update status %q: %w", status, e.ErrInvalidInput)
	}

	inc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Any status is reachable from any other; a no-op transition still
	// persists and publishes.
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	inc.Status = status

	s.logger.Info("incident status updated",
		slog.String("id", id.String()),
		slog.String("status", string(status)),
	)

	s.pub.Publish(domain.EventIncidentStatusUpdated, inc.ListItem())
	s.publishFullList(ctx)

	return inc, nil
}

func (s *reportService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("incident deleted", slog.String("id", id.String()))

	s.pub.Publish(domain.EventIncidentDeleted, domain.DeletedEvent{ID: id.String()})
	s.publishFullList(ctx)

	return nil
}

func (s *reportService) ListAll(ctx context.Context) ([]domain.IncidentListItem, error) {
	incidents, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ToListItems(incidents), nil
}

func (s *reportService) MapView(ctx context.Context) ([]domain.MapPoint, domain.MapStats, error) {
	incidents, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, domain.MapStats{}, err
	}

	points := make([]domain.MapPoint, 0, len(incidents))
	var stats domain.MapStats
	for _, inc := range incidents {
		points = append(points, inc.MapPoint())
		stats.Total++
		switch inc.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusInvestigating:
			stats.Investigating++
		case domain.StatusResolved:
			stats.Resolved++
		case domain.StatusEscalated:
			stats.Escalated++
		}
	}

	return points, stats, nil
}

// publishFullList pushes the refreshed newest-first listing for dashboards
// that render a table rather than an incremental feed. Best-effort: a read
// failure here is logged, not surfaced, because the write already committed.
func (s *reportService) publishFullList(ctx context.Context) {
	incidents, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("full list refresh failed, all_incidents_update skipped", slog.Any("error", err))
		return
	}
	s.pub.Publish(domain.EventAllIncidentsUpdate, domain.ToListItems(incidents))
}
