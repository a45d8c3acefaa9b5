package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/BOBWANDATI/backend/internal/domain"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type IncidentRepository interface {
	Create(ctx context.Context, incident *domain.Incident) error
	ListAll(ctx context.Context) ([]*domain.Incident, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IncidentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
	GetByUsernameAndRole(ctx context.Context, username string, role domain.AdminRole) (*domain.Admin, error)
	CountByRole(ctx context.Context, role domain.AdminRole) (int64, error)
	ListApprovedSupers(ctx context.Context) ([]*domain.Admin, error)
	SetApproved(ctx context.Context, id uuid.UUID) error
}

type DiscussionRepository interface {
	Create(ctx context.Context, d *domain.Discussion) error
	AddMessage(ctx context.Context, discussionID uuid.UUID, msg *domain.Message) (int, error)
	List(ctx context.Context) ([]*domain.Discussion, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Discussion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type StatsRepository interface {
	CountsByStatus(ctx context.Context) ([]domain.StatusCount, error)
	DailyCounts(ctx context.Context) ([]domain.DailyCount, error)
	TopLocations(ctx context.Context, limit int) ([]domain.LocationCount, error)
}

// Publisher fans an event out to every connected dashboard. Implementations
// must never block the caller; delivery is fire-and-forget.
type Publisher interface {
	Publish(event string, payload any)
}

type MailQueue interface {
	Enqueue(ctx context.Context, msg domain.MailMessage) error
}

type TokenManager interface {
	MintApprovalToken(adminID uuid.UUID) (string, error)
	MintSessionToken(adminID uuid.UUID) (string, error)
	VerifyApprovalToken(token string) (uuid.UUID, error)
}

// Report use-cases
type ReportService interface {
	Submit(ctx context.Context, req domain.SubmitReportRequest) (*domain.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IncidentStatus) (*domain.Incident, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]domain.IncidentListItem, error)
	MapView(ctx context.Context) ([]domain.MapPoint, domain.MapStats, error)
}

// Admin registration, approval and login
type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
	ApproveViaToken(ctx context.Context, token string) (domain.AdminProfile, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
}

type DiscussionService interface {
	Create(ctx context.Context, req domain.CreateDiscussionRequest) (*domain.Discussion, error)
	AddMessage(ctx context.Context, id uuid.UUID, req domain.AddMessageRequest) (*domain.Discussion, error)
	List(ctx context.Context) ([]domain.DiscussionSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Discussion, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Dashboard aggregations
type StatsService interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}

type Service struct {
	Reports     ReportService
	Auth        AuthService
	Discussions DiscussionService
	Stats       StatsService
}

func NewService(
	reports ReportService,
	auth AuthService,
	discussions DiscussionService,
	stats StatsService,
) *Service {
	return &Service{
		Reports:     reports,
		Auth:        auth,
		Discussions: discussions,
		Stats:       stats,
	}
}
