package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/BOBWANDATI/backend/internal/domain"
)

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

func (p *Postgres) Incidents() IncidentRepository     { return p.Incident }
func (p *Postgres) Admins() AdminRepository           { return p.Admin }
func (p *Postgres) Discussions() DiscussionRepository { return p.Discussion }
func (p *Postgres) Stats() StatsRepository            { return p.Stat }
