package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/pkg/e"
)

type IncidentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewIncidentRepo(pool *pgxpool.Pool, logger *slog.Logger) *IncidentRepo {
	return &IncidentRepo{pool: pool, logger: logger}
}

// incidentColumns reads the stored (lng, lat) pair back out of the PostGIS
// point in the same order it went in.
const incidentColumns = `
		id,
		incident_type,
		ST_X(geo_point::geometry) AS lng,
		ST_Y(geo_point::geometry) AS lat,
		location_name,
		date,
		description,
		urgency,
		status,
		reporter,
		follow_up,
		files,
		created_at`

func (p *IncidentRepo) Create(ctx context.Context, incident *domain.Incident) error {
	const op = "postgres.Incident.Create"

	const query = `
		INSERT INTO incidents (id, incident_type, geo_point, location_name, date,
			description, urgency, status, reporter, follow_up, files, created_at)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now().UTC()
	}
	if incident.Date.IsZero() {
		incident.Date = incident.CreatedAt
	}
	if incident.Status == "" {
		incident.Status = domain.StatusPending
	}
	if incident.Files == nil {
		incident.Files = []string{}
	}

	_, err := p.pool.Exec(ctx, query,
		incident.ID,
		incident.IncidentType,
		incident.Location.Lng,
		incident.Location.Lat,
		incident.LocationName,
		incident.Date,
		incident.Description,
		incident.Urgency,
		incident.Status,
		incident.Reporter,
		incident.FollowUp,
		incident.Files,
		incident.CreatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *IncidentRepo) ListAll(ctx context.Context) ([]*domain.Incident, error) {
	const op = "postgres.Incident.ListAll"

	query := `SELECT` + incidentColumns + `
		FROM incidents
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var incidents []*domain.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return incidents, nil
}

func (p *IncidentRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Incident, error) {
	const op = "postgres.Incident.Get"

	query := `SELECT` + incidentColumns + `
		FROM incidents
		WHERE id = $1
	`

	row := p.pool.QueryRow(ctx, query, id)
	inc, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return inc, nil
}

func (p *IncidentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.IncidentStatus) error {
	const op = "postgres.Incident.UpdateStatus"

	const query = `
		UPDATE incidents
		SET status = $2
		WHERE id = $1
	`

	cmd, err := p.pool.Exec(ctx, query, id, status)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func (p *IncidentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Incident.Delete"

	const query = `
		DELETE FROM incidents
		WHERE id = $1
	`

	cmd, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var inc domain.Incident
	err := row.Scan(
		&inc.ID,
		&inc.IncidentType,
		&inc.Location.Lng,
		&inc.Location.Lat,
		&inc.LocationName,
		&inc.Date,
		&inc.Description,
		&inc.Urgency,
		&inc.Status,
		&inc.Reporter,
		&inc.FollowUp,
		&inc.Files,
		&inc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inc, nil
}
