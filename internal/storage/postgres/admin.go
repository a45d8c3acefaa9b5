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

type AdminRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAdminRepo(pool *pgxpool.Pool, logger *slog.Logger) *AdminRepo {
	return &AdminRepo{pool: pool, logger: logger}
}

const adminColumns = `
		id,
		username,
		email,
		password_hash,
		role,
		department,
		approved,
		created_at`

func (p *AdminRepo) Create(ctx context.Context, admin *domain.Admin) error {
	const op = "postgres.Admin.Create"

	const query = `
		INSERT INTO admins (id, username, email, password_hash, role, department, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}

	_, err := p.pool.Exec(ctx, query,
		admin.ID,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.Department,
		admin.Approved,
		admin.CreatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("username", admin.Username),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *AdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	const op = "postgres.Admin.GetByID"

	query := `SELECT` + adminColumns + ` FROM admins WHERE id = $1`

	admin, err := scanAdmin(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	return admin, nil
}

func (p *AdminRepo) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	const op = "postgres.Admin.GetByUsername"

	query := `SELECT` + adminColumns + ` FROM admins WHERE username = $1`

	admin, err := scanAdmin(p.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return admin, nil
}

func (p *AdminRepo) GetByUsernameAndRole(ctx context.Context, username string, role domain.AdminRole) (*domain.Admin, error) {
	const op = "postgres.Admin.GetByUsernameAndRole"

	query := `SELECT` + adminColumns + ` FROM admins WHERE username = $1 AND role = $2`

	admin, err := scanAdmin(p.pool.QueryRow(ctx, query, username, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return admin, nil
}

func (p *AdminRepo) CountByRole(ctx context.Context, role domain.AdminRole) (int64, error) {
	const op = "postgres.Admin.CountByRole"

	const query = `SELECT COUNT(*) FROM admins WHERE role = $1`

	var cnt int64
	if err := p.pool.QueryRow(ctx, query, role).Scan(&cnt); err != nil {
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	return cnt, nil
}

func (p *AdminRepo) ListApprovedSupers(ctx context.Context) ([]*domain.Admin, error) {
	const op = "postgres.Admin.ListApprovedSupers"

	query := `SELECT` + adminColumns + ` FROM admins WHERE role = 'super' AND approved = TRUE`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var admins []*domain.Admin
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		admins = append(admins, admin)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return admins, nil
}

// SetApproved flips the approval flag. The flag only moves false -> true; the
// WHERE clause makes a repeat call a not-found rather than a rewrite.
func (p *AdminRepo) SetApproved(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Admin.SetApproved"

	const query = `
		UPDATE admins
		SET approved = TRUE
		WHERE id = $1 AND approved = FALSE
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

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var admin domain.Admin
	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.Department,
		&admin.Approved,
		&admin.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
