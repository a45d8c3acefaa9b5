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

type DiscussionRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDiscussionRepo(pool *pgxpool.Pool, logger *slog.Logger) *DiscussionRepo {
	return &DiscussionRepo{pool: pool, logger: logger}
}

func (p *DiscussionRepo) Create(ctx context.Context, d *domain.Discussion) error {
	const op = "postgres.Discussion.Create"

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	if d.Participants == 0 {
		d.Participants = 1
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		p.logger.Error("tx begin failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	defer tx.Rollback(ctx)

	const insertDiscussion = `
		INSERT INTO discussions (id, title, location, category, participants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, insertDiscussion,
		d.ID, d.Title, d.Location, d.Category, d.Participants, d.CreatedAt,
	); err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	const insertMessage = `
		INSERT INTO discussion_messages (id, discussion_id, text, sender, sent_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i := range d.Messages {
		msg := &d.Messages[i]
		if msg.ID == uuid.Nil {
			msg.ID = uuid.New()
		}
		if msg.SentAt.IsZero() {
			msg.SentAt = time.Now().UTC()
		}
		if _, err := tx.Exec(ctx, insertMessage,
			msg.ID, d.ID, msg.Text, msg.Sender, msg.SentAt,
		); err != nil {
			p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
			return e.WrapError(ctx, op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		p.logger.Error("tx commit failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

// AddMessage appends a message and bumps the participant counter in one
// transaction, returning the new counter value.
func (p *DiscussionRepo) AddMessage(ctx context.Context, discussionID uuid.UUID, msg *domain.Message) (int, error) {
	const op = "postgres.Discussion.AddMessage"

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		p.logger.Error("tx begin failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}
	defer tx.Rollback(ctx)

	const bump = `
		UPDATE discussions
		SET participants = participants + 1
		WHERE id = $1
		RETURNING participants
	`
	var participants int
	if err := tx.QueryRow(ctx, bump, discussionID).Scan(&participants); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	const insert = `
		INSERT INTO discussion_messages (id, discussion_id, text, sender, sent_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, insert, msg.ID, discussionID, msg.Text, msg.Sender, msg.SentAt); err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		p.logger.Error("tx commit failed", slog.String("op", op), slog.Any("error", err))
		return 0, e.WrapError(ctx, op, err)
	}

	return participants, nil
}

func (p *DiscussionRepo) List(ctx context.Context) ([]*domain.Discussion, error) {
	const op = "postgres.Discussion.List"

	const query = `
		SELECT id, title, location, category, participants, created_at
		FROM discussions
		ORDER BY created_at DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var discussions []*domain.Discussion
	for rows.Next() {
		var d domain.Discussion
		if err := rows.Scan(&d.ID, &d.Title, &d.Location, &d.Category, &d.Participants, &d.CreatedAt); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		discussions = append(discussions, &d)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return discussions, nil
}

func (p *DiscussionRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Discussion, error) {
	const op = "postgres.Discussion.Get"

	const query = `
		SELECT id, title, location, category, participants, created_at
		FROM discussions
		WHERE id = $1
	`

	var d domain.Discussion
	err := p.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Title, &d.Location, &d.Category, &d.Participants, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
		}
		p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return nil, e.WrapError(ctx, op, err)
	}

	const messagesQuery = `
		SELECT id, text, sender, sent_at
		FROM discussion_messages
		WHERE discussion_id = $1
		ORDER BY sent_at ASC
	`

	rows, err := p.pool.Query(ctx, messagesQuery, id)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.Text, &msg.Sender, &msg.SentAt); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		d.Messages = append(d.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return &d, nil
}

func (p *DiscussionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Discussion.Delete"

	// Messages go with it via ON DELETE CASCADE.
	const query = `DELETE FROM discussions WHERE id = $1`

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
