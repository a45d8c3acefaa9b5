package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema idempotently on startup.
const schema = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS incidents (
	id            UUID PRIMARY KEY,
	incident_type TEXT NOT NULL,
	geo_point     geometry(Point, 4326) NOT NULL,
	location_name TEXT NOT NULL DEFAULT '',
	date          TIMESTAMPTZ NOT NULL,
	description   TEXT NOT NULL,
	urgency       TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'pending',
	reporter      TEXT NOT NULL DEFAULT 'user',
	follow_up     BOOLEAN NOT NULL DEFAULT FALSE,
	files         TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS incidents_geo_point_idx ON incidents USING GIST (geo_point);
CREATE INDEX IF NOT EXISTS incidents_created_at_idx ON incidents (created_at DESC);

CREATE TABLE IF NOT EXISTS admins (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	department    TEXT NOT NULL DEFAULT '',
	approved      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS discussions (
	id           UUID PRIMARY KEY,
	title        TEXT NOT NULL,
	location     TEXT NOT NULL,
	category     TEXT NOT NULL,
	participants INT NOT NULL DEFAULT 1,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS discussion_messages (
	id            UUID PRIMARY KEY,
	discussion_id UUID NOT NULL REFERENCES discussions(id) ON DELETE CASCADE,
	text          TEXT NOT NULL,
	sender        TEXT NOT NULL,
	sent_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS discussion_messages_discussion_idx ON discussion_messages (discussion_id, sent_at);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
