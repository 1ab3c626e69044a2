package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrations are applied in order on startup. Statements are idempotent so a
// restart against an existing database is safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              BIGSERIAL PRIMARY KEY,
		username        TEXT NOT NULL UNIQUE,
		email           TEXT NOT NULL UNIQUE,
		password_hashed TEXT NOT NULL DEFAULT '',
		name            TEXT NOT NULL DEFAULT '',
		avatar_url      TEXT,
		location        TEXT,
		social_only     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id          BIGSERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		hashtags    TEXT[] NOT NULL DEFAULT '{}',
		file_url    TEXT NOT NULL,
		thumb_url   TEXT NOT NULL,
		owner_id    BIGINT NOT NULL REFERENCES users(id),
		views       INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         BIGSERIAL PRIMARY KEY,
		text       TEXT NOT NULL,
		owner_id   BIGINT NOT NULL REFERENCES users(id),
		video_id   BIGINT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_owner_id ON videos(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_created_at ON videos(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_video_id ON comments(video_id)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
