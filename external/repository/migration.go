package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		source_language TEXT NOT NULL,
		content_type TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ NOT NULL,
		sent_bytes BIGINT NOT NULL DEFAULT 0,
		reconnect_attempts INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS session_lines (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		session_id TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
		language TEXT NOT NULL,
		kind TEXT NOT NULL,
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		UNIQUE(session_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS line_segments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		line_id UUID NOT NULL REFERENCES session_lines(id) ON DELETE CASCADE,
		segment_index INTEGER NOT NULL,
		text TEXT NOT NULL,
		start_time DOUBLE PRECISION NOT NULL,
		end_time DOUBLE PRECISION NOT NULL,
		UNIQUE(line_id, segment_index)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_lines_session ON session_lines (session_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_line_segments_line ON line_segments (line_id, segment_index)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
