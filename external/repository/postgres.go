package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foxseedlab/honyakun/internal/repository"
)

type PostgresArchiver struct {
	pool *pgxpool.Pool
}

func NewPostgresArchiver(pool *pgxpool.Pool) repository.Archiver {
	return &PostgresArchiver{pool: pool}
}

func (r *PostgresArchiver) SaveResult(ctx context.Context, input repository.SaveResultInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin archive transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO sessions (session_id, source_language, content_type, started_at, ended_at, sent_bytes, reconnect_attempts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		input.SessionID, input.SourceLanguage, input.ContentType,
		input.StartedAt, input.EndedAt, input.SentBytes, input.ReconnectAttempts)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, line := range input.Lines {
		var lineID string
		row := tx.QueryRow(ctx,
			`INSERT INTO session_lines (session_id, language, kind, position, text)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			input.SessionID, line.Language, string(line.Kind), line.Position, line.Text)
		if err := row.Scan(&lineID); err != nil {
			return fmt.Errorf("insert line %s: %w", line.Language, err)
		}
		for _, seg := range line.Segments {
			_, err := tx.Exec(ctx,
				`INSERT INTO line_segments (line_id, segment_index, text, start_time, end_time)
				 VALUES ($1, $2, $3, $4, $5)`,
				lineID, seg.SegmentIndex, seg.Text, seg.StartTime, seg.EndTime)
			if err != nil {
				return fmt.Errorf("insert segment %d of line %s: %w", seg.SegmentIndex, line.Language, err)
			}
		}
	}

	return tx.Commit(ctx)
}
