package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"

	"github.com/foxseedlab/honyakun/internal/config"
	"github.com/foxseedlab/honyakun/internal/repository"
)

const databaseInitTimeout = 15 * time.Second

// RegisterDI wires the archiver. Without DATABASE_URL it resolves to nil and
// results are simply not persisted.
func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.Archiver, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.DatabaseURL == "" {
			return nil, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()

		p, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect database: %w", err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		if err := RunMigration(ctx, p); err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to run migration: %w", err)
		}
		return NewPostgresArchiver(p), nil
	})
}
