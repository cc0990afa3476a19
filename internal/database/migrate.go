package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Direction selects which way Migrate moves the schema.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

// newProvider builds a goose provider over the embedded migrations.
func newProvider(pool *pgxpool.Pool) (*goose.Provider, func() error, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys,
		goose.WithVerbose(false),
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return provider, db.Close, nil
}

// Migrate applies, rolls back or reports the offer store schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, direction Direction, logger zerolog.Logger) error {
	logger = logger.With().Str("component", "migrations").Logger()

	provider, closeDB, err := newProvider(pool)
	if err != nil {
		return err
	}
	defer closeDB()

	switch direction {
	case Up:
		results, err := provider.Up(ctx)
		for _, r := range results {
			logger.Info().
				Int64("version", r.Source.Version).
				Str("file", r.Source.Path).
				Dur("duration", r.Duration).
				Msg("migration applied")
		}
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		if len(results) == 0 {
			logger.Info().Msg("schema is up to date")
		}

	case Down:
		result, err := provider.Down(ctx)
		if errors.Is(err, goose.ErrNoNextVersion) {
			logger.Info().Msg("no migration to roll back")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		if result != nil {
			logger.Info().
				Int64("version", result.Source.Version).
				Str("file", result.Source.Path).
				Msg("migration rolled back")
		}

	case Status:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		for _, s := range statuses {
			logger.Info().
				Int64("version", s.Source.Version).
				Str("file", s.Source.Path).
				Str("state", string(s.State)).
				Time("applied_at", s.AppliedAt).
				Msg("migration status")
		}

	default:
		return fmt.Errorf("unknown migration direction: %q", direction)
	}

	return nil
}
