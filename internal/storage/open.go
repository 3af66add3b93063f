package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// OpenOptions selects and locates the backing store.
type OpenOptions struct {
	Driver         string // "sqlite" or "postgres"
	SQLitePath     string
	DSN            string
	MigrationsPath string
}

// Open connects the configured store and wraps it in a Repository.
// PostgreSQL migrations are applied before connecting.
func Open(ctx context.Context, opts OpenOptions, log *slog.Logger) (*Repository, error) {
	var store Store
	switch opts.Driver {
	case "sqlite":
		s, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("sqlite store opened", "path", opts.SQLitePath)
		store = s
	case "postgres":
		if err := RunMigrations(opts.DSN, opts.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrating: %w", err)
		}
		log.Info("migrations applied")
		db, err := New(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		log.Info("database connected")
		store = db
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
	return NewRepository(store, log), nil
}
