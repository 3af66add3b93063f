package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the PostgreSQL dataset store. Each dataset is one row of the
// datasets table holding the JSON document.
type DB struct {
	Pool *pgxpool.Pool
}

// Compile-time check: *DB satisfies Store.
var _ Store = (*DB)(nil)

// New creates a new DB with a connection pool.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}

// Get returns the stored document for key, or ErrNotFound.
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT data FROM datasets WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", key, err)
	}
	return data, nil
}

// Put stores data under key, replacing any previous document.
func (db *DB) Put(ctx context.Context, key string, data []byte) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO datasets (key, data, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		key, data)
	if err != nil {
		return fmt.Errorf("writing dataset %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM datasets WHERE key = $1`, key); err != nil {
		return fmt.Errorf("deleting dataset %s: %w", key, err)
	}
	return nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
