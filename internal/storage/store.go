package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a dataset or a record inside it does not exist.
var ErrNotFound = errors.New("not found")

// ErrExists is returned when creating a record whose id is already taken.
var ErrExists = errors.New("already exists")

// Store is a key-value store of JSON documents keyed by dataset name.
// Both *DB (PostgreSQL) and *SQLiteStore satisfy it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Dataset keys.
const (
	KeyWorkouts        = "gymtrack_workouts"
	KeyRoutines        = "gymtrack_routines"
	KeyBodyMetrics     = "gymtrack_metrics"
	KeyCardio          = "gymtrack_cardio"
	KeyCustomExercises = "gymtrack_custom_exercises"
	KeyActiveDraft     = "gymtrack_active_draft"
)
