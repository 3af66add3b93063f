package mcp

import (
	"context"

	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.Repository
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Workouts(ctx context.Context) ([]models.Workout, error)
	Routines(ctx context.Context) ([]models.Routine, error)
}

// Compile-time check: *storage.Repository satisfies DataSource.
var _ DataSource = (*storage.Repository)(nil)
