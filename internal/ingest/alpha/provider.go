package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/meltforce/gymtrack/internal/ingest"
	"github.com/meltforce/gymtrack/internal/models"
)

// WorkoutImporter stores imported workouts. *storage.Repository satisfies it.
type WorkoutImporter interface {
	ImportWorkouts(ctx context.Context, workouts []models.Workout) (inserted, replaced int, err error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	repo WorkoutImporter
	opts Options
	log  *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(repo WorkoutImporter, opts Options, log *slog.Logger) *Provider {
	return &Provider{repo: repo, opts: opts, log: log}
}

// Ingest parses a CSV export and merges its sessions into workout history.
// Re-importing the same export replaces the workouts created the first time.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		for _, ex := range s.Exercises {
			for _, set := range ex.Sets {
				if set.IsWarmup && !p.opts.IncludeWarmups {
					result.WarmupsSkipped++
				}
			}
		}
	}

	workouts := Convert(sessions, p.opts)
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			result.SetsImported += len(ex.Sets)
		}
	}
	if len(workouts) == 0 {
		result.Message = "no sessions found"
		return result, nil
	}

	inserted, replaced, err := p.repo.ImportWorkouts(ctx, workouts)
	if err != nil {
		return nil, fmt.Errorf("storing workouts: %w", err)
	}
	result.WorkoutsInserted = inserted
	result.WorkoutsReplaced = replaced
	p.log.Info("alpha import complete",
		"sessions", result.SessionsReceived,
		"inserted", inserted,
		"replaced", replaced,
		"sets", result.SetsImported,
	)
	return result, nil
}
