package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/gymtrack/internal/config"
	"github.com/meltforce/gymtrack/internal/export"
	"github.com/meltforce/gymtrack/internal/ingest"
	"github.com/meltforce/gymtrack/internal/ingest/alpha"
	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	format := flag.String("format", "alpha", "input format: alpha (Alpha Progression CSV) or backup (GymTrack JSON)")
	path := flag.String("path", "", "path to the file to import (required)")
	migrations := flag.String("migrations", "migrations", "migrations directory (postgres only)")
	warmups := flag.Bool("warmups", false, "import Alpha warm-up sets as working sets")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the store")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymtrack-import -path export.csv [-format alpha|backup] [-config config.yaml] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Error("cannot open input", "path", *path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: nothing will be written to the store")
	}

	switch *format {
	case "alpha":
		opts := alpha.Options{IncludeWarmups: *warmups || cfg.Import.IncludeWarmups}
		var target alpha.WorkoutImporter = countingImporter{}
		if !*dryRun {
			repo := openRepo(ctx, cfg, *migrations, log)
			defer repo.Close()
			target = repo
		}
		result, err := alpha.NewProvider(target, opts, log).Ingest(ctx, f)
		if err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
		printResult(log, result)
	case "backup":
		backup, err := export.ReadBackup(f)
		if err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
		if !*dryRun {
			repo := openRepo(ctx, cfg, *migrations, log)
			defer repo.Close()
			if err := repo.Restore(ctx, backup); err != nil {
				log.Error("restore failed", "error", err)
				os.Exit(1)
			}
		}
		log.Info("backup stats",
			"workouts", len(backup.Workouts),
			"routines", len(backup.Routines),
			"body_metrics", len(backup.BodyMetrics),
			"cardio_sessions", len(backup.CardioSessions),
			"custom_exercises", len(backup.CustomExercises),
		)
	default:
		log.Error("unknown format", "format", *format)
		os.Exit(1)
	}

	log.Info("import complete")
}

func openRepo(ctx context.Context, cfg *config.Config, migrations string, log *slog.Logger) *storage.Repository {
	repo, err := storage.Open(ctx, storage.OpenOptions{
		Driver:         cfg.Storage.Driver,
		SQLitePath:     cfg.Storage.SQLitePath,
		DSN:            cfg.Database.DSN(),
		MigrationsPath: migrations,
	}, log)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	return repo
}

// countingImporter reports every workout as inserted without storing it.
type countingImporter struct{}

func (countingImporter) ImportWorkouts(_ context.Context, workouts []models.Workout) (int, int, error) {
	return len(workouts), 0, nil
}

func printResult(log *slog.Logger, r *ingest.Result) {
	log.Info("import stats",
		"sessions_received", r.SessionsReceived,
		"workouts_inserted", r.WorkoutsInserted,
		"workouts_replaced", r.WorkoutsReplaced,
		"sets_imported", r.SetsImported,
		"warmups_skipped", r.WarmupsSkipped,
	)
	if r.Message != "" {
		log.Info(r.Message)
	}
}
