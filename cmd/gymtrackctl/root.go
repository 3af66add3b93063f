package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/meltforce/gymtrack/internal/config"
	gymmcp "github.com/meltforce/gymtrack/internal/mcp"
	"github.com/meltforce/gymtrack/internal/storage"
	"github.com/spf13/cobra"
)

// app carries the global flags and the resources they select.
type app struct {
	configPath string
	serverURL  string
	sqlitePath string
	migrations string
	jsonOut    bool

	out io.Writer
	log *slog.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{
		out: out,
		// stdout may carry the MCP stdio protocol, so logs go to stderr.
		log: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	root := &cobra.Command{
		Use:           "gymtrackctl",
		Short:         "Query and manage a GymTrack training log",
		Long:          "gymtrackctl reads the GymTrack store directly, or a remote server with --server, and reports records, progress and calendar data.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to config file")
	pf.StringVar(&a.serverURL, "server", "", "read from a GymTrack server instead of the local store (e.g. http://gymtrack.tail1234.ts.net)")
	pf.StringVar(&a.sqlitePath, "sqlite", "", "override the sqlite database path")
	pf.StringVar(&a.migrations, "migrations", "migrations", "migrations directory (postgres only)")
	pf.BoolVar(&a.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		newPRsCmd(a),
		newBestCmd(a),
		newProgressCmd(a),
		newCalendarCmd(a),
		newDayCmd(a),
		newExportCmd(a),
		newUploadCmd(a),
		newMCPCmd(a),
	)
	return root
}

// openRepo opens the local store described by the config.
func (a *app) openRepo(ctx context.Context) (*storage.Repository, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	opts := storage.OpenOptions{
		Driver:         cfg.Storage.Driver,
		SQLitePath:     cfg.Storage.SQLitePath,
		DSN:            cfg.Database.DSN(),
		MigrationsPath: a.migrations,
	}
	if a.sqlitePath != "" {
		opts.Driver = config.DriverSQLite
		opts.SQLitePath = a.sqlitePath
	}
	return storage.Open(ctx, opts, a.log)
}

// source returns the read side used by the query commands: the remote API
// when --server is set, otherwise the local store. The returned func
// releases it.
func (a *app) source(ctx context.Context) (gymmcp.DataSource, func(), error) {
	if a.serverURL != "" {
		return gymmcp.NewHTTPClient(a.serverURL), func() {}, nil
	}
	repo, err := a.openRepo(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return repo, func() { repo.Close() }, nil
}
