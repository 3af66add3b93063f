package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meltforce/gymtrack/internal/export"
	"github.com/meltforce/gymtrack/internal/upload"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "export <workouts|metrics|backup>",
		Short:     "Export the local store as CSV or a JSON backup",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"workouts", "metrics", "backup"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, err := a.openRepo(ctx)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer repo.Close()

			// A directory output gets a timestamped backup file name.
			if args[0] == "backup" && output != "" {
				if info, err := os.Stat(output); err == nil && info.IsDir() {
					output = filepath.Join(output, export.BackupFilename(time.Now()))
				}
			}

			w := a.out
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch args[0] {
			case "workouts":
				workouts, err := repo.Workouts(ctx)
				if err != nil {
					return err
				}
				n, err := export.WriteWorkoutsCSV(w, workouts)
				if err != nil {
					return err
				}
				return a.reportRows(output, n)
			case "metrics":
				metrics, err := repo.BodyMetrics(ctx)
				if err != nil {
					return err
				}
				n, err := export.WriteMetricsCSV(w, metrics)
				if err != nil {
					return err
				}
				return a.reportRows(output, n)
			case "backup":
				backup, err := repo.Backup(ctx)
				if err != nil {
					return err
				}
				if err := export.WriteBackup(w, backup); err != nil {
					return err
				}
				if output != "" {
					fmt.Fprintf(os.Stderr, "backup written to %s\n", output)
				}
				return nil
			}
			return fmt.Errorf("unknown export %q (want workouts, metrics or backup)", args[0])
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file (or, for backup, a directory) instead of stdout")
	return cmd
}

// reportRows notes the row count on stderr when writing to a file.
func (a *app) reportRows(output string, n int) error {
	if output != "" {
		fmt.Fprintf(os.Stderr, "wrote %d rows to %s\n", n, output)
	}
	return nil
}

func newUploadCmd(a *app) *cobra.Command {
	var (
		apiKey   string
		format   string
		stateDir string
		dryRun   bool
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Send Alpha Progression CSVs or backups to a GymTrack server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.serverURL == "" && !dryRun {
				return fmt.Errorf("--server is required (or use --dry-run)")
			}
			if apiKey == "" {
				apiKey = os.Getenv("GYMTRACK_AUTH_API_KEY")
			}

			var state *upload.StateDB
			if stateDir != "" {
				s, err := upload.OpenStateDB(stateDir)
				if err != nil {
					return err
				}
				defer s.Close()
				state = s
			}

			u := upload.New(upload.NewClient(a.serverURL, apiKey), state, upload.Format(format), dryRun, force, a.log)
			stats, err := u.Run(cmd.Context(), args)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "sent %d, skipped %d, failed %d (workouts inserted %d, replaced %d)\n",
				stats.FilesSent, stats.FilesSkipped, stats.FilesErrored, stats.WorkoutsInserted, stats.WorkoutsReplaced)
			if stats.FilesErrored > 0 {
				return fmt.Errorf("%d file(s) failed", stats.FilesErrored)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&apiKey, "api-key", "", "server API key (default $GYMTRACK_AUTH_API_KEY)")
	f.StringVar(&format, "format", string(upload.FormatAlpha), "file format: alpha or backup")
	f.StringVar(&stateDir, "state-dir", defaultStateDir(), "directory of the upload state database; empty disables de-duplication")
	f.BoolVar(&dryRun, "dry-run", false, "report what would be sent")
	f.BoolVar(&force, "force", false, "send files even if already uploaded")
	return cmd
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gymtrack")
}
