package upload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Format is the kind of file being uploaded.
type Format string

const (
	FormatAlpha  Format = "alpha"
	FormatBackup Format = "backup"
)

// Stats tracks upload progress.
type Stats struct {
	FilesSent        int
	FilesSkipped     int
	FilesErrored     int
	WorkoutsInserted int
	WorkoutsReplaced int
}

// Uploader sends export files to a GymTrack server, skipping files whose
// content was already accepted.
type Uploader struct {
	client *Client
	state  *StateDB
	format Format
	dryRun bool
	force  bool
	log    *slog.Logger
}

// New creates an Uploader. state may be nil to disable de-duplication.
func New(client *Client, state *StateDB, format Format, dryRun, force bool, log *slog.Logger) *Uploader {
	return &Uploader{client: client, state: state, format: format, dryRun: dryRun, force: force, log: log}
}

// Run uploads each path in order. A failing file is logged and counted;
// the remaining files are still sent.
func (u *Uploader) Run(ctx context.Context, paths []string) (*Stats, error) {
	if u.format != FormatAlpha && u.format != FormatBackup {
		return nil, fmt.Errorf("unknown format %q", u.format)
	}

	stats := &Stats{}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := u.uploadFile(ctx, p, stats); err != nil {
			stats.FilesErrored++
			u.log.Error("upload failed", "path", p, "error", err)
		}
	}

	u.log.Info("upload complete",
		"sent", stats.FilesSent,
		"skipped", stats.FilesSkipped,
		"errored", stats.FilesErrored,
		"inserted", stats.WorkoutsInserted,
		"replaced", stats.WorkoutsReplaced,
	)
	return stats, nil
}

func (u *Uploader) uploadFile(ctx context.Context, path string, stats *Stats) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	hash := hashBytes(data)

	if u.state != nil && !u.force {
		done, err := u.state.IsUploaded(u.client.serverURL, abs, hash)
		if err != nil {
			return fmt.Errorf("checking state: %w", err)
		}
		if done {
			stats.FilesSkipped++
			u.log.Debug("already uploaded", "path", path)
			return nil
		}
	}

	if u.dryRun {
		u.log.Info("dry run: would upload", "path", path, "format", u.format, "bytes", len(data))
		stats.FilesSent++
		return nil
	}

	switch u.format {
	case FormatAlpha:
		res, err := u.client.SendAlpha(ctx, data)
		if err != nil {
			return err
		}
		stats.WorkoutsInserted += res.WorkoutsInserted
		stats.WorkoutsReplaced += res.WorkoutsReplaced
		u.log.Info("alpha export uploaded", "path", path,
			"inserted", res.WorkoutsInserted, "replaced", res.WorkoutsReplaced)
	case FormatBackup:
		counts, err := u.client.SendBackup(ctx, data)
		if err != nil {
			return err
		}
		stats.WorkoutsInserted += counts["workouts"]
		u.log.Info("backup uploaded", "path", path, "workouts", counts["workouts"])
	}
	stats.FilesSent++

	if u.state != nil {
		if err := u.state.MarkUploaded(u.client.serverURL, abs, hash); err != nil {
			return fmt.Errorf("recording upload: %w", err)
		}
	}
	return nil
}
