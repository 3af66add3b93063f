// Package export writes workout history and body metrics as CSV and reads
// and writes full JSON backups.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/meltforce/gymtrack/internal/analytics"
	"github.com/meltforce/gymtrack/internal/models"
)

// WorkoutColumns is the header of the workouts CSV. One row per set.
var WorkoutColumns = []string{
	"workout_id", "workout_date", "workout_name", "exercise_name",
	"set_id", "weight", "reps", "rir", "rpe", "notes",
}

// WriteWorkoutsCSV flattens workouts into one row per set, in storage order.
// It returns the number of data rows written.
func WriteWorkoutsCSV(w io.Writer, workouts []models.Workout) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(WorkoutColumns); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}
	rows := 0
	for _, wk := range workouts {
		for _, ex := range wk.Exercises {
			for _, s := range ex.Sets {
				rec := []string{
					wk.ID, wk.Date, wk.Name, ex.Name,
					s.ID, analytics.FormatWeight(s.Weight), strconv.Itoa(s.Reps),
					optFloat(s.RIR), optFloat(s.RPE), ex.Notes,
				}
				if err := cw.Write(rec); err != nil {
					return rows, fmt.Errorf("writing row: %w", err)
				}
				rows++
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("flushing csv: %w", err)
	}
	return rows, nil
}

// WriteMetricsCSV writes one row per body-metric entry. Measurement columns
// are the sorted union of measurement names across all entries.
func WriteMetricsCSV(w io.Writer, metrics []models.BodyMetric) (int, error) {
	seen := map[string]bool{}
	var extra []string
	for _, m := range metrics {
		for k := range m.Measurements {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)

	cw := csv.NewWriter(w)
	header := append([]string{"date", "weight", "body_fat_percent"}, extra...)
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}
	for i, m := range metrics {
		rec := []string{m.Date, analytics.FormatWeight(m.Weight), optFloat(m.BodyFat)}
		for _, k := range extra {
			if v, ok := m.Measurements[k]; ok {
				rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return i, fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(metrics), fmt.Errorf("flushing csv: %w", err)
	}
	return len(metrics), nil
}

// WriteBackup writes b as indented JSON.
func WriteBackup(w io.Writer, b *models.Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return nil
}

// ReadBackup decodes a backup document. Datasets absent from the document
// stay nil so a restore leaves them untouched.
func ReadBackup(r io.Reader) (*models.Backup, error) {
	var b models.Backup
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}
	if b.Workouts == nil && b.Routines == nil && b.BodyMetrics == nil &&
		b.CardioSessions == nil && b.CustomExercises == nil {
		return nil, fmt.Errorf("backup contains no known datasets")
	}
	return &b, nil
}

// BackupFilename names a backup taken at now.
func BackupFilename(now time.Time) string {
	return "gymtrack_backup_" + now.Format("2006-01-02") + ".json"
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
