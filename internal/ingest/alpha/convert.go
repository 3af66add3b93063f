package alpha

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/gymtrack/internal/models"
)

// namespace seeds deterministic ids so re-importing an export replaces the
// workouts it created before instead of duplicating them.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://alphaprogression.com/export"))

// Options controls the conversion.
type Options struct {
	// IncludeWarmups keeps warmup sets. They are dropped by default so they
	// do not count towards progress.
	IncludeWarmups bool
}

// Convert turns parsed sessions into workouts. Exercise names carry the
// equipment, e.g. "Bench Press (Barbell)", since Alpha Progression tracks
// the same movement on different equipment separately.
func Convert(sessions []Session, opts Options) []models.Workout {
	out := make([]models.Workout, 0, len(sessions))
	for _, s := range sessions {
		date := s.Date.Format("2006-01-02T15:04:05")
		wid := uuid.NewSHA1(namespace, []byte(s.Name+"|"+date))
		w := models.Workout{
			ID:        wid.String(),
			Date:      date,
			Name:      s.Name,
			Duration:  parseDuration(s.Duration),
			Exercises: make([]models.Exercise, 0, len(s.Exercises)),
		}
		for _, ex := range s.Exercises {
			e := models.Exercise{
				ID:    uuid.NewSHA1(wid, []byte(fmt.Sprintf("ex-%d", ex.Number))).String(),
				Name:  ExerciseName(ex),
				Notes: ex.Modifiers,
				Sets:  make([]models.SetData, 0, len(ex.Sets)),
			}
			for i, set := range ex.Sets {
				if set.IsWarmup && !opts.IncludeWarmups {
					continue
				}
				sd := models.SetData{
					ID:     uuid.NewSHA1(wid, []byte(fmt.Sprintf("set-%d-%d", ex.Number, i))).String(),
					Weight: set.WeightKg,
					Reps:   set.Reps,
				}
				if !set.IsWarmup {
					rir := set.RIR
					sd.RIR = &rir
				}
				e.Sets = append(e.Sets, sd)
			}
			if len(e.Sets) > 0 {
				w.Exercises = append(w.Exercises, e)
			}
		}
		out = append(out, w)
	}
	return out
}

// ExerciseName is the workout exercise name for an exported exercise.
func ExerciseName(ex ExerciseBlock) string {
	if ex.Equipment == "" {
		return ex.Name
	}
	return ex.Name + " (" + ex.Equipment + ")"
}
