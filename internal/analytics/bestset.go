package analytics

import "github.com/meltforce/gymtrack/internal/models"

// BestSet is the all-time heaviest set of an exercise, with the most reps
// logged at that weight.
type BestSet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// String renders the set as "100kg x 5".
func (b BestSet) String() string {
	return FormatSet(b.Weight, b.Reps)
}

// BestSetFor scans every set of every exercise named exactly name. It
// reports false when the exercise was never logged with a positive weight.
func BestSetFor(name string, workouts []models.Workout) (BestSet, bool) {
	var best BestSet
	found := false

	for _, w := range workouts {
		for _, ex := range w.Exercises {
			if ex.Name != name {
				continue
			}
			for _, set := range ex.Sets {
				switch {
				case set.Weight > best.Weight:
					best = BestSet{Weight: set.Weight, Reps: set.Reps}
					found = true
				case found && set.Weight == best.Weight && set.Reps > best.Reps:
					best.Reps = set.Reps
				}
			}
		}
	}
	return best, found
}
