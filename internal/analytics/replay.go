// Package analytics derives personal records, best sets, progress series and
// calendar buckets from workout history.
//
// Every function here is pure: it reads the slice it is given, never mutates
// it, keeps no state between calls and performs no I/O. Results are
// recomputed from the full history on every call.
package analytics

import "github.com/meltforce/gymtrack/internal/models"

// MaxRecentPRs bounds the recent-records feed.
const MaxRecentPRs = 5

// PRType says which dimension of the running best a record improved.
type PRType string

const (
	PRWeight PRType = "weight"
	PRReps   PRType = "reps"
)

// RecentPR is one personal-record event.
type RecentPR struct {
	ExerciseName string  `json:"exercise_name"`
	Weight       float64 `json:"weight"`
	Reps         int     `json:"reps"`
	Date         string  `json:"date"`
	WorkoutID    string  `json:"workout_id"`
	PreviousBest string  `json:"previous_best"`
	Type         PRType  `json:"type"`
}

// runningBest is the replay state for one exercise.
type runningBest struct {
	maxWeight          float64
	maxRepsAtMaxWeight int
}

// AllPRs replays the history oldest first and returns every record event in
// chronological order.
//
// Sets with weight <= 0 are ignored. The first qualifying set of an exercise
// only establishes its baseline. After that, a set is a record when it beats
// the best weight, or matches it with more reps.
func AllPRs(workouts []models.Workout) []RecentPR {
	var prs []RecentPR
	best := make(map[string]*runningBest)

	for _, w := range chronological(workouts) {
		for _, ex := range w.Exercises {
			for _, set := range ex.Sets {
				if set.Weight <= 0 {
					continue
				}

				cur, ok := best[ex.Name]
				if !ok {
					best[ex.Name] = &runningBest{maxWeight: set.Weight, maxRepsAtMaxWeight: set.Reps}
					continue
				}

				var kind PRType
				switch {
				case set.Weight > cur.maxWeight:
					kind = PRWeight
				case set.Weight == cur.maxWeight && set.Reps > cur.maxRepsAtMaxWeight:
					kind = PRReps
				default:
					continue
				}

				prs = append(prs, RecentPR{
					ExerciseName: ex.Name,
					Weight:       set.Weight,
					Reps:         set.Reps,
					Date:         w.Date,
					WorkoutID:    w.ID,
					PreviousBest: FormatSet(cur.maxWeight, cur.maxRepsAtMaxWeight),
					Type:         kind,
				})

				if kind == PRWeight {
					cur.maxWeight = set.Weight
					cur.maxRepsAtMaxWeight = set.Reps
				} else {
					cur.maxRepsAtMaxWeight = max(cur.maxRepsAtMaxWeight, set.Reps)
				}
			}
		}
	}
	return prs
}

// RecentPRs returns the newest record per exercise, newest first, at most
// MaxRecentPRs entries.
func RecentPRs(workouts []models.Workout) []RecentPR {
	all := AllPRs(workouts)

	recent := make([]RecentPR, 0, MaxRecentPRs)
	seen := make(map[string]bool)
	for i := len(all) - 1; i >= 0 && len(recent) < MaxRecentPRs; i-- {
		pr := all[i]
		if seen[pr.ExerciseName] {
			continue
		}
		seen[pr.ExerciseName] = true
		recent = append(recent, pr)
	}
	return recent
}
