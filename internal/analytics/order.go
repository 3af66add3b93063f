package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate parses an ISO-8601 workout date. Dates without a zone are read as UTC.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateLess orders two workout dates chronologically. Unparsable dates sort
// after every parsable one and among themselves lexically.
func dateLess(a, b string) bool {
	ta, okA := parseDate(a)
	tb, okB := parseDate(b)
	switch {
	case okA && okB:
		return ta.Before(tb)
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

// chronological returns a copy of workouts stably sorted oldest first.
// The workouts themselves are shared, not copied; callers must not mutate them.
func chronological(workouts []models.Workout) []models.Workout {
	sorted := make([]models.Workout, len(workouts))
	copy(sorted, workouts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dateLess(sorted[i].Date, sorted[j].Date)
	})
	return sorted
}

// FormatWeight renders a weight in its shortest form: 60, 17.5, 102.25.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// FormatSet renders a set the way the logging form shows it: "70kg x 5".
func FormatSet(weight float64, reps int) string {
	return FormatWeight(weight) + "kg x " + strconv.Itoa(reps)
}
