package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
)

// DayKey returns the calendar-day part of an ISO date: everything before the
// first "T". No timezone normalisation is applied.
func DayKey(date string) string {
	day, _, _ := strings.Cut(date, "T")
	return day
}

// IndexByDate buckets workouts by DayKey. Each bucket keeps the order in
// which its workouts appear in the input.
func IndexByDate(workouts []models.Workout) map[string][]models.Workout {
	index := make(map[string][]models.Workout)
	for _, w := range workouts {
		key := DayKey(w.Date)
		index[key] = append(index[key], w)
	}
	return index
}

// CalendarDay is one cell of a month view.
type CalendarDay struct {
	Day      string `json:"day"`
	Workouts int    `json:"workouts"`
}

// MonthDays returns every day of the given month with its workout count.
func MonthDays(index map[string][]models.Workout, year int, month time.Month) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	n := first.AddDate(0, 1, -1).Day()

	days := make([]CalendarDay, 0, n)
	for d := 1; d <= n; d++ {
		key := fmt.Sprintf("%04d-%02d-%02d", year, int(month), d)
		days = append(days, CalendarDay{Day: key, Workouts: len(index[key])})
	}
	return days
}
