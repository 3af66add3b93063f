package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
)

// TestBestSetFor verifies the highest weight wins and, at that weight, the most reps.
func TestBestSetFor(t *testing.T) {
	ws := []models.Workout{
		workout("w1", "2024-01-01T10:00:00Z", exercise("Deadlift", sets(140, 5, 150, 2))),
		workout("w2", "2024-01-08T10:00:00Z", exercise("Deadlift", sets(150, 3, 120, 10))),
		workout("w3", "2024-01-09T10:00:00Z", exercise("deadlift", sets(200, 1))),
	}
	best, ok := BestSetFor("Deadlift", ws)
	if !ok {
		t.Fatal("expected a best set")
	}
	if best.Weight != 150 || best.Reps != 3 {
		t.Errorf("best = %+v, want 150kg x 3", best)
	}
	if best.String() != "150kg x 3" {
		t.Errorf("String() = %q", best.String())
	}
}

// TestBestSetForAbsent verifies unknown exercises and zero-weight-only
// exercises report no best set.
func TestBestSetForAbsent(t *testing.T) {
	ws := []models.Workout{
		workout("w1", "2024-01-01T10:00:00Z", exercise("Plancha", sets(0, 60, 0, 90))),
	}
	if _, ok := BestSetFor("Plancha", ws); ok {
		t.Error("zero-weight exercise should have no best set")
	}
	if _, ok := BestSetFor("Squat", ws); ok {
		t.Error("unknown exercise should have no best set")
	}
	if _, ok := BestSetFor("Squat", nil); ok {
		t.Error("empty history should have no best set")
	}
}

// TestSeriesForTopSet verifies the representative point is the heaviest set,
// ties broken by reps, with volume load = weight x reps.
func TestSeriesForTopSet(t *testing.T) {
	ws := []models.Workout{
		workout("w1", "2024-02-01T10:00:00Z", exercise("Bench", sets(50, 10, 60, 5, 60, 6))),
	}
	got := SeriesFor("Bench", ws)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	p := got[0]
	if p.Weight != 60 || p.Reps != 6 {
		t.Errorf("top set = %vkg x %d, want 60kg x 6", p.Weight, p.Reps)
	}
	if p.VolumeLoad != 360 {
		t.Errorf("volume = %v, want 360", p.VolumeLoad)
	}
	if p.Day != "2024-02-01" {
		t.Errorf("day = %q, want 2024-02-01", p.Day)
	}
	if ws[0].Exercises[0].Sets[0].Weight != 50 {
		t.Error("input sets were reordered")
	}
}

// TestSeriesForOrdering verifies points are oldest first whatever the input
// order, and workouts without the exercise or without sets are skipped.
func TestSeriesForOrdering(t *testing.T) {
	ws := []models.Workout{
		workout("w3", "2024-02-15T10:00:00Z", exercise("Squat", sets(110, 3))),
		workout("w2", "2024-02-08T10:00:00Z", exercise("Bench", sets(60, 5))),
		workout("w4", "2024-02-20T10:00:00Z", exercise("Squat", nil)),
		workout("w1", "2024-02-01T10:00:00Z", exercise("Squat", sets(100, 5))),
	}
	got := SeriesFor("Squat", ws)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].WorkoutID != "w1" || got[1].WorkoutID != "w3" {
		t.Errorf("order = %s, %s; want w1, w3", got[0].WorkoutID, got[1].WorkoutID)
	}
}

// TestSeriesForIncludesZeroWeight verifies the extractor does not drop
// zero-weight sets, unlike the record replay.
func TestSeriesForIncludesZeroWeight(t *testing.T) {
	ws := []models.Workout{
		workout("w1", "2024-02-01T10:00:00Z", exercise("Dominadas", sets(0, 8, 0, 10))),
	}
	got := SeriesFor("Dominadas", ws)
	if len(got) != 1 || got[0].Reps != 10 || got[0].VolumeLoad != 0 {
		t.Errorf("series = %+v, want one 0kg x 10 point", got)
	}
}

// TestSeriesForUsesFirstOccurrence verifies a workout contributes the top set
// of its first block of the exercise only.
func TestSeriesForUsesFirstOccurrence(t *testing.T) {
	ws := []models.Workout{
		workout("w1", "2024-02-01T10:00:00Z",
			exercise("Curl", sets(10, 12)),
			exercise("Curl", sets(14, 8)),
		),
	}
	got := SeriesFor("Curl", ws)
	if len(got) != 1 || got[0].Weight != 10 {
		t.Errorf("series = %+v, want the 10kg block", got)
	}
}

// TestSeriesForEmpty verifies an unknown exercise gives an empty, non-nil series.
func TestSeriesForEmpty(t *testing.T) {
	got := SeriesFor("Nope", nil)
	if got == nil || len(got) != 0 {
		t.Errorf("SeriesFor = %#v, want empty slice", got)
	}
}

// TestGroupExercises verifies routine groups keep routine order and only
// exercises with history, and the rest go to the ungrouped list.
func TestGroupExercises(t *testing.T) {
	routines := []models.Routine{
		{ID: "r1", Name: "Push", Exercises: []models.RoutineExercise{{Name: "Bench"}, {Name: "Dips"}, {Name: "Press"}}},
		{ID: "r2", Name: "Legs", Exercises: []models.RoutineExercise{{Name: "Squat"}}},
	}
	ws := []models.Workout{
		workout("w1", "2024-02-01T10:00:00Z", exercise("Press", sets(40, 5)), exercise("Bench", sets(60, 5))),
		workout("w2", "2024-02-02T10:00:00Z", exercise("Curl", sets(12, 10)), exercise("Face Pulls", sets(20, 15))),
	}

	got := GroupExercises(routines, ws)
	want := Grouping{
		Groups: []RoutineGroup{
			{Name: "Push", Exercises: []string{"Bench", "Press"}},
			{Name: "Legs", Exercises: []string{}},
		},
		Ungrouped: []string{"Curl", "Face Pulls"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupExercises =\n%+v\nwant\n%+v", got, want)
	}
}

// TestProgressSuppressesShortSeries verifies single-point exercises and empty
// groups are dropped from the progress view.
func TestProgressSuppressesShortSeries(t *testing.T) {
	routines := []models.Routine{
		{Name: "Push", Exercises: []models.RoutineExercise{{Name: "Bench"}, {Name: "Dips"}}},
		{Name: "Legs", Exercises: []models.RoutineExercise{{Name: "Squat"}}},
	}
	ws := []models.Workout{
		workout("w1", "2024-02-01T10:00:00Z", exercise("Bench", sets(60, 5)), exercise("Dips", sets(10, 8)), exercise("Squat", sets(100, 5))),
		workout("w2", "2024-02-08T10:00:00Z", exercise("Bench", sets(62.5, 5)), exercise("Curl", sets(12, 10))),
		workout("w3", "2024-02-15T10:00:00Z", exercise("Curl", sets(14, 8))),
	}

	got := Progress(routines, ws, MinChartPoints)
	if len(got) != 2 {
		t.Fatalf("groups = %+v, want Push and %s", got, UngroupedTitle)
	}
	if got[0].Name != "Push" || len(got[0].Charts) != 1 || got[0].Charts[0].Exercise != "Bench" {
		t.Errorf("push group = %+v", got[0])
	}
	if got[1].Name != UngroupedTitle || got[1].Charts[0].Exercise != "Curl" {
		t.Errorf("ungrouped = %+v", got[1])
	}
	if len(Progress(routines, ws, 1)) != 3 {
		t.Error("minPoints=1 should keep every group with history")
	}
}

// TestIndexByDate verifies same-day workouts share a bucket in input order,
// keyed by the text before the time separator.
func TestIndexByDate(t *testing.T) {
	ws := []models.Workout{
		workout("late", "2024-03-10T19:30:00Z"),
		workout("other", "2024-03-11T07:00:00Z"),
		workout("early", "2024-03-10T06:15:00Z"),
		workout("dateonly", "2024-03-12"),
	}
	idx := IndexByDate(ws)
	if len(idx) != 3 {
		t.Fatalf("buckets = %d, want 3", len(idx))
	}
	day := idx["2024-03-10"]
	if len(day) != 2 || day[0].ID != "late" || day[1].ID != "early" {
		t.Errorf("2024-03-10 bucket = %+v, want late then early", day)
	}
	if len(idx["2024-03-12"]) != 1 {
		t.Error("date-only workout should be keyed by its whole date")
	}
	if len(IndexByDate(nil)) != 0 {
		t.Error("empty input should give empty index")
	}
}

// TestIndexByDateNoTimezoneShift verifies the key is the literal prefix, not
// the UTC day of the instant.
func TestIndexByDateNoTimezoneShift(t *testing.T) {
	idx := IndexByDate([]models.Workout{workout("w", "2024-03-10T23:30:00-05:00")})
	if _, ok := idx["2024-03-10"]; !ok {
		t.Errorf("index = %v, want key 2024-03-10", idx)
	}
}

// TestMonthDays verifies a month view lists every day with its workout count.
func TestMonthDays(t *testing.T) {
	idx := IndexByDate([]models.Workout{
		workout("a", "2024-02-29T10:00:00Z"),
		workout("b", "2024-02-29T18:00:00Z"),
		workout("c", "2024-03-01T10:00:00Z"),
	})
	days := MonthDays(idx, 2024, time.February)
	if len(days) != 29 {
		t.Fatalf("days = %d, want 29 for leap February", len(days))
	}
	last := days[28]
	if last.Day != "2024-02-29" || last.Workouts != 2 {
		t.Errorf("last day = %+v, want 2024-02-29 with 2", last)
	}
	if days[0].Workouts != 0 {
		t.Errorf("first day = %+v, want 0 workouts", days[0])
	}
}
