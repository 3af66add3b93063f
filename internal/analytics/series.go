package analytics

import (
	"sort"

	"github.com/meltforce/gymtrack/internal/models"
)

// MinChartPoints is the fewest points a progress chart is drawn with.
const MinChartPoints = 2

// Point is the top set of one workout for one exercise.
type Point struct {
	Date       string  `json:"date"`
	Day        string  `json:"day"`
	WorkoutID  string  `json:"workout_id"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	VolumeLoad float64 `json:"volume_load"`
}

// SeriesFor returns one point per workout that logged the exercise, oldest
// first. The point is the top set of the first occurrence of the exercise in
// that workout: highest weight, then most reps. Every set is a candidate,
// including zero-weight ones.
func SeriesFor(name string, workouts []models.Workout) []Point {
	points := []Point{}
	for _, w := range chronological(workouts) {
		ex := findExercise(w, name)
		if ex == nil || len(ex.Sets) == 0 {
			continue
		}
		top := topSet(ex.Sets)
		points = append(points, Point{
			Date:       w.Date,
			Day:        DayKey(w.Date),
			WorkoutID:  w.ID,
			Weight:     top.Weight,
			Reps:       top.Reps,
			VolumeLoad: top.Weight * float64(top.Reps),
		})
	}
	return points
}

func findExercise(w models.Workout, name string) *models.Exercise {
	for i := range w.Exercises {
		if w.Exercises[i].Name == name {
			return &w.Exercises[i]
		}
	}
	return nil
}

// topSet sorts a copy of sets by weight then reps, both descending, and
// returns the first.
func topSet(sets []models.SetData) models.SetData {
	sorted := make([]models.SetData, len(sets))
	copy(sorted, sets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weight != sorted[j].Weight {
			return sorted[i].Weight > sorted[j].Weight
		}
		return sorted[i].Reps > sorted[j].Reps
	})
	return sorted[0]
}

// RoutineGroup lists the exercises of a routine that have any history.
type RoutineGroup struct {
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
}

// Grouping partitions exercises with history by routine membership.
type Grouping struct {
	Groups    []RoutineGroup `json:"groups"`
	Ungrouped []string       `json:"ungrouped"`
}

// HistoryExercises returns each exercise name that appears in workouts,
// in first-seen order.
func HistoryExercises(workouts []models.Workout) []string {
	names := []string{}
	seen := make(map[string]bool)
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			if !seen[ex.Name] {
				seen[ex.Name] = true
				names = append(names, ex.Name)
			}
		}
	}
	return names
}

// GroupExercises computes, for every routine in order, the routine's
// exercises that have history (routine order kept), plus the exercises with
// history that belong to no routine. An exercise listed by several routines
// appears under each of them.
func GroupExercises(routines []models.Routine, workouts []models.Workout) Grouping {
	history := HistoryExercises(workouts)
	hasHistory := make(map[string]bool, len(history))
	for _, name := range history {
		hasHistory[name] = true
	}

	g := Grouping{Groups: make([]RoutineGroup, 0, len(routines)), Ungrouped: []string{}}
	inRoutine := make(map[string]bool)
	for _, r := range routines {
		group := RoutineGroup{Name: r.Name, Exercises: []string{}}
		for _, name := range r.ExerciseNames() {
			inRoutine[name] = true
			if hasHistory[name] {
				group.Exercises = append(group.Exercises, name)
			}
		}
		g.Groups = append(g.Groups, group)
	}

	for _, name := range history {
		if !inRoutine[name] {
			g.Ungrouped = append(g.Ungrouped, name)
		}
	}
	return g
}

// ExerciseSeries is one chart: an exercise and its points.
type ExerciseSeries struct {
	Exercise string  `json:"exercise"`
	Points   []Point `json:"points"`
}

// ChartGroup is a titled set of charts.
type ChartGroup struct {
	Name   string           `json:"name"`
	Charts []ExerciseSeries `json:"charts"`
}

// UngroupedTitle titles the charts of exercises outside every routine.
const UngroupedTitle = "Otros Ejercicios"

// Progress builds the chart groups of the progress view. Exercises with
// fewer than minPoints points are left out, as are groups with no charts
// left. Ungrouped exercises come last under UngroupedTitle.
func Progress(routines []models.Routine, workouts []models.Workout, minPoints int) []ChartGroup {
	grouping := GroupExercises(routines, workouts)
	cache := make(map[string][]Point)
	charts := func(names []string) []ExerciseSeries {
		var out []ExerciseSeries
		for _, name := range names {
			points, ok := cache[name]
			if !ok {
				points = SeriesFor(name, workouts)
				cache[name] = points
			}
			if len(points) < minPoints {
				continue
			}
			out = append(out, ExerciseSeries{Exercise: name, Points: points})
		}
		return out
	}

	groups := []ChartGroup{}
	for _, g := range grouping.Groups {
		if c := charts(g.Exercises); len(c) > 0 {
			groups = append(groups, ChartGroup{Name: g.Name, Charts: c})
		}
	}
	if c := charts(grouping.Ungrouped); len(c) > 0 {
		groups = append(groups, ChartGroup{Name: UngroupedTitle, Charts: c})
	}
	return groups
}
