package models

// SetData is one performed set. Weight is in kilograms.
type SetData struct {
	ID     string   `json:"id"`
	Weight float64  `json:"weight" validate:"gte=0"`
	Reps   int      `json:"reps" validate:"gte=0"`
	RIR    *float64 `json:"rir,omitempty"`
	RPE    *float64 `json:"rpe,omitempty"`
}

// Exercise is one exercise as logged within a workout.
//
// Name is the exercise's identity: history is matched by exact,
// case-sensitive string equality. Renaming an exercise starts a new history.
type Exercise struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Sets  []SetData `json:"sets" validate:"dive"`
	Notes string    `json:"notes,omitempty"`
}

// Workout is a finished training session. Date is an ISO-8601 date-time
// string; only its calendar-day prefix is used for grouping.
type Workout struct {
	ID        string     `json:"id"`
	Date      string     `json:"date" validate:"required"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises" validate:"dive"`
	Duration  int        `json:"duration" validate:"gte=0"` // seconds
}

// RoutineExercise references an exercise by name.
type RoutineExercise struct {
	Name string `json:"name" validate:"required"`
}

// Routine is a named template of exercise names. It is never history.
type Routine struct {
	ID        string            `json:"id"`
	Name      string            `json:"name" validate:"required"`
	Exercises []RoutineExercise `json:"exercises" validate:"dive"`
}

// ExerciseNames returns the routine's exercise names in order.
func (r Routine) ExerciseNames() []string {
	names := make([]string, 0, len(r.Exercises))
	for _, e := range r.Exercises {
		names = append(names, e.Name)
	}
	return names
}

// BodyMetric is a body-weight entry. BodyFat and Measurements are legacy
// fields kept so older backups round-trip.
type BodyMetric struct {
	ID           string             `json:"id"`
	Date         string             `json:"date" validate:"required"`
	Weight       float64            `json:"weight" validate:"gt=0"`
	BodyFat      *float64           `json:"bodyFat,omitempty"`
	Measurements map[string]float64 `json:"measurements,omitempty"`
}

// CardioSession is a logged cardio activity.
type CardioSession struct {
	ID       string   `json:"id"`
	Date     string   `json:"date" validate:"required"`
	Type     string   `json:"type" validate:"required"`
	Duration float64  `json:"duration" validate:"gt=0"` // minutes
	Distance *float64 `json:"distance,omitempty"`       // km
	Notes    string   `json:"notes,omitempty"`
}

// Backup is the full-data export document.
type Backup struct {
	Workouts        []Workout       `json:"workouts" validate:"dive"`
	Routines        []Routine       `json:"routines" validate:"dive"`
	BodyMetrics     []BodyMetric    `json:"bodyMetrics" validate:"dive"`
	CardioSessions  []CardioSession `json:"cardioSessions" validate:"dive"`
	CustomExercises []string        `json:"customExercises"`
}
