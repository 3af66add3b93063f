// Package session models the in-progress workout being logged. A Session is
// started fresh, from a routine, from a persisted draft or from a finished
// workout being edited, and ends with Commit or Discard.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymtrack/internal/models"
)

// ErrEmptyWorkout is returned by Commit when no named exercise remains.
var ErrEmptyWorkout = errors.New("workout has no exercises")

// ErrNegativeSet is returned by Commit when a kept set has a negative weight or reps.
var ErrNegativeSet = errors.New("weight and reps must not be negative")

// ErrClosed is returned by any mutation after Commit or Discard.
var ErrClosed = errors.New("session is closed")

// DefaultName is used for sessions not started from a routine.
const DefaultName = "Entrenamiento Libre"

// Session holds a workout draft. It is not safe for concurrent use.
type Session struct {
	w       models.Workout
	started time.Time
	editing bool
	closed  bool
}

// New starts an empty session at now.
func New(now time.Time) *Session {
	return &Session{
		w: models.Workout{
			ID:        uuid.NewString(),
			Date:      now.UTC().Format(time.RFC3339),
			Name:      DefaultName,
			Exercises: []models.Exercise{},
		},
		started: now,
	}
}

// FromRoutine starts a session with one exercise per routine entry, each with
// a single empty set.
func FromRoutine(rt models.Routine, now time.Time) *Session {
	s := New(now)
	s.w.Name = rt.Name
	for _, name := range rt.ExerciseNames() {
		s.w.Exercises = append(s.w.Exercises, newExercise(name))
	}
	return s
}

// Resume continues a persisted draft. The draft's date is its start time.
func Resume(draft models.Workout) *Session {
	s := &Session{w: cloneWorkout(draft)}
	if t, err := time.Parse(time.RFC3339Nano, draft.Date); err == nil {
		s.started = t
	}
	if s.w.ID == "" {
		s.w.ID = uuid.NewString()
	}
	return s
}

// Edit opens a finished workout for correction. Commit keeps its id, date
// and duration.
func Edit(w models.Workout) *Session {
	s := Resume(w)
	s.editing = true
	return s
}

// Editing reports whether the session edits an already saved workout.
func (s *Session) Editing() bool { return s.editing }

// Snapshot returns a copy of the current draft, suitable for persisting.
func (s *Session) Snapshot() models.Workout {
	return cloneWorkout(s.w)
}

// SetName renames the workout.
func (s *Session) SetName(name string) error {
	if s.closed {
		return ErrClosed
	}
	s.w.Name = name
	return nil
}

// AddExercise appends an exercise with one empty set and returns its index.
func (s *Session) AddExercise(name string) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	s.w.Exercises = append(s.w.Exercises, newExercise(name))
	return len(s.w.Exercises) - 1, nil
}

// RemoveExercise drops the exercise at index i.
func (s *Session) RemoveExercise(i int) error {
	if err := s.checkExercise(i); err != nil {
		return err
	}
	s.w.Exercises = append(s.w.Exercises[:i], s.w.Exercises[i+1:]...)
	return nil
}

// SetExerciseName renames the exercise at index i.
func (s *Session) SetExerciseName(i int, name string) error {
	if err := s.checkExercise(i); err != nil {
		return err
	}
	s.w.Exercises[i].Name = name
	return nil
}

// SetExerciseNotes replaces the notes of the exercise at index i.
func (s *Session) SetExerciseNotes(i int, notes string) error {
	if err := s.checkExercise(i); err != nil {
		return err
	}
	s.w.Exercises[i].Notes = notes
	return nil
}

// AddSet appends a set to exercise i, pre-filled with the previous set's
// weight and reps.
func (s *Session) AddSet(i int) error {
	if err := s.checkExercise(i); err != nil {
		return err
	}
	ex := &s.w.Exercises[i]
	set := models.SetData{ID: uuid.NewString()}
	if n := len(ex.Sets); n > 0 {
		set.Weight = ex.Sets[n-1].Weight
		set.Reps = ex.Sets[n-1].Reps
	}
	ex.Sets = append(ex.Sets, set)
	return nil
}

// RemoveSet drops set j of exercise i. The last remaining set cannot be removed.
func (s *Session) RemoveSet(i, j int) error {
	if err := s.checkSet(i, j); err != nil {
		return err
	}
	ex := &s.w.Exercises[i]
	if len(ex.Sets) <= 1 {
		return fmt.Errorf("exercise %d: cannot remove its only set", i)
	}
	ex.Sets = append(ex.Sets[:j], ex.Sets[j+1:]...)
	return nil
}

// UpdateSet sets weight and reps of set j of exercise i. RIR and RPE are
// kept unless non-nil values are given.
func (s *Session) UpdateSet(i, j int, weight float64, reps int, rir, rpe *float64) error {
	if err := s.checkSet(i, j); err != nil {
		return err
	}
	if weight < 0 || reps < 0 {
		return fmt.Errorf("set %d/%d: weight and reps must not be negative", i, j)
	}
	set := &s.w.Exercises[i].Sets[j]
	set.Weight = weight
	set.Reps = reps
	if rir != nil {
		set.RIR = rir
	}
	if rpe != nil {
		set.RPE = rpe
	}
	return nil
}

// Commit closes the session and returns the finished workout. Exercises with
// a blank name are dropped. A new workout's duration is the time elapsed
// since start and its date is the draft's day at the finish time of day; an
// edited workout keeps its original date and duration.
func (s *Session) Commit(now time.Time) (models.Workout, error) {
	if s.closed {
		return models.Workout{}, ErrClosed
	}
	w := cloneWorkout(s.w)
	kept := w.Exercises[:0]
	for _, ex := range w.Exercises {
		if strings.TrimSpace(ex.Name) != "" {
			kept = append(kept, ex)
		}
	}
	w.Exercises = kept
	if len(w.Exercises) == 0 {
		return models.Workout{}, ErrEmptyWorkout
	}
	for _, ex := range w.Exercises {
		for j, set := range ex.Sets {
			if set.Weight < 0 || set.Reps < 0 {
				return models.Workout{}, fmt.Errorf("%s set %d: %w", ex.Name, j+1, ErrNegativeSet)
			}
		}
	}
	if !s.editing {
		if !s.started.IsZero() {
			if d := now.Sub(s.started); d > 0 {
				w.Duration = int(d / time.Second)
			}
		}
		w.Date = finishDate(w.Date, now)
	}
	s.closed = true
	return w, nil
}

// Discard closes the session without producing a workout.
func (s *Session) Discard() {
	s.closed = true
}

// finishDate combines the calendar day of date with the clock time of now,
// both in UTC. An unparsable date falls back to now's day.
func finishDate(date string, now time.Time) string {
	now = now.UTC()
	day := now
	if len(date) >= 10 {
		if t, err := time.Parse("2006-01-02", date[:10]); err == nil {
			day = t
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, time.UTC).Format(time.RFC3339)
}

func (s *Session) checkExercise(i int) error {
	if s.closed {
		return ErrClosed
	}
	if i < 0 || i >= len(s.w.Exercises) {
		return fmt.Errorf("exercise index %d out of range", i)
	}
	return nil
}

func (s *Session) checkSet(i, j int) error {
	if err := s.checkExercise(i); err != nil {
		return err
	}
	if j < 0 || j >= len(s.w.Exercises[i].Sets) {
		return fmt.Errorf("set index %d out of range for exercise %d", j, i)
	}
	return nil
}

func newExercise(name string) models.Exercise {
	return models.Exercise{
		ID:   uuid.NewString(),
		Name: name,
		Sets: []models.SetData{{ID: uuid.NewString()}},
	}
}

func cloneWorkout(w models.Workout) models.Workout {
	out := w
	out.Exercises = make([]models.Exercise, len(w.Exercises))
	for i, ex := range w.Exercises {
		ex.Sets = append([]models.SetData(nil), ex.Sets...)
		out.Exercises[i] = ex
	}
	return out
}
