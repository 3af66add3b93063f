package session

import (
	"errors"
	"testing"
	"time"

	"github.com/meltforce/gymtrack/internal/models"
)

var t0 = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

// TestFromRoutine verifies one exercise with a single empty set per routine entry.
func TestFromRoutine(t *testing.T) {
	rt := models.Routine{Name: "Push", Exercises: []models.RoutineExercise{{Name: "Bench"}, {Name: "Dips"}}}
	s := FromRoutine(rt, t0)
	w := s.Snapshot()

	if w.Name != "Push" {
		t.Errorf("Name = %q, want Push", w.Name)
	}
	if len(w.Exercises) != 2 {
		t.Fatalf("len(Exercises) = %d, want 2", len(w.Exercises))
	}
	for _, ex := range w.Exercises {
		if len(ex.Sets) != 1 || ex.Sets[0].Weight != 0 || ex.Sets[0].Reps != 0 {
			t.Errorf("%s sets = %+v, want one empty set", ex.Name, ex.Sets)
		}
	}
	if w.Date != "2024-03-01T18:00:00Z" {
		t.Errorf("Date = %q", w.Date)
	}
}

// TestAddSetCopiesPrevious verifies a new set starts from the last set's values.
func TestAddSetCopiesPrevious(t *testing.T) {
	s := New(t0)
	i, _ := s.AddExercise("Squat")
	if err := s.UpdateSet(i, 0, 100, 5, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.AddSet(i); err != nil {
		t.Fatal(err)
	}
	sets := s.Snapshot().Exercises[i].Sets
	if len(sets) != 2 || sets[1].Weight != 100 || sets[1].Reps != 5 {
		t.Errorf("sets = %+v, want second set 100x5", sets)
	}
	if sets[0].ID == sets[1].ID {
		t.Error("sets share an id")
	}
}

// TestRemoveSetKeepsOne verifies the only set of an exercise cannot be removed.
func TestRemoveSetKeepsOne(t *testing.T) {
	s := New(t0)
	i, _ := s.AddExercise("Squat")
	if err := s.RemoveSet(i, 0); err == nil {
		t.Error("expected error removing the only set")
	}
	s.AddSet(i)
	if err := s.RemoveSet(i, 0); err != nil {
		t.Errorf("RemoveSet: %v", err)
	}
	if n := len(s.Snapshot().Exercises[i].Sets); n != 1 {
		t.Errorf("sets = %d, want 1", n)
	}
}

// TestIndexErrors verifies out-of-range indices are rejected.
func TestIndexErrors(t *testing.T) {
	s := New(t0)
	if err := s.RemoveExercise(0); err == nil {
		t.Error("RemoveExercise(0) on empty session: expected error")
	}
	s.AddExercise("Row")
	if err := s.UpdateSet(0, 3, 1, 1, nil, nil); err == nil {
		t.Error("UpdateSet out of range: expected error")
	}
	if err := s.UpdateSet(0, 0, -1, 1, nil, nil); err == nil {
		t.Error("UpdateSet negative weight: expected error")
	}
}

// TestCommitDropsBlankExercises verifies blank-named exercises are dropped and
// the duration is measured from the start.
func TestCommitDropsBlankExercises(t *testing.T) {
	s := New(t0)
	s.AddExercise("Bench")
	s.AddExercise("   ")
	s.AddExercise("")

	w, err := s.Commit(t0.Add(45 * time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Exercises) != 1 || w.Exercises[0].Name != "Bench" {
		t.Errorf("exercises = %+v, want only Bench", w.Exercises)
	}
	if w.Duration != 2700 {
		t.Errorf("Duration = %d, want 2700", w.Duration)
	}
	if _, err := s.AddExercise("late"); !errors.Is(err, ErrClosed) {
		t.Errorf("after commit err = %v, want ErrClosed", err)
	}
}

// TestCommitEmpty verifies ErrEmptyWorkout when nothing named remains.
func TestCommitEmpty(t *testing.T) {
	s := New(t0)
	s.AddExercise(" ")
	if _, err := s.Commit(t0.Add(time.Minute)); !errors.Is(err, ErrEmptyWorkout) {
		t.Errorf("err = %v, want ErrEmptyWorkout", err)
	}
	// The session stays open so the user can fix it.
	if err := s.SetExerciseName(0, "Curl"); err != nil {
		t.Errorf("SetExerciseName after failed commit: %v", err)
	}
}

// TestEditKeepsDuration verifies editing a finished workout keeps id, date and duration.
func TestEditKeepsDuration(t *testing.T) {
	orig := models.Workout{
		ID: "w1", Date: "2024-02-01T10:00:00Z", Name: "Legs", Duration: 3600,
		Exercises: []models.Exercise{{Name: "Squat", Sets: []models.SetData{{Weight: 100, Reps: 5}}}},
	}
	s := Edit(orig)
	if !s.Editing() {
		t.Fatal("Editing() = false")
	}
	s.UpdateSet(0, 0, 105, 5, nil, nil)

	w, err := s.Commit(t0)
	if err != nil {
		t.Fatal(err)
	}
	if w.ID != "w1" || w.Date != orig.Date || w.Duration != 3600 {
		t.Errorf("got id=%s date=%s duration=%d", w.ID, w.Date, w.Duration)
	}
	if orig.Exercises[0].Sets[0].Weight != 100 {
		t.Error("Edit mutated the original workout")
	}
}

// TestResumeDraft verifies a resumed draft measures duration from its date.
func TestResumeDraft(t *testing.T) {
	draft := New(t0).Snapshot()
	draft.Exercises = []models.Exercise{{Name: "Press"}}

	s := Resume(draft)
	w, err := s.Commit(t0.Add(30 * time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if w.ID != draft.ID {
		t.Errorf("ID = %s, want %s", w.ID, draft.ID)
	}
	if w.Duration != 1800 {
		t.Errorf("Duration = %d, want 1800", w.Duration)
	}
}

// TestDiscard verifies a discarded session rejects further changes.
func TestDiscard(t *testing.T) {
	s := New(t0)
	s.AddExercise("Row")
	s.Discard()
	if _, err := s.Commit(t0); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

// TestCommitRejectsNegativeSet verifies a draft carrying a negative set
// cannot become history and the session stays open.
func TestCommitRejectsNegativeSet(t *testing.T) {
	draft := New(t0).Snapshot()
	draft.Exercises = []models.Exercise{{Name: "Bench", Sets: []models.SetData{{Weight: -50, Reps: -3}}}}

	s := Resume(draft)
	if _, err := s.Commit(t0.Add(time.Hour)); !errors.Is(err, ErrNegativeSet) {
		t.Fatalf("err = %v, want ErrNegativeSet", err)
	}
	if err := s.UpdateSet(0, 0, 50, 3, nil, nil); err != nil {
		t.Fatalf("UpdateSet after refused commit: %v", err)
	}
	if _, err := s.Commit(t0.Add(time.Hour)); err != nil {
		t.Errorf("Commit after fix: %v", err)
	}
}

// TestCommitStampsFinishTime verifies a new workout keeps the draft's day but
// takes the clock time of the finish.
func TestCommitStampsFinishTime(t *testing.T) {
	s := New(t0)
	s.AddExercise("Bench")
	w, err := s.Commit(t0.Add(95 * time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if w.Date != "2024-03-01T19:35:00Z" {
		t.Errorf("Date = %q, want 2024-03-01T19:35:00Z", w.Date)
	}

	draft := New(t0).Snapshot()
	draft.Date = "2024-02-20"
	draft.Exercises = []models.Exercise{{Name: "Row", Sets: []models.SetData{{Weight: 40, Reps: 10}}}}
	w, err = Resume(draft).Commit(t0.Add(10 * time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if w.Date != "2024-02-20T18:10:00Z" {
		t.Errorf("backdated Date = %q, want 2024-02-20T18:10:00Z", w.Date)
	}
}
