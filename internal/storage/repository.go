package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/meltforce/gymtrack/internal/models"
)

// Repository reads and writes the typed datasets of a Store. Every read
// decodes a fresh snapshot; every mutation rewrites the whole dataset.
type Repository struct {
	store Store
	log   *slog.Logger
	mu    sync.Mutex // serialises read-modify-write cycles
}

// NewRepository wraps store.
func NewRepository(store Store, log *slog.Logger) *Repository {
	return &Repository{store: store, log: log}
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	return r.store.Close()
}

func load[T any](ctx context.Context, s Store, key string) ([]T, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}

// --- Workouts ---

// Workouts returns all workouts, newest first (storage order).
func (r *Repository) Workouts(ctx context.Context) ([]models.Workout, error) {
	return load[models.Workout](ctx, r.store, KeyWorkouts)
}

// Workout returns the workout with the given id.
func (r *Repository) Workout(ctx context.Context, id string) (*models.Workout, error) {
	workouts, err := r.Workouts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range workouts {
		if workouts[i].ID == id {
			return &workouts[i], nil
		}
	}
	return nil, fmt.Errorf("workout %s: %w", id, ErrNotFound)
}

// AddWorkout prepends a finished workout, assigning an id when it has none.
// Exercise names outside the built-in catalogue are remembered as custom exercises.
func (r *Repository) AddWorkout(ctx context.Context, w models.Workout) (models.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	workouts, err := load[models.Workout](ctx, r.store, KeyWorkouts)
	if err != nil {
		return w, err
	}
	for _, existing := range workouts {
		if existing.ID == w.ID {
			return w, fmt.Errorf("workout %s: %w", w.ID, ErrExists)
		}
	}
	workouts = append([]models.Workout{w}, workouts...)
	if err := save(ctx, r.store, KeyWorkouts, workouts); err != nil {
		return w, err
	}
	if err := r.rememberExercises(ctx, w); err != nil {
		return w, err
	}
	r.log.Info("workout saved", "id", w.ID, "exercises", len(w.Exercises))
	return w, nil
}

// UpdateWorkout replaces the workout with the same id in place.
func (r *Repository) UpdateWorkout(ctx context.Context, w models.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	workouts, err := load[models.Workout](ctx, r.store, KeyWorkouts)
	if err != nil {
		return err
	}
	found := false
	for i := range workouts {
		if workouts[i].ID == w.ID {
			workouts[i] = w
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("workout %s: %w", w.ID, ErrNotFound)
	}
	if err := save(ctx, r.store, KeyWorkouts, workouts); err != nil {
		return err
	}
	if err := r.rememberExercises(ctx, w); err != nil {
		return err
	}
	r.log.Info("workout updated", "id", w.ID)
	return nil
}

// ImportWorkouts merges externally sourced workouts into history. A workout
// whose id already exists replaces the stored one, so re-importing the same
// export reflects the latest parser output. The dataset is re-sorted newest first.
func (r *Repository) ImportWorkouts(ctx context.Context, incoming []models.Workout) (inserted, replaced int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	workouts, err := load[models.Workout](ctx, r.store, KeyWorkouts)
	if err != nil {
		return 0, 0, err
	}
	pos := make(map[string]int, len(workouts))
	for i, w := range workouts {
		pos[w.ID] = i
	}
	for _, w := range incoming {
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		if i, ok := pos[w.ID]; ok {
			workouts[i] = w
			replaced++
			continue
		}
		pos[w.ID] = len(workouts)
		workouts = append(workouts, w)
		inserted++
	}
	sort.SliceStable(workouts, func(i, j int) bool { return workouts[i].Date > workouts[j].Date })

	if err := save(ctx, r.store, KeyWorkouts, workouts); err != nil {
		return 0, 0, err
	}
	for _, w := range incoming {
		if err := r.rememberExercises(ctx, w); err != nil {
			return inserted, replaced, err
		}
	}
	r.log.Info("workouts imported", "inserted", inserted, "replaced", replaced)
	return inserted, replaced, nil
}

// DeleteWorkout removes the workout with the given id.
func (r *Repository) DeleteWorkout(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return deleteByID(ctx, r.store, KeyWorkouts, id, func(w models.Workout) string { return w.ID })
}

func deleteByID[T any](ctx context.Context, s Store, key, id string, idOf func(T) string) error {
	items, err := load[T](ctx, s, key)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if idOf(it) != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return fmt.Errorf("%s %s: %w", key, id, ErrNotFound)
	}
	return save(ctx, s, key, kept)
}

// --- Custom exercises ---

// CustomExercises returns the user-defined exercise names.
func (r *Repository) CustomExercises(ctx context.Context) ([]string, error) {
	return load[string](ctx, r.store, KeyCustomExercises)
}

// Exercises returns the full exercise catalogue, built-in plus custom, sorted.
func (r *Repository) Exercises(ctx context.Context) ([]string, error) {
	custom, err := r.CustomExercises(ctx)
	if err != nil {
		return nil, err
	}
	return models.ExerciseCatalog(custom), nil
}

// rememberExercises records exercise names the catalogue does not know yet.
// Caller holds r.mu.
func (r *Repository) rememberExercises(ctx context.Context, w models.Workout) error {
	custom, err := load[string](ctx, r.store, KeyCustomExercises)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(custom))
	for _, name := range custom {
		known[name] = true
	}
	added := 0
	for _, ex := range w.Exercises {
		if strings.TrimSpace(ex.Name) == "" || known[ex.Name] || models.IsBuiltinExercise(ex.Name) {
			continue
		}
		known[ex.Name] = true
		custom = append(custom, ex.Name)
		added++
	}
	if added == 0 {
		return nil
	}
	return save(ctx, r.store, KeyCustomExercises, custom)
}

// --- Routines ---

// Routines returns all routines in creation order.
func (r *Repository) Routines(ctx context.Context) ([]models.Routine, error) {
	return load[models.Routine](ctx, r.store, KeyRoutines)
}

// SaveRoutine replaces the routine with the same id, or appends it.
func (r *Repository) SaveRoutine(ctx context.Context, rt models.Routine) (models.Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	routines, err := load[models.Routine](ctx, r.store, KeyRoutines)
	if err != nil {
		return rt, err
	}
	replaced := false
	for i := range routines {
		if routines[i].ID == rt.ID {
			routines[i] = rt
			replaced = true
			break
		}
	}
	if !replaced {
		routines = append(routines, rt)
	}
	return rt, save(ctx, r.store, KeyRoutines, routines)
}

// AddRoutines appends routines, assigning ids where missing.
func (r *Repository) AddRoutines(ctx context.Context, add []models.Routine) ([]models.Routine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	routines, err := load[models.Routine](ctx, r.store, KeyRoutines)
	if err != nil {
		return nil, err
	}
	out := make([]models.Routine, 0, len(add))
	for _, rt := range add {
		if rt.ID == "" {
			rt.ID = uuid.NewString()
		}
		out = append(out, rt)
	}
	routines = append(routines, out...)
	if err := save(ctx, r.store, KeyRoutines, routines); err != nil {
		return nil, err
	}
	r.log.Info("routines added", "count", len(out))
	return out, nil
}

// DeleteRoutine removes the routine with the given id.
func (r *Repository) DeleteRoutine(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return deleteByID(ctx, r.store, KeyRoutines, id, func(rt models.Routine) string { return rt.ID })
}

// --- Body metrics ---

// BodyMetrics returns body-weight entries, newest first.
func (r *Repository) BodyMetrics(ctx context.Context) ([]models.BodyMetric, error) {
	return load[models.BodyMetric](ctx, r.store, KeyBodyMetrics)
}

// AddBodyMetric inserts an entry and keeps the dataset sorted newest first.
// Dates are compared as ISO-8601 strings.
func (r *Repository) AddBodyMetric(ctx context.Context, m models.BodyMetric) (models.BodyMetric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	metrics, err := load[models.BodyMetric](ctx, r.store, KeyBodyMetrics)
	if err != nil {
		return m, err
	}
	metrics = append([]models.BodyMetric{m}, metrics...)
	sort.SliceStable(metrics, func(i, j int) bool { return metrics[i].Date > metrics[j].Date })
	return m, save(ctx, r.store, KeyBodyMetrics, metrics)
}

// DeleteBodyMetric removes the entry with the given id.
func (r *Repository) DeleteBodyMetric(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return deleteByID(ctx, r.store, KeyBodyMetrics, id, func(m models.BodyMetric) string { return m.ID })
}

// --- Cardio ---

// CardioSessions returns cardio sessions, newest first.
func (r *Repository) CardioSessions(ctx context.Context) ([]models.CardioSession, error) {
	return load[models.CardioSession](ctx, r.store, KeyCardio)
}

// AddCardioSession prepends a cardio session.
func (r *Repository) AddCardioSession(ctx context.Context, c models.CardioSession) (models.CardioSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	sessions, err := load[models.CardioSession](ctx, r.store, KeyCardio)
	if err != nil {
		return c, err
	}
	sessions = append([]models.CardioSession{c}, sessions...)
	return c, save(ctx, r.store, KeyCardio, sessions)
}

// DeleteCardioSession removes the session with the given id.
func (r *Repository) DeleteCardioSession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return deleteByID(ctx, r.store, KeyCardio, id, func(c models.CardioSession) string { return c.ID })
}

// --- Active draft ---

// Draft returns the persisted in-progress workout, or nil when there is none.
func (r *Repository) Draft(ctx context.Context) (*models.Workout, error) {
	data, err := r.store.Get(ctx, KeyActiveDraft)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var w models.Workout
	if err := json.Unmarshal(data, &w); err != nil {
		// An unreadable draft is dropped, not reported.
		r.log.Warn("discarding unreadable draft", "error", err)
		return nil, nil
	}
	return &w, nil
}

// SaveDraft persists the in-progress workout.
func (r *Repository) SaveDraft(ctx context.Context, w models.Workout) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	return r.store.Put(ctx, KeyActiveDraft, data)
}

// ClearDraft removes the persisted draft.
func (r *Repository) ClearDraft(ctx context.Context) error {
	return r.store.Delete(ctx, KeyActiveDraft)
}

// --- Backup ---

// Backup returns every dataset as one document.
func (r *Repository) Backup(ctx context.Context) (*models.Backup, error) {
	var b models.Backup
	var err error
	if b.Workouts, err = r.Workouts(ctx); err != nil {
		return nil, err
	}
	if b.Routines, err = r.Routines(ctx); err != nil {
		return nil, err
	}
	if b.BodyMetrics, err = r.BodyMetrics(ctx); err != nil {
		return nil, err
	}
	if b.CardioSessions, err = r.CardioSessions(ctx); err != nil {
		return nil, err
	}
	if b.CustomExercises, err = r.CustomExercises(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

// Restore overwrites each dataset present in b. Datasets missing from the
// document (nil slices) are left untouched.
func (r *Repository) Restore(ctx context.Context, b *models.Backup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.Workouts != nil {
		if err := save(ctx, r.store, KeyWorkouts, b.Workouts); err != nil {
			return err
		}
	}
	if b.Routines != nil {
		if err := save(ctx, r.store, KeyRoutines, b.Routines); err != nil {
			return err
		}
	}
	if b.BodyMetrics != nil {
		if err := save(ctx, r.store, KeyBodyMetrics, b.BodyMetrics); err != nil {
			return err
		}
	}
	if b.CardioSessions != nil {
		if err := save(ctx, r.store, KeyCardio, b.CardioSessions); err != nil {
			return err
		}
	}
	if b.CustomExercises != nil {
		if err := save(ctx, r.store, KeyCustomExercises, b.CustomExercises); err != nil {
			return err
		}
	}
	r.log.Info("backup restored",
		"workouts", len(b.Workouts),
		"routines", len(b.Routines),
		"body_metrics", len(b.BodyMetrics),
		"cardio", len(b.CardioSessions),
	)
	return nil
}
