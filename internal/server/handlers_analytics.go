package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/gymtrack/internal/analytics"
	"github.com/meltforce/gymtrack/internal/models"
	"golang.org/x/sync/errgroup"
)

func (s *Server) handleRecentPRs(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.repo.Workouts(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.RecentPRs(workouts))
}

func (s *Server) handleAllPRs(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.repo.Workouts(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.AllPRs(workouts))
}

type bestSetResponse struct {
	Exercise string             `json:"exercise"`
	Best     *analytics.BestSet `json:"best"`
	Display  string             `json:"display,omitempty"`
}

func (s *Server) handleBestSet(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return
	}
	workouts, err := s.repo.Workouts(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	resp := bestSetResponse{Exercise: name}
	if best, ok := analytics.BestSetFor(name, workouts); ok {
		resp.Best = &best
		resp.Display = best.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return
	}
	workouts, err := s.repo.Workouts(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.ExerciseSeries{
		Exercise: name,
		Points:   analytics.SeriesFor(name, workouts),
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	minPoints := analytics.MinChartPoints
	if v := r.URL.Query().Get("min_points"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "min_points must be a non-negative integer"})
			return
		}
		minPoints = n
	}
	workouts, routines, err := s.snapshot(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics.Progress(routines, workouts, minPoints))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	month := time.Now()
	if v := r.URL.Query().Get("month"); v != "" {
		t, err := time.Parse("2006-01", v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be YYYY-MM"})
			return
		}
		month = t
	}
	workouts, err := s.repo.Workouts(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	index := analytics.IndexByDate(workouts)
	writeJSON(w, http.StatusOK, analytics.MonthDays(index, month.Year(), month.Month()))
}

func (s *Server) handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	if _, err := time.Parse("2006-01-02", day); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day must be YYYY-MM-DD"})
		return
	}
	workouts, err := s.repo.Workouts(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	matched := analytics.IndexByDate(workouts)[day]
	if matched == nil {
		matched = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, matched)
}

// Dashboard is the home screen summary.
type Dashboard struct {
	TotalWorkouts  int                     `json:"total_workouts"`
	LastWorkout    *models.Workout         `json:"last_workout"`
	LatestWeight   *models.BodyMetric      `json:"latest_weight"`
	RecentPRs      []analytics.RecentPR    `json:"recent_prs"`
	Calendar       []analytics.CalendarDay `json:"calendar"`
	Grouping       analytics.Grouping      `json:"grouping"`
	Routines       []models.Routine        `json:"routines"`
	HasActiveDraft bool                    `json:"has_active_draft"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		workouts []models.Workout
		routines []models.Routine
		metrics  []models.BodyMetric
		draft    *models.Workout
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { workouts, err = s.repo.Workouts(gctx); return })
	g.Go(func() (err error) { routines, err = s.repo.Routines(gctx); return })
	g.Go(func() (err error) { metrics, err = s.repo.BodyMetrics(gctx); return })
	g.Go(func() (err error) { draft, err = s.repo.Draft(gctx); return })
	if err := g.Wait(); err != nil {
		s.storageError(w, err)
		return
	}

	d := Dashboard{
		TotalWorkouts:  len(workouts),
		Routines:       routines,
		HasActiveDraft: draft != nil,
	}
	if len(workouts) > 0 {
		d.LastWorkout = &workouts[0]
	}
	if len(metrics) > 0 {
		d.LatestWeight = &metrics[0]
	}

	// The analytics functions only read the snapshot, so they share it.
	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); d.RecentPRs = analytics.RecentPRs(workouts) }()
	go func() {
		defer wg.Done()
		d.Calendar = analytics.MonthDays(analytics.IndexByDate(workouts), now.Year(), now.Month())
	}()
	go func() { defer wg.Done(); d.Grouping = analytics.GroupExercises(routines, workouts) }()
	wg.Wait()

	writeJSON(w, http.StatusOK, d)
}

// snapshot loads workouts and routines together.
func (s *Server) snapshot(ctx context.Context) ([]models.Workout, []models.Routine, error) {
	var (
		workouts []models.Workout
		routines []models.Routine
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { workouts, err = s.repo.Workouts(gctx); return })
	g.Go(func() (err error) { routines, err = s.repo.Routines(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return workouts, routines, nil
}
