package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/storage"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

// --- Workouts ---

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.repo.Workouts(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n >= 0 && n < len(workouts) {
			workouts = workouts[:n]
		}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	wk, err := s.repo.Workout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var wk models.Workout
	if !s.decode(w, r, &wk) {
		return
	}
	saved, err := s.repo.AddWorkout(r.Context(), wk)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	var wk models.Workout
	if !s.decode(w, r, &wk) {
		return
	}
	wk.ID = chi.URLParam(r, "id")
	if err := s.repo.UpdateWorkout(r.Context(), wk); err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteWorkout(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Routines ---

func (s *Server) handleListRoutines(w http.ResponseWriter, r *http.Request) {
	routines, err := s.repo.Routines(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routines)
}

func (s *Server) handleSaveRoutine(w http.ResponseWriter, r *http.Request) {
	var rt models.Routine
	if !s.decode(w, r, &rt) {
		return
	}
	saved, err := s.repo.SaveRoutine(r.Context(), rt)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteRoutine(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteRoutine(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Body metrics and cardio ---

func (s *Server) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.repo.BodyMetrics(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleCreateMetric(w http.ResponseWriter, r *http.Request) {
	var m models.BodyMetric
	if !s.decode(w, r, &m) {
		return
	}
	saved, err := s.repo.AddBodyMetric(r.Context(), m)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteMetric(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteBodyMetric(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCardio(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.repo.CardioSessions(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleCreateCardio(w http.ResponseWriter, r *http.Request) {
	var c models.CardioSession
	if !s.decode(w, r, &c) {
		return
	}
	saved, err := s.repo.AddCardioSession(r.Context(), c)
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteCardio(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteCardioSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	names, err := s.repo.Exercises(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// --- Draft ---

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.repo.Draft(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	if draft == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no draft"})
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var wk models.Workout
	if !s.decode(w, r, &wk) {
		return
	}
	if err := s.repo.SaveDraft(r.Context(), wk); err != nil {
		s.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.ClearDraft(r.Context()); err != nil {
		s.storageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

// decode reads a JSON body into v and validates it. It writes a 400 and
// returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

// storageError maps repository errors to a status code.
func (s *Server) storageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, storage.ErrExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	s.log.Error("storage error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
