package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/gymtrack/internal/session"
	"github.com/meltforce/gymtrack/internal/storage"
)

type startDraftRequest struct {
	RoutineID string `json:"routine_id"`
}

// handleStartDraft opens a new logging session, empty or from a routine,
// and persists it as the active draft.
func (s *Server) handleStartDraft(w http.ResponseWriter, r *http.Request) {
	var req startDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if !s.noActiveDraft(w, r) {
		return
	}

	sess := session.New(time.Now())
	if req.RoutineID != "" {
		routines, err := s.repo.Routines(r.Context())
		if err != nil {
			s.storageError(w, err)
			return
		}
		found := false
		for _, rt := range routines {
			if rt.ID == req.RoutineID {
				sess = session.FromRoutine(rt, time.Now())
				found = true
				break
			}
		}
		if !found {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "routine " + req.RoutineID + " not found"})
			return
		}
	}

	draft := sess.Snapshot()
	if err := s.repo.SaveDraft(r.Context(), draft); err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, draft)
}

// handleEditWorkout copies a saved workout into the draft slot for correction.
func (s *Server) handleEditWorkout(w http.ResponseWriter, r *http.Request) {
	if !s.noActiveDraft(w, r) {
		return
	}
	wk, err := s.repo.Workout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.storageError(w, err)
		return
	}
	draft := session.Edit(*wk).Snapshot()
	if err := s.repo.SaveDraft(r.Context(), draft); err != nil {
		s.storageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// handleCommitDraft finishes the active draft. A draft whose id matches a
// saved workout replaces it; any other draft becomes a new workout.
func (s *Server) handleCommitDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	draft, err := s.repo.Draft(ctx)
	if err != nil {
		s.storageError(w, err)
		return
	}
	if draft == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no draft"})
		return
	}

	var sess *session.Session
	switch _, err := s.repo.Workout(ctx, draft.ID); {
	case err == nil:
		sess = session.Edit(*draft)
	case errors.Is(err, storage.ErrNotFound):
		sess = session.Resume(*draft)
	default:
		s.storageError(w, err)
		return
	}

	wk, err := sess.Commit(time.Now())
	if errors.Is(err, session.ErrEmptyWorkout) || errors.Is(err, session.ErrNegativeSet) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	status := http.StatusCreated
	if sess.Editing() {
		err = s.repo.UpdateWorkout(ctx, wk)
		status = http.StatusOK
	} else {
		wk, err = s.repo.AddWorkout(ctx, wk)
	}
	if err != nil {
		s.storageError(w, err)
		return
	}
	if err := s.repo.ClearDraft(ctx); err != nil {
		s.storageError(w, err)
		return
	}
	s.log.Info("workout committed", "id", wk.ID, "edited", sess.Editing(), "exercises", len(wk.Exercises))
	writeJSON(w, status, wk)
}

// noActiveDraft writes a 409 and returns false when a draft is already open.
func (s *Server) noActiveDraft(w http.ResponseWriter, r *http.Request) bool {
	draft, err := s.repo.Draft(r.Context())
	if err != nil {
		s.storageError(w, err)
		return false
	}
	if draft != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a draft is already active"})
		return false
	}
	return true
}
