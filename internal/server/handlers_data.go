package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/meltforce/gymtrack/internal/export"
	"github.com/meltforce/gymtrack/internal/generator"
	"github.com/meltforce/gymtrack/internal/models"
)

func (s *Server) handleExportWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.repo.Workouts(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	var buf bytes.Buffer
	if _, err := export.WriteWorkoutsCSV(&buf, workouts); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", "gymtrack_workouts.csv", buf.Bytes())
}

func (s *Server) handleExportMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.repo.BodyMetrics(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	var buf bytes.Buffer
	if _, err := export.WriteMetricsCSV(&buf, metrics); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", "gymtrack_body_metrics.csv", buf.Bytes())
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := s.repo.Backup(r.Context())
	if err != nil {
		s.storageError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteBackup(&buf, backup); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeAttachment(w, "application/json", export.BackupFilename(time.Now()), buf.Bytes())
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := export.ReadBackup(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.validate.Struct(backup); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.repo.Restore(r.Context(), backup); err != nil {
		s.storageError(w, err)
		return
	}
	s.log.Info("backup imported", "user", userInfoFromContext(r).Login)
	writeJSON(w, http.StatusOK, map[string]int{
		"workouts":         len(backup.Workouts),
		"routines":         len(backup.Routines),
		"body_metrics":     len(backup.BodyMetrics),
		"cardio_sessions":  len(backup.CardioSessions),
		"custom_exercises": len(backup.CustomExercises),
	})
}

func (s *Server) handleImportAlpha(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := s.alpha.Ingest(r.Context(), r.Body)
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.log.Info("alpha import", "duration_ms", time.Since(start).Milliseconds())
	writeJSON(w, http.StatusOK, result)
}

type generateResponse struct {
	Name     string           `json:"name"`
	Routines []models.Routine `json:"routines"`
}

func (s *Server) handleGenerateRoutines(w http.ResponseWriter, r *http.Request) {
	var req generator.Request
	if !s.decode(w, r, &req) {
		return
	}

	switch res := s.gen.Generate(r.Context(), req).(type) {
	case generator.Success:
		saved, err := s.repo.AddRoutines(r.Context(), res.Routines)
		if err != nil {
			s.storageError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, generateResponse{Name: res.Name, Routines: saved})
	case generator.Failure:
		status := http.StatusBadGateway
		if errors.Is(res, generator.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]string{"error": res.Error()})
	default:
		s.log.Error("unexpected generator result", "type", fmt.Sprintf("%T", res))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "generator returned no result"})
	}
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
