package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/meltforce/gymtrack/internal/generator"
	"github.com/meltforce/gymtrack/internal/ingest/alpha"
	"github.com/meltforce/gymtrack/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	repo     *storage.Repository
	alpha    *alpha.Provider
	gen      generator.Generator
	log      *slog.Logger
	apiKey   string
	whois    WhoIsClient
	mcp      http.Handler
	validate *validator.Validate
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(repo *storage.Repository, alphaProvider *alpha.Provider, gen generator.Generator, apiKey string, log *slog.Logger) *Server {
	if gen == nil {
		gen = generator.Disabled{}
	}
	s := &Server{
		repo:     repo,
		alpha:    alphaProvider,
		gen:      gen,
		log:      log,
		apiKey:   apiKey,
		validate: validator.New(),
	}
	s.router = s.routes()
	return s
}

// SetTailscale enables tailnet identity resolution. It must be called
// before the server starts serving.
func (s *Server) SetTailscale(client WhoIsClient) {
	s.whois = client
	s.router = s.routes()
}

// SetMCP mounts an MCP handler at /mcp. Like SetTailscale it must be
// called before serving.
func (s *Server) SetMCP(h http.Handler) {
	s.mcp = h
	s.router = s.routes()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	if s.whois != nil {
		r.Use(TailscaleIdentity(s.whois, s.log))
	} else {
		r.Use(DevIdentity)
	}
	r.Use(RequestLogging(s.log))
	r.Use(CORS)

	if s.mcp != nil {
		r.Handle("/mcp", s.mcp)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		// Reads
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/routines", s.handleListRoutines)
		r.Get("/metrics", s.handleListMetrics)
		r.Get("/cardio", s.handleListCardio)
		r.Get("/exercises", s.handleListExercises)
		r.Get("/draft", s.handleGetDraft)

		// Analytics
		r.Get("/prs", s.handleAllPRs)
		r.Get("/prs/recent", s.handleRecentPRs)
		r.Get("/exercises/best", s.handleBestSet)
		r.Get("/exercises/series", s.handleSeries)
		r.Get("/progress", s.handleProgress)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/calendar/{day}", s.handleCalendarDay)
		r.Get("/dashboard", s.handleDashboard)

		// Export
		r.Get("/export/workouts.csv", s.handleExportWorkouts)
		r.Get("/export/metrics.csv", s.handleExportMetrics)
		r.Get("/export/backup.json", s.handleExportBackup)

		// Mutations (API key required when configured)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))

			r.Post("/workouts", s.handleCreateWorkout)
			r.Put("/workouts/{id}", s.handleUpdateWorkout)
			r.Delete("/workouts/{id}", s.handleDeleteWorkout)

			r.Post("/routines", s.handleSaveRoutine)
			r.Post("/routines/generate", s.handleGenerateRoutines)
			r.Delete("/routines/{id}", s.handleDeleteRoutine)

			r.Post("/metrics", s.handleCreateMetric)
			r.Delete("/metrics/{id}", s.handleDeleteMetric)
			r.Post("/cardio", s.handleCreateCardio)
			r.Delete("/cardio/{id}", s.handleDeleteCardio)

			r.Put("/draft", s.handleSaveDraft)
			r.Delete("/draft", s.handleClearDraft)
			r.Post("/draft/start", s.handleStartDraft)
			r.Post("/draft/commit", s.handleCommitDraft)
			r.Post("/workouts/{id}/edit", s.handleEditWorkout)

			r.Post("/import/backup", s.handleImportBackup)
			r.Post("/import/alpha", s.handleImportAlpha)
		})
	})
	return r
}
