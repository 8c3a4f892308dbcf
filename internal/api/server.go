package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/domrows/internal/config"
	"github.com/dgallion1/domrows/internal/convert"
	"github.com/dgallion1/domrows/internal/pipeline"
	"github.com/dgallion1/domrows/internal/rowstore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for domrows.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	conv         *convert.Converter
	store        *rowstore.Store
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, store *rowstore.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		conv:         orch.Converter(),
		store:        store,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/linearize", s.handleLinearize)
		r.Post("/api/build", s.handleBuild)

		r.Post("/api/jobs", s.handleSubmitJobs)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/result", s.handleJobResult)

		r.Get("/api/rowsets", s.handleListRowSets)
		r.Get("/api/rowsets/{name}", s.handleGetRowSet)
		r.Get("/api/rowsets/{name}/html", s.handleRowSetHTML)
		r.Delete("/api/rowsets/{name}", s.handleDeleteRowSet)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
