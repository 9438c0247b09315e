package api

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/dgallion1/rulerag/internal/config"
	"github.com/dgallion1/rulerag/internal/pipeline"
	"github.com/dgallion1/rulerag/internal/retriever"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API for rulebook retrieval.
type Server struct {
	router    chi.Router
	retr      atomic.Pointer[retriever.Retriever]
	reindexer *pipeline.Reindexer
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server. retr may be nil when no
// index snapshot exists yet; query endpoints report 503 until a reindex
// completes.
func NewServer(retr *retriever.Retriever, reindexer *pipeline.Reindexer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		reindexer: reindexer,
		log:       log,
		cfg:       cfg,
	}
	if retr != nil {
		s.retr.Store(retr)
	}
	s.setupRoutes()
	return s
}

// SetRetriever swaps in a retriever over a freshly built index. Safe to call
// while requests are in flight.
func (s *Server) SetRetriever(r *retriever.Retriever) {
	s.retr.Store(r)
}

func (s *Server) retriever() *retriever.Retriever {
	return s.retr.Load()
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
		r.Use(AuthMiddleware(s.cfg.ServiceAPIKey, s.log))

		r.Post("/api/query", s.handleQuery)
		r.Get("/api/rules/{ruleID}", s.handleRule)
		r.Get("/api/stats", s.handleStats)

		r.Get("/api/formulas", s.handleListFormulas)
		r.Post("/api/formulas/evaluate", s.handleEvaluateFormula)

		r.Post("/api/reindex", s.handleReindex)
		r.Get("/api/reindex/{jobID}", s.handleReindexStatus)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
