package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/pcontainer/internal/command"
	"github.com/me/pcontainer/internal/config"
	"github.com/me/pcontainer/internal/scheduler"
	"github.com/me/pcontainer/internal/store"
)

// Version is reported by the health and discovery endpoints.
const Version = "0.1.0"

// Server is the pcontainer REST API server.
type Server struct {
	router       chi.Router
	logger       *slog.Logger
	config       config.ServerConfig
	startTime    time.Time
	scheduler    *scheduler.Scheduler
	dispatcher   *command.Dispatcher
	journal      store.Journal // optional; /events answers an empty list without it
	pollInterval time.Duration
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithJournal sets the event journal served by /events.
func WithJournal(j store.Journal) Option {
	return func(s *Server) {
		s.journal = j
	}
}

// WithPollInterval sets how often container watchers re-read the snapshot.
func WithPollInterval(d time.Duration) Option {
	return func(s *Server) {
		s.pollInterval = d
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, sched *scheduler.Scheduler, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		logger:       logger.With("component", "server"),
		config:       cfg,
		startTime:    time.Now(),
		scheduler:    sched,
		dispatcher:   command.NewDispatcher(sched, logger),
		pollInterval: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		// Discovery
		r.Get("/", s.handleDiscovery)

		// Health
		r.Get("/health", s.handleHealth)

		// Verbs. JOIN and YIELD hold the request open while the caller is queued.
		r.Group(func(r chi.Router) {
			r.Use(callerMiddleware)
			r.Post("/commands", s.handleCommand)
			r.Post("/containers/{cid}/join", s.handleJoin)
			r.Post("/yield", s.handleYield)
			r.Post("/leave", s.handleLeave)
		})

		// Containers
		r.Route("/containers", func(r chi.Router) {
			r.Get("/", s.handleListContainers)
			r.Get("/{cid}", s.handleGetContainer)
		})

		// Journal
		r.Get("/events", s.handleListEvents)

		// SSE endpoints for real-time updates
		r.Route("/sse", func(r chi.Router) {
			r.Get("/containers/{cid}", s.handleSSEContainer)
		})
	})
}
