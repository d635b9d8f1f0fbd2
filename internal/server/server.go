// Package server exposes models, builds and editing sessions over HTTP.
//
// # Routes
//
//	GET    /api/health
//	GET    /api/models                       list stored models
//	POST   /api/models                       import a document
//	GET    /api/models/{id}                  stored document
//	PUT    /api/models/{id}                  replace a document
//	DELETE /api/models/{id}
//	GET    /api/models/{id}/export           explore: scene (or ?format=) of a stored model
//	POST   /api/build                        document body → scene (or ?format=)
//	POST   /api/sessions                     open a session from a body or ?model=
//	GET    /api/sessions/{id}                generation, revision, expiry
//	DELETE /api/sessions/{id}
//	PUT    /api/sessions/{id}/document       replace the session graph
//	GET    /api/sessions/{id}/document
//	GET    /api/sessions/{id}/layout
//	GET    /api/sessions/{id}/scene
//	POST   /api/sessions/{id}/commands       one command or an array
//	POST   /api/sessions/{id}/save           store the session document
//
// Errors are JSON {"code", "message"} with the status given by [StatusOf].
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ievis/pkg/buildinfo"
	"github.com/matzehuels/ievis/pkg/pipeline"
	"github.com/matzehuels/ievis/pkg/session"
	"github.com/matzehuels/ievis/pkg/store"
)

// maxBody caps request bodies.
const maxBody = 32 << 20

// Config wires the server to its backends.
type Config struct {
	Store    store.Store
	Sessions session.Store
	Runner   *pipeline.Runner
	Defaults pipeline.Options // layout and export defaults
	TTL      time.Duration    // session lifetime, session.DefaultTTL when zero
	Logger   *log.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	if cfg.TTL <= 0 {
		cfg.TTL = session.DefaultTTL
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, logger: logger.WithPrefix("http")}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBody))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/models", func(r chi.Router) {
			r.Get("/", s.handleListModels)
			r.Post("/", s.handlePutModel)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetModel)
				r.Put("/", s.handlePutModel)
				r.Delete("/", s.handleDeleteModel)
				r.Get("/export", s.handleExploreModel)
			})
		})

		r.Post("/build", s.handleBuild)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Get("/document", s.handleSessionDocument)
				r.Put("/document", s.handleReloadSession)
				r.Get("/layout", s.handleSessionLayout)
				r.Get("/scene", s.handleSessionScene)
				r.Post("/commands", s.handleCommands)
				r.Post("/save", s.handleSaveSession)
			})
		})
	})
	return r
}

// logRequests logs one line per request with status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

// Run serves on addr until ctx is cancelled, sweeping expired sessions and
// cache entries on the janitor schedule (disabled when empty).
func (s *Server) Run(ctx context.Context, addr, janitor string) error {
	if janitor != "" {
		j, err := s.StartJanitor(janitor)
		if err != nil {
			return err
		}
		defer j.Stop()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"build":     buildinfo.Get(),
		"timestamp": time.Now().Unix(),
	})
}

func parsePositive(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("must be a positive number, got %v", v)
	}
	return f, nil
}
