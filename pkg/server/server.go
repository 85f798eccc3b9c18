// Package server hosts the web surface. Every page load gets its own
// controller session; the embedded page script drives it through a small
// JSON API and listens for schema reloads on an event stream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-urlform/internal/logging"
	"github.com/goliatone/go-urlform/pkg/render"
	"github.com/goliatone/go-urlform/pkg/renderers/jsonframe"
	"github.com/goliatone/go-urlform/pkg/renderers/web"
	"github.com/goliatone/go-urlform/pkg/schema"
)

// Defaults applied by New.
const (
	DefaultMaxSessions    = 256
	DefaultRequestTimeout = 10 * time.Second
	AssetsPath            = "/assets"
	EventsPath            = "/events"
	SessionsPath          = "/api/sessions"
)

// ErrNoSchema is returned by New without a schema.
var ErrNoSchema = errors.New("server: schema is required")

// Server is the HTTP host.
type Server struct {
	current  atomic.Pointer[schema.Schema]
	watching atomic.Bool

	logger         *slog.Logger
	renderers      *render.Registry
	themes         *render.ThemeSet
	themeName      string
	themeVariant   string
	locale         string
	translator     render.Translator
	maxSessions    int
	livePreview    bool
	pageAddress    string
	requestTimeout time.Duration

	sessions *sessionStore
	events   *broker
	router   chi.Router

	closing   chan struct{}
	closeOnce sync.Once
}

// New builds a server for sch.
func New(sch *schema.Schema, options ...Option) (*Server, error) {
	if sch == nil {
		return nil, ErrNoSchema
	}
	s := &Server{
		logger:         logging.Discard(),
		themes:         render.NewThemeSet(),
		locale:         render.DefaultLocale,
		maxSessions:    DefaultMaxSessions,
		livePreview:    true,
		pageAddress:    "http://localhost/",
		requestTimeout: DefaultRequestTimeout,
		events:         newBroker(),
		closing:        make(chan struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.renderers == nil {
		registry, err := defaultRegistry()
		if err != nil {
			return nil, err
		}
		s.renderers = registry
	}
	if _, err := s.themes.Select(s.themeName, s.themeVariant); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.sessions = newSessionStore(s.maxSessions)
	s.current.Store(sch)
	s.router = s.routes()
	return s, nil
}

func defaultRegistry() (*render.Registry, error) {
	page, err := web.New(web.WithAPIPrefix(SessionsPath), web.WithEventsPath(EventsPath))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(page)
	registry.MustRegister(jsonframe.New())
	return registry, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get(EventsPath, s.handleEvents)
	r.Handle(AssetsPath+"/*", http.StripPrefix(AssetsPath+"/", http.FileServer(http.FS(web.AssetsFS()))))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(s.requestTimeout))
		r.Get("/schema", s.handleSchema)
		r.Get("/compile", s.handleCompile)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sid}", func(r chi.Router) {
				r.Use(s.withSession)
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Put("/fields/{id}", s.handleEditField)
				r.Put("/base", s.handleEditBase)
				r.Put("/live", s.handleLive)
				r.Post("/reset", s.handleReset)
				r.Post("/preview", s.handlePreview)
			})
		})
	})
	return r
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Schema returns the schema new sessions start from.
func (s *Server) Schema() *schema.Schema {
	return s.current.Load()
}

// SetSchema swaps the schema for new sessions and notifies open pages.
// Existing sessions keep the schema they were created with.
func (s *Server) SetSchema(sch *schema.Schema) {
	if sch == nil {
		return
	}
	s.current.Store(sch)
	notice, _ := json.Marshal(map[string]any{
		"title":  sch.Title(),
		"fields": len(sch.Fields()),
	})
	s.events.publish(string(notice))
	s.logger.Info("schema reloaded",
		"title", sch.Title(),
		"fields", len(sch.Fields()),
		"subscribers", s.events.count(),
	)
	for _, warning := range sch.Lint() {
		s.logger.Warn("schema lint", "warning", warning.String())
	}
}

// ListenAndServe serves on addr until ctx ends, then shuts down within
// grace. Event streams are closed first so shutdown does not wait on them.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(s.closeStreams)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr, "schema", s.Schema().Title())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	s.logger.Info("shutting down", "grace", grace)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) closeStreams() {
	s.closeOnce.Do(func() { close(s.closing) })
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Warn("request failed", attrs...)
			return
		}
		s.logger.Debug("request", attrs...)
	})
}
