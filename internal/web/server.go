// Package web provides the HTTP server and handlers for the roster editor.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/ingest"
	"github.com/JonMunkholm/roster/internal/session"
	mw "github.com/JonMunkholm/roster/internal/web/middleware"
)

// Server is the HTTP host for editor sessions.
type Server struct {
	cfg      *config.Config
	sessions *session.Store
	loads    *session.LoadLimiter
	parser   *ingest.Parser

	router   *chi.Mux
	server   *http.Server
	limiters []*rateLimiter
}

// NewServer creates a Server over the given sessions and load limiter.
func NewServer(cfg *config.Config, sessions *session.Store, loads *session.LoadLimiter) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		loads:    loads,
		parser:   ingest.NewParser(ingest.Options{MaxRecords: cfg.Editor.MaxRecords}),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	auth := mw.APIKeyAuth(&s.cfg.Security)

	// Pages. The editor flow shares the /api key check.
	s.router.Get("/", s.handleLanding)
	s.router.Group(func(r chi.Router) {
		r.Use(auth)
		r.Post("/editor", s.handleCreateFromForm)
		r.Route("/editor/{sessionID}", func(r chi.Router) {
			r.Use(s.withEditor)
			r.Get("/", s.handleEditorPage)
			r.Get("/table", s.handleEditorTable)
		})
	})

	uploadLimit := func(next http.Handler) http.Handler { return next }
	if s.cfg.Rate.Enabled {
		uploadLimit = s.newRateLimiter(s.cfg.Rate.UploadLimit, time.Minute).middleware
	}

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth)

		r.With(uploadLimit).Post("/sessions", s.handleCreateSession)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Use(s.withEditor)

			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/records", s.handleListRecords)
			r.Get("/export", s.handleExport)
			r.With(uploadLimit).Post("/load", s.handleLoad)

			// Editor actions
			r.Post("/cells", s.handleUpdateCell)
			r.Post("/page", s.handleSetPage)
			r.Post("/rows/{rowID}/toggle", s.handleToggleRow)
			r.Post("/select-page", s.handleSelectPage)
			r.Post("/deselect-all", s.handleDeselectAll)

			// Commits
			r.Post("/rows/{rowID}/commit", s.handleCommitRow)
			r.Post("/commit-selected", s.handleCommitSelected)
		})
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
		"loads":    s.loads.Status(),
	})
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// The editor page carries one inline script and inline styles
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
