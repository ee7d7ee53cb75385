// Package api serves the portfolio page and its JSON API.
package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/preference"
	"github.com/Zachkp/portfolio/internal/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

// SnapshotSource supplies the live metrics widget's values.
type SnapshotSource interface {
	Snapshot() metrics.Snapshot
}

// PreferenceStore hands out per-session preference storage.
type PreferenceStore interface {
	Scope(sessionID string) preference.KV
}

// EventTracker records client-reported interactions.
type EventTracker interface {
	Track(event analytics.Event)
}

// ContactSubmitter accepts contact form messages.
type ContactSubmitter interface {
	Submit(ctx context.Context, msg contact.Message) (contact.Receipt, error)
}

// StatsSource supplies the admin dashboard statistics.
type StatsSource interface {
	Stats(ctx context.Context) (*analytics.Stats, error)
}

// Pinger checks that storage is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies are the services the handlers call. Visits may be nil to
// disable visit tracking.
type Dependencies struct {
	Sessions    *view.Sessions
	Content     *content.Library
	Metrics     SnapshotSource
	Preferences PreferenceStore
	Events      EventTracker
	Contact     ContactSubmitter
	Stats       StatsSource
	Visits      *analytics.Visits
	DB          Pinger
	Log         logger.Logger
}

// Server is the HTTP server with lifecycle management.
type Server struct {
	cfg    config.ServerConfig
	router *gin.Engine
	http   *http.Server
	log    logger.Logger
	start  time.Time
}

// NewServer builds the router and HTTP server.
func NewServer(cfg config.ServerConfig, admin config.AdminConfig, retention time.Duration, deps Dependencies) (*Server, error) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	adminArea, err := newAdmin(admin, cfg.Debug, deps.Stats, deps.Visits, deps.Log)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(recoveryMiddleware(deps.Log))
	router.Use(loggerMiddleware(deps.Log))
	if deps.Visits != nil {
		router.Use(deps.Visits.Middleware(SessionID))
	}

	s := &Server{
		cfg:    cfg,
		router: router,
		log:    deps.Log,
		start:  time.Now(),
	}
	h := &handlers{deps: deps, retention: retention}
	s.registerRoutes(h, adminArea)

	s.http = &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// Router returns the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.log.Info("Starting HTTP server",
			logger.String("address", s.http.Addr),
			logger.String("service", s.cfg.Name),
			logger.String("version", s.cfg.Version),
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server stopped gracefully")
	return nil
}
