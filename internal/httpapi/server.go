// Package httpapi maps the app registry and launcher onto a JSON HTTP API.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"appdeck/internal/launcher"
	"appdeck/internal/metrics"
	"appdeck/internal/registry"
)

type appRegistry interface {
	List() []registry.App
	Len() int
	Create(candidate registry.App) registry.App
	Update(id uuid.UUID, f registry.Fields) error
	Delete(id uuid.UUID) error
	Find(id uuid.UUID) (registry.App, bool)
}

type commandLauncher interface {
	Launch(ctx context.Context, commandLine string) (launcher.Result, error)
}

// Options configures a Server.
type Options struct {
	// StaticDir is served for every non-API path when it exists.
	StaticDir string
	Logger    *slog.Logger
	// Metrics is optional. When set, GET /metrics is served.
	Metrics *metrics.Metrics
	// Clock times launches. Defaults to the real clock.
	Clock clockwork.Clock
}

// Server is the HTTP front of the registry.
type Server struct {
	echo     *echo.Echo
	registry appRegistry
	launcher commandLauncher
	metrics  *metrics.Metrics
	clock    clockwork.Clock
	logger   *slog.Logger
}

// NewServer wires routes and middleware around reg and l.
func NewServer(reg appRegistry, l commandLauncher, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		registry: reg,
		launcher: l,
		metrics:  opts.Metrics,
		clock:    clock,
		logger:   logger.With("component", "http"),
	}
	s.metrics.SetApps(reg.Len())
	s.registerRoutes(opts.StaticDir)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.echo.Listener = ln
	s.logger.Info("Starting server", "addr", ln.Addr().String())
	if err := s.echo.Start(""); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
