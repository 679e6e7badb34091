// Package dashboard serves the pqbench web dashboard: an embedded front
// end, the /benchmark WebSocket endpoint streaming live run progress, and
// the service's health and metrics endpoints.
package dashboard

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/ziflex/lecho/v3"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
	"github.com/pzverkov/pqbench/pkg/config"
	"github.com/pzverkov/pqbench/pkg/crypto"
	"github.com/pzverkov/pqbench/pkg/metrics"
	"github.com/pzverkov/pqbench/pkg/version"
)

// Server hosts the benchmark dashboard.
type Server struct {
	cfg       *config.Config
	echo      *echo.Echo
	log       zerolog.Logger
	collector *metrics.Collector
	health    *metrics.HealthCheck
}

// New assembles the dashboard server from its configuration. The returned
// server is ready to Run; no sockets are opened yet.
func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		log:       log,
		collector: metrics.NewCollector(metrics.Labels{"service": constants.ServiceName}),
	}

	s.health = metrics.NewHealthCheck(s.collector, version.String())
	s.health.AddCheck("crypto", func() error {
		if !crypto.SelfTestPassed() {
			return qerrors.ErrSelfTestFailed
		}
		return nil
	})

	index, err := assetsFS.ReadFile("assets/index.html")
	if err != nil {
		return nil, errors.Wrap(err, "loading embedded index")
	}
	staticFiles, err := fs.Sub(assetsFS, "assets/static")
	if err != nil {
		return nil, errors.Wrap(err, "loading embedded static assets")
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger = lecho.From(log)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Server.ReadHeaderTimeout = 10 * time.Second

	e.GET("/", func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, index)
	})
	e.GET("/static/*", echo.WrapHandler(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFiles)))))
	e.GET("/benchmark", s.handleBenchmark)

	e.GET("/health", echo.WrapHandler(s.health.Handler()))
	e.GET("/healthz", echo.WrapHandler(s.health.LivenessHandler()))
	e.GET("/readyz", echo.WrapHandler(s.health.ReadinessHandler()))

	if cfg.Metrics.Enabled {
		exporter := metrics.NewPrometheusExporter(s.collector, cfg.Metrics.Namespace)
		e.GET("/metrics", echo.WrapHandler(exporter.Handler()))
	}

	s.echo = e
	return s, nil
}

// Collector returns the server's metrics collector.
func (s *Server) Collector() *metrics.Collector {
	return s.collector
}

// Handler returns the root HTTP handler, for mounting under another mux or
// serving from a test listener.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on the configured address and blocks until the server
// stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.log.Info().
		Str("addr", s.cfg.Addr()).
		Str("version", version.String()).
		Msg("dashboard server listening")

	if err := s.echo.Start(s.cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "dashboard server")
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Dur("timeout", s.cfg.ShutdownTimeout).Msg("shutting down dashboard server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	return <-errCh
}
