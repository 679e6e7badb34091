package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pzverkov/pqbench/internal/constants"
	"github.com/pzverkov/pqbench/pkg/config"
	"github.com/pzverkov/pqbench/pkg/dashboard"
	"github.com/pzverkov/pqbench/pkg/metrics"
)

// NewServeCmd starts the benchmark dashboard server.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the benchmark dashboard server",
		Long: `Serve the browser dashboard and its /benchmark WebSocket endpoint.

Configuration is read from pqbench.yaml (or the file named by --config)
and PQBENCH_* environment variables.`,
		RunE: runServe,
	}

	cmd.Flags().StringP("config", "c", "", "Path to config file (default: search pqbench.yaml)")
	cmd.Flags().String("tracing", "none", "Tracing backend: none, simple, or otel")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	tracing, err := cmd.Flags().GetString("tracing")
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := setupTracer(tracing); err != nil {
		return err
	}

	log := newLogger(cfg)

	srv, err := dashboard.New(cfg, log)
	if err != nil {
		return err
	}
	metrics.SetGlobal(srv.Collector())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

// setupTracer installs the requested tracing backend.
func setupTracer(mode string) error {
	switch strings.ToLower(mode) {
	case "none":
		metrics.SetTracer(metrics.NoOpTracer{})
	case "simple":
		metrics.SetTracer(metrics.NewSimpleTracer())
	case "otel":
		if !metrics.OTelEnabled() {
			return errors.New("otel tracing not enabled (build with -tags otel)")
		}
		metrics.SetTracer(metrics.NewOTelTracer(constants.ServiceName))
	default:
		return errors.Errorf("invalid tracing mode: %s (use none, simple, or otel)", mode)
	}
	return nil
}

// newLogger builds the service logger. The console format is for humans
// at a terminal, json for log shippers.
func newLogger(cfg *config.Config) zerolog.Logger {
	log := zerolog.New(os.Stderr)
	if cfg.LogFormat == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return log.Level(cfg.Level()).With().Timestamp().Logger()
}
