// Package bench runs handshake benchmarks and aggregates their results.
//
// A run executes the configured modes strictly in order, performing 50
// handshake iterations per mode against a fresh in-process loopback
// responder each time. Iterations are sequential so samples never contend
// with each other; the network model inflates each raw measurement instead
// of slowing the run down.
package bench

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
	"github.com/pzverkov/pqbench/pkg/handshake"
	"github.com/pzverkov/pqbench/pkg/metrics"
)

// ProgressFunc is invoked after every completed handshake iteration.
// iteration is 1-based and total is the per-mode iteration count.
type ProgressFunc func(mode constants.Mode, iteration, total int)

// Runner executes benchmark runs for one configuration.
type Runner struct {
	cfg       RunConfig
	netem     *Netem
	progress  ProgressFunc
	log       zerolog.Logger
	collector *metrics.Collector
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress registers a per-iteration progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.progress = fn }
}

// WithLogger sets the runner's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithCollector wires run and handshake counters into a metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(r *Runner) { r.collector = c }
}

// NewRunner creates a Runner for cfg. The configuration should come from
// NewRunConfig so modes are normalized and parameters clamped.
func NewRunner(cfg RunConfig, opts ...Option) *Runner {
	r := &Runner{
		cfg:   cfg,
		netem: NewNetem(cfg.LatencyMS, cfg.PacketLossPercent),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the full benchmark and returns its results.
//
// Modes run in the configured order; a failed handshake aborts the whole
// run. Cancelling ctx aborts between iterations with ErrRunAborted.
func (r *Runner) Run(ctx context.Context) (*Results, error) {
	runID := uuid.NewString()
	log := r.log.With().Str("run_id", runID).Logger()

	ctx, endRun := metrics.GetTracer().StartSpan(ctx, metrics.SpanBenchmarkRun,
		metrics.WithAttribute("modes", strings.Join(r.cfg.ModeNames(), ",")))

	var runErr error
	defer func() { endRun(runErr) }()

	if r.collector != nil {
		r.collector.RecordRunStart()
	}

	log.Info().
		Strs("modes", r.cfg.ModeNames()).
		Float64("latency_ms", r.cfg.LatencyMS).
		Float64("packet_loss_percent", r.cfg.PacketLossPercent).
		Int("iterations_per_mode", constants.IterationsPerMode).
		Msg("benchmark run started")

	started := time.Now()
	results := newResults(runID, r.cfg)

	for _, mode := range r.cfg.Modes {
		samples, err := r.runMode(ctx, mode)
		if err != nil {
			runErr = err
			if r.collector != nil {
				r.collector.RecordRunFailure()
			}
			log.Error().Err(err).Str("mode", string(mode)).Msg("benchmark run failed")
			return nil, err
		}
		results.record(mode, samples)

		log.Info().
			Str("mode", string(mode)).
			Float64("mean_ms", results.HandshakeTimeMS[string(mode)]).
			Msg("mode completed")
	}

	if r.collector != nil {
		r.collector.RecordRunComplete()
	}
	log.Info().Dur("elapsed", time.Since(started)).Msg("benchmark run completed")

	return results, nil
}

func (r *Runner) runMode(ctx context.Context, mode constants.Mode) ([]float64, error) {
	ctx, endMode := metrics.GetTracer().StartSpan(ctx, metrics.SpanBenchmarkMode,
		metrics.WithAttribute("mode", string(mode)))

	var modeErr error
	defer func() { endMode(modeErr) }()

	samples := make([]float64, 0, constants.IterationsPerMode)
	for i := 1; i <= constants.IterationsPerMode; i++ {
		if err := ctx.Err(); err != nil {
			modeErr = errors.Wrapf(qerrors.ErrRunAborted, "%s mode at iteration %d", mode, i)
			return nil, modeErr
		}

		_, endHandshake := metrics.GetTracer().StartSpan(ctx, metrics.SpanHandshake,
			metrics.WithAttribute("mode", string(mode)))
		measured, err := r.measureOnce(mode)
		endHandshake(err)
		if err != nil {
			if r.collector != nil {
				r.collector.RecordHandshakeFailure(string(mode))
			}
			modeErr = errors.Wrapf(err, "%s handshake %d/%d", mode, i, constants.IterationsPerMode)
			return nil, modeErr
		}

		adjusted := r.netem.Apply(measured)
		samples = append(samples, adjusted)

		if r.collector != nil {
			r.collector.RecordHandshake(string(mode), adjusted)
		}
		if r.progress != nil {
			r.progress(mode, i, constants.IterationsPerMode)
		}
	}

	return samples, nil
}

// measureOnce times a single connect-handshake-disconnect cycle against a
// fresh loopback responder and returns the elapsed wall time in
// milliseconds. Responder setup happens before the clock starts.
func (r *Runner) measureOnce(mode constants.Mode) (float64, error) {
	lb, err := handshake.StartLoopback(mode)
	if err != nil {
		return 0, err
	}
	defer lb.Close()

	start := time.Now()
	sess, err := handshake.Dial(lb.Addr(), mode)
	if err != nil {
		return 0, err
	}
	sess.Close()

	return float64(time.Since(start)) / float64(time.Millisecond), nil
}
