// config.go defines and normalizes benchmark run parameters.
package bench

import (
	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// RunConfig holds the parameters of one benchmark run after normalization.
type RunConfig struct {
	// Modes to benchmark, in fixed execution order.
	Modes []constants.Mode

	// LatencyMS is the simulated one-way network latency added to every
	// handshake, in milliseconds.
	LatencyMS float64

	// PacketLossPercent drives the retransmission and jitter penalty.
	PacketLossPercent float64
}

// DefaultModes returns the modes benchmarked when a request names none.
func DefaultModes() []constants.Mode {
	return []constants.Mode{constants.ModeClassical, constants.ModePQC}
}

// NewRunConfig builds a normalized RunConfig from raw request values.
//
// Mode names are matched case-insensitively; unknown names are dropped and
// duplicates collapsed. The surviving modes always run in the fixed order
// classical, pqc, hybrid regardless of request order, so runs with the same
// mode set produce comparable progress streams.
//
// A nil modes slice means the caller omitted the field and gets the
// defaults. An explicit empty selection (or one that filters down to
// nothing) is an error.
func NewRunConfig(modes []string, latencyMS, packetLossPercent float64) (RunConfig, error) {
	cfg := RunConfig{
		LatencyMS:         clamp(latencyMS, 0, constants.MaxLatencyMS),
		PacketLossPercent: clamp(packetLossPercent, 0, constants.MaxPacketLossPercent),
	}

	if modes == nil {
		cfg.Modes = DefaultModes()
		return cfg, nil
	}

	requested := make(map[constants.Mode]bool, len(modes))
	for _, raw := range modes {
		if mode, ok := constants.ParseMode(raw); ok {
			requested[mode] = true
		}
	}

	for _, mode := range constants.AllModes() {
		if requested[mode] {
			cfg.Modes = append(cfg.Modes, mode)
		}
	}
	if len(cfg.Modes) == 0 {
		return RunConfig{}, qerrors.ErrNoModes
	}

	return cfg, nil
}

// ModeNames returns the configured modes as wire strings.
func (c RunConfig) ModeNames() []string {
	names := make([]string, len(c.Modes))
	for i, mode := range c.Modes {
		names[i] = string(mode)
	}
	return names
}

// TotalIterations returns the number of handshakes the run will perform.
func (c RunConfig) TotalIterations() int {
	return len(c.Modes) * constants.IterationsPerMode
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
