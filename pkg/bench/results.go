// results.go defines the payload a completed run delivers to the dashboard.
package bench

import (
	"math"

	"github.com/pzverkov/pqbench/internal/constants"
)

// Results is the final payload of a benchmark run. Timing maps hold exactly
// the modes the run was configured with, keyed by wire name; the size maps
// always cover all modes so clients can chart sizes regardless of the
// selection.
type Results struct {
	RunID            string               `json:"run_id"`
	HandshakeTimeMS  map[string]float64   `json:"handshake_time_ms"`
	PublicKeyBytes   map[string]int       `json:"public_key_bytes"`
	SignatureBytes   map[string]int       `json:"signature_bytes"`
	HandshakeSamples map[string][]float64 `json:"handshake_samples"`
	Settings         Settings             `json:"settings"`
}

// Settings echoes the normalized run parameters back to the client.
type Settings struct {
	Modes             []string `json:"modes"`
	LatencyMS         float64  `json:"latency_ms"`
	PacketLossPercent float64  `json:"packet_loss_percent"`
	Iterations        int      `json:"iterations"`
}

func newResults(runID string, cfg RunConfig) *Results {
	r := &Results{
		RunID:            runID,
		HandshakeTimeMS:  make(map[string]float64, len(cfg.Modes)),
		PublicKeyBytes:   make(map[string]int, len(constants.AllModes())),
		SignatureBytes:   make(map[string]int, len(constants.AllModes())),
		HandshakeSamples: make(map[string][]float64, len(cfg.Modes)),
		Settings: Settings{
			Modes:             cfg.ModeNames(),
			LatencyMS:         cfg.LatencyMS,
			PacketLossPercent: cfg.PacketLossPercent,
			Iterations:        constants.IterationsPerMode,
		},
	}
	for _, mode := range constants.AllModes() {
		r.PublicKeyBytes[string(mode)] = mode.PublicKeySize()
		r.SignatureBytes[string(mode)] = mode.SignatureSize()
	}
	return r
}

// record stores one mode's finished series, with samples rounded to two
// decimal places for the wire.
func (r *Results) record(mode constants.Mode, samples []float64) {
	rounded := make([]float64, len(samples))
	for i, s := range samples {
		rounded[i] = roundMS(s)
	}

	key := string(mode)
	r.HandshakeTimeMS[key] = roundMS(Mean(samples))
	r.HandshakeSamples[key] = rounded
}

func roundMS(v float64) float64 {
	return math.Round(v*100) / 100
}
