// netem.go models an impaired network on top of loopback measurements.
//
// Handshakes run over loopback TCP, so the raw measurement captures
// cryptographic cost with near-zero transport cost. The network model then
// inflates each sample the way a lossy WAN link would:
//
//	adjusted = measured + latency
//	if loss > 0:
//	    adjusted *= 1 + loss/100          (retransmission overhead)
//	    adjusted += uniform(0, adjusted * loss/500)  (loss-correlated jitter)
//
// The penalty is applied to the sample, not injected as real sleeps, so a
// 50-iteration run over a simulated 200 ms link still finishes in seconds.
package bench

import (
	"math/rand/v2"
)

// Netem applies a latency and packet-loss penalty to measured samples.
type Netem struct {
	latencyMS   float64
	lossPercent float64

	// jitter returns a uniform draw in [0, bound). Replaced in tests.
	jitter func(bound float64) float64
}

// NewNetem creates a network model. Zero values mean an ideal network and
// leave samples untouched except for the added latency.
func NewNetem(latencyMS, lossPercent float64) *Netem {
	return &Netem{
		latencyMS:   latencyMS,
		lossPercent: lossPercent,
		jitter:      uniformJitter,
	}
}

// Apply returns the sample in milliseconds after the network penalty.
func (n *Netem) Apply(measuredMS float64) float64 {
	adjusted := measuredMS
	if n.latencyMS > 0 {
		adjusted += n.latencyMS
	}

	if n.lossPercent > 0 {
		adjusted *= 1 + n.lossPercent/100
		adjusted += n.jitter(adjusted * n.lossPercent / 500)
	}

	return adjusted
}

func uniformJitter(bound float64) float64 {
	if bound <= 0 {
		return 0
	}
	return rand.Float64() * bound
}
