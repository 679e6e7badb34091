package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pzverkov/pqbench/internal/constants"
)

// Collector aggregates benchmark and dashboard metrics.
// All methods are safe for concurrent use.
type Collector struct {
	// Run metrics
	runsStarted   atomic.Uint64
	runsCompleted atomic.Uint64
	runsFailed    atomic.Uint64

	// Handshake metrics
	handshakesTotal   atomic.Uint64
	handshakeFailures atomic.Uint64

	// Dashboard connection metrics
	connectionsActive atomic.Uint64
	connectionsTotal  atomic.Uint64

	// Per-mode handshake latency. Keyed by mode wire name; populated at
	// construction so reads never need a lock.
	handshakeLatency map[string]*Histogram

	// Creation time for uptime tracking
	createdAt time.Time

	// Labels for this collector instance
	labels Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// HandshakeLatencyBuckets holds the histogram bounds for handshake duration
// in milliseconds. The lower bounds resolve loopback-speed handshakes, the
// upper ones runs with the full simulated latency and loss penalty.
var HandshakeLatencyBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500}

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}

	latency := make(map[string]*Histogram, len(constants.AllModes()))
	for _, mode := range constants.AllModes() {
		latency[string(mode)] = NewHistogram(HandshakeLatencyBuckets)
	}

	return &Collector{
		handshakeLatency: latency,
		createdAt:        time.Now(),
		labels:           labels,
	}
}

// --- Run Metrics ---

// RecordRunStart increments the started-runs counter.
func (c *Collector) RecordRunStart() {
	c.runsStarted.Add(1)
}

// RecordRunComplete increments the completed-runs counter.
func (c *Collector) RecordRunComplete() {
	c.runsCompleted.Add(1)
}

// RecordRunFailure increments the failed-runs counter.
func (c *Collector) RecordRunFailure() {
	c.runsFailed.Add(1)
}

// --- Handshake Metrics ---

// RecordHandshake records one completed handshake and its adjusted duration
// in milliseconds. Durations for unknown modes are counted but not bucketed.
func (c *Collector) RecordHandshake(mode string, durationMS float64) {
	c.handshakesTotal.Add(1)
	if h, ok := c.handshakeLatency[mode]; ok {
		h.Observe(durationMS)
	}
}

// RecordHandshakeFailure records a handshake that did not complete.
func (c *Collector) RecordHandshakeFailure(mode string) {
	c.handshakeFailures.Add(1)
}

// --- Connection Metrics ---

// ConnectionOpened increments active and total dashboard connection counters.
func (c *Collector) ConnectionOpened() {
	c.connectionsActive.Add(1)
	c.connectionsTotal.Add(1)
}

// ConnectionClosed decrements the active connection counter.
func (c *Collector) ConnectionClosed() {
	for {
		current := c.connectionsActive.Load()
		if current == 0 {
			return
		}
		if c.connectionsActive.CompareAndSwap(current, current-1) {
			return
		}
	}
}

// --- Snapshot ---

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	// Timestamp of the snapshot
	Timestamp time.Time

	// Uptime since collector creation
	Uptime time.Duration

	// Run metrics
	RunsStarted   uint64
	RunsCompleted uint64
	RunsFailed    uint64

	// Handshake metrics
	HandshakesTotal   uint64
	HandshakeFailures uint64

	// Dashboard connection metrics
	ConnectionsActive uint64
	ConnectionsTotal  uint64

	// Per-mode handshake latency summaries, keyed by mode wire name
	HandshakeLatency map[string]HistogramSummary

	// Labels
	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	latency := make(map[string]HistogramSummary, len(c.handshakeLatency))
	for mode, h := range c.handshakeLatency {
		latency[mode] = h.Summary()
	}

	return Snapshot{
		Timestamp:         time.Now(),
		Uptime:            time.Since(c.createdAt),
		RunsStarted:       c.runsStarted.Load(),
		RunsCompleted:     c.runsCompleted.Load(),
		RunsFailed:        c.runsFailed.Load(),
		HandshakesTotal:   c.handshakesTotal.Load(),
		HandshakeFailures: c.handshakeFailures.Load(),
		ConnectionsActive: c.connectionsActive.Load(),
		ConnectionsTotal:  c.connectionsTotal.Load(),
		HandshakeLatency:  latency,
		Labels:            c.labels,
	}
}

// Reset clears all metrics (useful for testing).
func (c *Collector) Reset() {
	c.runsStarted.Store(0)
	c.runsCompleted.Store(0)
	c.runsFailed.Store(0)
	c.handshakesTotal.Store(0)
	c.handshakeFailures.Store(0)
	c.connectionsActive.Store(0)
	c.connectionsTotal.Store(0)
	for _, h := range c.handshakeLatency {
		h.Reset()
	}
	c.createdAt = time.Now()
}

// --- Global Collector ---

var (
	globalCollector     *Collector
	globalCollectorOnce sync.Once
)

// Global returns the global metrics collector.
// Creates one with default settings if not already initialized.
func Global() *Collector {
	globalCollectorOnce.Do(func() {
		globalCollector = NewCollector(Labels{"instance": "default"})
	})
	return globalCollector
}

// SetGlobal sets the global metrics collector.
// Should be called during initialization before any metrics are recorded.
func SetGlobal(c *Collector) {
	// Consume the Once so a later Global() cannot replace c with a default.
	globalCollectorOnce.Do(func() {})
	globalCollector = c
}
