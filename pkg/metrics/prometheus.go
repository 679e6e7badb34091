package metrics

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
)

// PrometheusExporter exports metrics in Prometheus text format.
type PrometheusExporter struct {
	collector *Collector
	namespace string
}

// NewPrometheusExporter creates a Prometheus exporter for the given
// collector. The namespace is prepended to all metric names.
func NewPrometheusExporter(c *Collector, namespace string) *PrometheusExporter {
	return &PrometheusExporter{
		collector: c,
		namespace: namespace,
	}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (e *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		e.WriteMetrics(w)
	})
}

// WriteMetrics writes all metrics in Prometheus text format to the writer.
func (e *PrometheusExporter) WriteMetrics(w io.Writer) {
	snap := e.collector.Snapshot()
	labels := e.formatLabels(snap.Labels)

	// --- Run Metrics ---
	e.writeHelp(w, "runs_started_total", "Total benchmark runs started")
	e.writeType(w, "runs_started_total", "counter")
	e.writeMetric(w, "runs_started_total", labels, float64(snap.RunsStarted))

	e.writeHelp(w, "runs_completed_total", "Total benchmark runs completed successfully")
	e.writeType(w, "runs_completed_total", "counter")
	e.writeMetric(w, "runs_completed_total", labels, float64(snap.RunsCompleted))

	e.writeHelp(w, "runs_failed_total", "Total benchmark runs that failed")
	e.writeType(w, "runs_failed_total", "counter")
	e.writeMetric(w, "runs_failed_total", labels, float64(snap.RunsFailed))

	// --- Handshake Metrics ---
	e.writeHelp(w, "handshakes_total", "Total handshakes performed across all runs")
	e.writeType(w, "handshakes_total", "counter")
	e.writeMetric(w, "handshakes_total", labels, float64(snap.HandshakesTotal))

	e.writeHelp(w, "handshake_failures_total", "Total handshakes that failed")
	e.writeType(w, "handshake_failures_total", "counter")
	e.writeMetric(w, "handshake_failures_total", labels, float64(snap.HandshakeFailures))

	// --- Dashboard Connection Metrics ---
	e.writeHelp(w, "ws_connections_active", "Number of currently active dashboard connections")
	e.writeType(w, "ws_connections_active", "gauge")
	e.writeMetric(w, "ws_connections_active", labels, float64(snap.ConnectionsActive))

	e.writeHelp(w, "ws_connections_total", "Total dashboard connections accepted")
	e.writeType(w, "ws_connections_total", "counter")
	e.writeMetric(w, "ws_connections_total", labels, float64(snap.ConnectionsTotal))

	// --- Uptime ---
	e.writeHelp(w, "uptime_seconds", "Time since the collector was created")
	e.writeType(w, "uptime_seconds", "gauge")
	e.writeMetric(w, "uptime_seconds", labels, snap.Uptime.Seconds())

	// --- Per-Mode Handshake Latency ---
	e.writeHelp(w, "handshake_duration_milliseconds", "Adjusted handshake duration in milliseconds")
	e.writeType(w, "handshake_duration_milliseconds", "histogram")

	modes := make([]string, 0, len(snap.HandshakeLatency))
	for mode := range snap.HandshakeLatency {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	for _, mode := range modes {
		modeLabels := e.mergeLabels(labels, "mode", mode)
		e.writeHistogram(w, "handshake_duration_milliseconds", modeLabels, snap.HandshakeLatency[mode])
	}
}

// writeHelp writes a HELP line.
func (e *PrometheusExporter) writeHelp(w io.Writer, name, help string) {
	fmt.Fprintf(w, "# HELP %s_%s %s\n", e.namespace, name, help)
}

// writeType writes a TYPE line.
func (e *PrometheusExporter) writeType(w io.Writer, name, typ string) {
	fmt.Fprintf(w, "# TYPE %s_%s %s\n", e.namespace, name, typ)
}

// writeMetric writes a single metric line.
func (e *PrometheusExporter) writeMetric(w io.Writer, name, labels string, value float64) {
	if labels != "" {
		fmt.Fprintf(w, "%s_%s{%s} %g\n", e.namespace, name, labels, value)
	} else {
		fmt.Fprintf(w, "%s_%s %g\n", e.namespace, name, value)
	}
}

// writeHistogram writes one labeled histogram series.
// HELP and TYPE lines are the caller's responsibility, since every mode
// shares one metric family.
func (e *PrometheusExporter) writeHistogram(w io.Writer, name, labels string, h HistogramSummary) {
	fullName := e.namespace + "_" + name

	for _, b := range h.Buckets {
		le := fmt.Sprintf("%g", b.UpperBound)
		if math.IsInf(b.UpperBound, 1) {
			le = "+Inf"
		}
		if labels != "" {
			fmt.Fprintf(w, "%s_bucket{%s,le=\"%s\"} %d\n", fullName, labels, le, b.Count)
		} else {
			fmt.Fprintf(w, "%s_bucket{le=\"%s\"} %d\n", fullName, le, b.Count)
		}
	}

	if labels != "" {
		fmt.Fprintf(w, "%s_sum{%s} %g\n", fullName, labels, h.Sum)
		fmt.Fprintf(w, "%s_count{%s} %d\n", fullName, labels, h.Count)
	} else {
		fmt.Fprintf(w, "%s_sum %g\n", fullName, h.Sum)
		fmt.Fprintf(w, "%s_count %d\n", fullName, h.Count)
	}
}

// formatLabels converts Labels to Prometheus label format.
func (e *PrometheusExporter) formatLabels(labels Labels) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=\"%s\"", k, escapePromValue(labels[k])))
	}

	return strings.Join(parts, ",")
}

// mergeLabels appends one extra label pair to an already formatted label set.
func (e *PrometheusExporter) mergeLabels(labels, key, value string) string {
	pair := fmt.Sprintf("%s=\"%s\"", key, escapePromValue(value))
	if labels == "" {
		return pair
	}
	return labels + "," + pair
}

// escapePromValue escapes a string for use as a Prometheus label value.
func escapePromValue(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
