// Package metrics provides observability primitives for the pqbench service.
//
// # Overview
//
// The metrics package offers:
//   - Metrics collection (counters, gauges, histograms)
//   - Prometheus-compatible metrics export
//   - Distributed tracing support (OpenTelemetry-compatible interface)
//   - Health check endpoints
//
// # Quick Start
//
// Basic usage with the global collector:
//
//	import "github.com/pzverkov/pqbench/pkg/metrics"
//
//	metrics.Global().RecordRunStart()
//	metrics.Global().RecordHandshake("classical", 2.41)
//	metrics.Global().RecordRunComplete()
//
// # Metrics Collection
//
// The Collector type aggregates benchmark runs, handshakes, and dashboard
// connections:
//
//	collector := metrics.NewCollector(metrics.Labels{
//		"instance": "node-1",
//	})
//
//	collector.RecordRunStart()
//	collector.RecordHandshake("pqc", durationMS)
//	collector.ConnectionOpened()
//
//	snap := collector.Snapshot()
//
// Handshake latency is tracked per mode in millisecond histograms, so the
// exporter can expose one labeled latency family per benchmarked mode.
//
// # Prometheus Export
//
// Export metrics in Prometheus text format:
//
//	exporter := metrics.NewPrometheusExporter(collector, "pqbench")
//	http.Handle("/metrics", exporter.Handler())
//
// # Tracing
//
// The package provides a Tracer interface compatible with OpenTelemetry:
//
//	// Use the simple tracer for testing
//	tracer := metrics.NewSimpleTracer()
//	metrics.SetTracer(tracer)
//
//	// OpenTelemetry adapter (uses the global provider)
//	metrics.SetTracer(metrics.NewOTelTracer("pqbench"))
//	// Build with -tags otel to enable the adapter.
//
//	ctx, end := metrics.StartSpan(ctx, metrics.SpanBenchmarkRun)
//	defer end(nil) // or end(err) on error
//
// # Health Checks
//
// Provide health check endpoints for Kubernetes and load balancers:
//
//	health := metrics.NewHealthCheck(collector, "1.0.0")
//	health.AddCheck("crypto", func() error {
//		// Verify the crypto self-test passed
//		return nil
//	})
//
//	http.Handle("/health", health.Handler())
//	http.Handle("/healthz", health.LivenessHandler())
//	http.Handle("/readyz", health.ReadinessHandler())
package metrics
