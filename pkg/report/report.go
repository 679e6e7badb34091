// Package report formats benchmark results into comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/pzverkov/pqbench/internal/constants"
	"github.com/pzverkov/pqbench/pkg/bench"
)

// Generate writes a markdown report for the given benchmark results.
func Generate(w io.Writer, results *bench.Results) error {
	if results == nil || len(results.Settings.Modes) == 0 {
		return fmt.Errorf("no results to report")
	}

	fastest := findFastest(results)

	// Header.
	fmt.Fprintln(w, "## Handshake Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Run `%s`: %d iterations per mode, %gms simulated latency, %g%% packet loss\n",
		results.RunID,
		results.Settings.Iterations,
		results.Settings.LatencyMS,
		results.Settings.PacketLossPercent,
	)
	fmt.Fprintln(w)

	// Timing table, benchmarked modes only.
	fmt.Fprintln(w, "| Mode | Mean | Median | Min | Max | Std Dev | Slowdown |")
	fmt.Fprintln(w, "|------|------|--------|-----|-----|---------|----------|")

	for _, mode := range results.Settings.Modes {
		stats := bench.Summarize(results.HandshakeSamples[mode])

		slowdown := 1.0
		if fastest > 0 && stats.Mean > 0 {
			slowdown = stats.Mean / fastest
		}

		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %.2fx |\n",
			constants.Mode(mode).DisplayName(),
			formatMs(stats.Mean),
			formatMs(stats.Median),
			formatMs(stats.Min),
			formatMs(stats.Max),
			formatMs(stats.StdDev),
			slowdown,
		)
	}

	fmt.Fprintln(w)

	// Size table, always all modes.
	fmt.Fprintln(w, "| Mode | Public Key | Signature |")
	fmt.Fprintln(w, "|------|------------|-----------|")

	for _, mode := range constants.AllModes() {
		fmt.Fprintf(w, "| %s | %s | %s |\n",
			mode.DisplayName(),
			formatBytes(results.PublicKeyBytes[string(mode)]),
			formatBytes(results.SignatureBytes[string(mode)]),
		)
	}

	return nil
}

// GenerateJSON writes results as indented JSON to w.
func GenerateJSON(w io.Writer, results *bench.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

// findFastest returns the smallest positive per-mode mean, or 0 when no
// mode has one.
func findFastest(results *bench.Results) float64 {
	fastest := math.MaxFloat64
	for _, mode := range results.Settings.Modes {
		mean := bench.Mean(results.HandshakeSamples[mode])
		if mean > 0 && mean < fastest {
			fastest = mean
		}
	}

	if fastest == math.MaxFloat64 {
		return 0
	}

	return fastest
}

func formatMs(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2fms", ms)
	}

	return fmt.Sprintf("%.2fs", ms/1000)
}

// formatBytes keeps sizes exact: the byte-for-byte wire cost is the point
// of the comparison.
func formatBytes(b int) string {
	if b == 0 {
		return "-"
	}

	return fmt.Sprintf("%d B", b)
}
