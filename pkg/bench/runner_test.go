package bench

import (
	"context"
	"testing"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
	"github.com/pzverkov/pqbench/pkg/metrics"
)

type progressEvent struct {
	mode      constants.Mode
	iteration int
	total     int
}

func collectProgress(events *[]progressEvent) ProgressFunc {
	return func(mode constants.Mode, iteration, total int) {
		*events = append(*events, progressEvent{mode, iteration, total})
	}
}

func mustRunConfig(t *testing.T, modes []string, latency, loss float64) RunConfig {
	t.Helper()
	cfg, err := NewRunConfig(modes, latency, loss)
	if err != nil {
		t.Fatalf("NewRunConfig(%v): %v", modes, err)
	}
	return cfg
}

func TestRunnerSingleMode(t *testing.T) {
	var events []progressEvent
	cfg := mustRunConfig(t, []string{"classical"}, 0, 0)
	runner := NewRunner(cfg, WithProgress(collectProgress(&events)))

	results, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(events) != constants.IterationsPerMode {
		t.Fatalf("progress events = %d, want %d", len(events), constants.IterationsPerMode)
	}
	for i, ev := range events {
		if ev.mode != constants.ModeClassical {
			t.Errorf("event %d mode = %q, want classical", i, ev.mode)
		}
		if ev.iteration != i+1 {
			t.Errorf("event %d iteration = %d, want %d", i, ev.iteration, i+1)
		}
		if ev.total != constants.IterationsPerMode {
			t.Errorf("event %d total = %d, want %d", i, ev.total, constants.IterationsPerMode)
		}
	}

	if results.RunID == "" {
		t.Error("results missing run ID")
	}
	samples := results.HandshakeSamples["classical"]
	if len(samples) != constants.IterationsPerMode {
		t.Errorf("samples = %d, want %d", len(samples), constants.IterationsPerMode)
	}
	for i, s := range samples {
		if s < 0 {
			t.Errorf("sample %d negative: %g", i, s)
		}
	}
	if results.HandshakeTimeMS["classical"] <= 0 {
		t.Errorf("mean = %g, want > 0", results.HandshakeTimeMS["classical"])
	}
}

func TestRunnerResultKeysMatchRequestedModes(t *testing.T) {
	cfg := mustRunConfig(t, []string{"classical", "pqc"}, 0, 0)
	results, err := NewRunner(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Timing maps cover exactly the requested modes.
	for _, m := range []map[string]bool{
		keysOf(results.HandshakeTimeMS),
		keysOfSamples(results.HandshakeSamples),
	} {
		if len(m) != 2 || !m["classical"] || !m["pqc"] {
			t.Errorf("timing keys = %v, want exactly {classical, pqc}", m)
		}
	}

	// Size maps always cover every mode.
	for _, m := range []map[string]bool{
		keysOfInt(results.PublicKeyBytes),
		keysOfInt(results.SignatureBytes),
	} {
		if len(m) != 3 || !m["classical"] || !m["pqc"] || !m["hybrid"] {
			t.Errorf("size keys = %v, want all of {classical, pqc, hybrid}", m)
		}
	}

	if got := results.PublicKeyBytes["classical"]; got != constants.ClassicalPublicKeyPEMSize {
		t.Errorf("classical public key bytes = %d, want %d", got, constants.ClassicalPublicKeyPEMSize)
	}
	if got := results.PublicKeyBytes["pqc"]; got != constants.KyberPublicKeySize {
		t.Errorf("pqc public key bytes = %d, want %d", got, constants.KyberPublicKeySize)
	}
	if got := results.SignatureBytes["pqc"]; got != constants.MLDSASignatureSize {
		t.Errorf("pqc signature bytes = %d, want %d", got, constants.MLDSASignatureSize)
	}
	if got := results.PublicKeyBytes["hybrid"]; got != constants.ClassicalPublicKeyPEMSize+constants.KyberPublicKeySize {
		t.Errorf("hybrid public key bytes = %d, want %d", got, constants.ClassicalPublicKeyPEMSize+constants.KyberPublicKeySize)
	}

	settings := results.Settings
	if len(settings.Modes) != 2 || settings.Modes[0] != "classical" || settings.Modes[1] != "pqc" {
		t.Errorf("settings modes = %v", settings.Modes)
	}
	if settings.Iterations != constants.IterationsPerMode {
		t.Errorf("settings iterations = %d, want %d", settings.Iterations, constants.IterationsPerMode)
	}
}

func TestRunnerModeOrderFixed(t *testing.T) {
	var events []progressEvent
	cfg := mustRunConfig(t, []string{"pqc", "classical"}, 0, 0)
	runner := NewRunner(cfg, WithProgress(collectProgress(&events)))

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(events) != 2*constants.IterationsPerMode {
		t.Fatalf("progress events = %d, want %d", len(events), 2*constants.IterationsPerMode)
	}
	for i := 0; i < constants.IterationsPerMode; i++ {
		if events[i].mode != constants.ModeClassical {
			t.Fatalf("event %d mode = %q, want classical first regardless of request order", i, events[i].mode)
		}
	}
	for i := constants.IterationsPerMode; i < 2*constants.IterationsPerMode; i++ {
		if events[i].mode != constants.ModePQC {
			t.Fatalf("event %d mode = %q, want pqc second", i, events[i].mode)
		}
	}
}

func TestRunnerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var events []progressEvent
	cfg := mustRunConfig(t, []string{"classical"}, 0, 0)
	runner := NewRunner(cfg, WithProgress(func(mode constants.Mode, iteration, total int) {
		events = append(events, progressEvent{mode, iteration, total})
		if iteration == 3 {
			cancel()
		}
	}))

	results, err := runner.Run(ctx)
	if !qerrors.Is(err, qerrors.ErrRunAborted) {
		t.Errorf("error = %v, want ErrRunAborted", err)
	}
	if results != nil {
		t.Error("aborted run returned results")
	}
	if len(events) != 3 {
		t.Errorf("progress events = %d, want 3 (no events after cancellation)", len(events))
	}
}

func TestRunnerNetemAppliedToSamples(t *testing.T) {
	cfg := mustRunConfig(t, []string{"classical"}, 100, 0)
	results, err := NewRunner(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Every sample carries at least the added latency.
	for i, s := range results.HandshakeSamples["classical"] {
		if s < 100 {
			t.Errorf("sample %d = %g, want >= 100 with 100ms simulated latency", i, s)
		}
	}
	if results.Settings.LatencyMS != 100 {
		t.Errorf("settings latency = %g, want 100", results.Settings.LatencyMS)
	}
}

func TestRunnerRecordsMetrics(t *testing.T) {
	collector := metrics.NewCollector(nil)
	cfg := mustRunConfig(t, []string{"pqc"}, 0, 0)

	_, err := NewRunner(cfg, WithCollector(collector)).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := collector.Snapshot()
	if snap.RunsStarted != 1 || snap.RunsCompleted != 1 {
		t.Errorf("runs started/completed = %d/%d, want 1/1", snap.RunsStarted, snap.RunsCompleted)
	}
	if snap.HandshakesTotal != constants.IterationsPerMode {
		t.Errorf("handshakes = %d, want %d", snap.HandshakesTotal, constants.IterationsPerMode)
	}
	if got := snap.HandshakeLatency["pqc"].Count; got != constants.IterationsPerMode {
		t.Errorf("pqc latency observations = %d, want %d", got, constants.IterationsPerMode)
	}
}

func keysOf(m map[string]float64) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

func keysOfInt(m map[string]int) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

func keysOfSamples(m map[string][]float64) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}
