package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestIndexAndStaticAssets(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := getBody(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Post-Quantum Handshake Benchmark")
	assert.Contains(t, body, "/static/app.js")

	status, body = getBody(t, ts.URL+"/static/app.js")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "WebSocket")

	status, _ = getBody(t, ts.URL+"/static/style.css")
	assert.Equal(t, http.StatusOK, status)

	status, _ = getBody(t, ts.URL+"/static/missing.js")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := getBody(t, ts.URL+"/health")
	require.Equal(t, http.StatusOK, status)

	var health struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Checks  map[string]struct {
			Status string `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "pqbench", health.Service)
	require.Contains(t, health.Checks, "crypto")
	assert.Equal(t, "healthy", health.Checks["crypto"].Status)

	status, body = getBody(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"alive"`)

	status, body = getBody(t, ts.URL+"/readyz")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"ready":true`)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := getBody(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "pqbench_runs_started_total")
	assert.Contains(t, body, "pqbench_ws_connections_active")
}

func TestMetricsEndpointDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	srv, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	ts := startTestServer(t, srv)
	status, _ := getBody(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, status)

	// Health stays mounted regardless of the metrics setting.
	status, _ = getBody(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
}

func TestServerRunShutdown(t *testing.T) {
	cfg := testConfig()
	cfg.Port = 0
	srv, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
