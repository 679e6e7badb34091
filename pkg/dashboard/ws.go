package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pzverkov/pqbench/internal/constants"
	"github.com/pzverkov/pqbench/pkg/bench"
	"github.com/pzverkov/pqbench/pkg/metrics"
)

// Request is one benchmark request from a dashboard client.
type Request struct {
	Modes      []string `json:"modes"`
	Latency    float64  `json:"latency"`
	PacketLoss float64  `json:"packetLoss"`
}

// Server-to-client message types.
const (
	messageProgress = "progress"
	messageResult   = "result"
	messageError    = "error"
)

// Client-facing error messages. These strings are part of the wire
// contract and rendered verbatim by the front end.
const (
	errInvalidRequest = "Invalid request format. Expected JSON."
	errNoValidModes   = "No valid modes selected. Choose from: classical, pqc, hybrid"
)

// writeTimeout bounds a single outgoing WebSocket write.
const writeTimeout = 10 * time.Second

type progressMessage struct {
	Type      string `json:"type"`
	Mode      string `json:"mode"`
	Iteration int    `json:"iteration"`
	Total     int    `json:"total"`
}

type resultMessage struct {
	Type string         `json:"type"`
	Data *bench.Results `json:"data"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// upgrader accepts any origin: the endpoint also serves non-browser
// clients (wscat, tests), and the dashboard carries no credentials.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleBenchmark upgrades the connection and serves benchmark requests on
// it until the client disconnects.
func (s *Server) handleBenchmark(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote its HTTP error response.
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	sess := &wsSession{
		conn:      conn,
		log:       s.log.With().Str("remote", conn.RemoteAddr().String()).Logger(),
		collector: s.collector,
	}
	sess.serve(c.Request().Context())
	return nil
}

// wsSession serves one /benchmark connection. A session handles any number
// of benchmark requests sequentially; malformed requests are answered with
// an error message and do not end the session.
type wsSession struct {
	conn      *websocket.Conn
	log       zerolog.Logger
	collector *metrics.Collector

	// readErr is set by readPump before it signals termination.
	readErr error
}

func (s *wsSession) serve(ctx context.Context) {
	s.collector.ConnectionOpened()
	defer s.collector.ConnectionClosed()
	defer s.conn.Close()

	ctx, endSession := metrics.StartSpan(ctx, metrics.SpanDashboardSession,
		metrics.WithSpanKind(metrics.SpanKindServer),
		metrics.WithAttribute("remote", s.conn.RemoteAddr().String()))
	defer endSession(nil)

	s.log.Info().Msg("websocket connection established")

	msgs := make(chan []byte)
	closed := make(chan struct{})
	go s.readPump(msgs, closed)

	for {
		select {
		case <-closed:
			event := s.log.Info()
			if s.readErr != nil && websocket.IsUnexpectedCloseError(s.readErr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				event = s.log.Warn().Err(s.readErr)
			}
			event.Msg("websocket connection closed")
			return
		case data := <-msgs:
			s.handleRequest(ctx, closed, data)
		}
	}
}

// readPump owns all reads on the connection. Messages are handed to the
// session loop one at a time; closed is signalled once reading fails,
// which is also how a client disconnect during a run is noticed.
func (s *wsSession) readPump(msgs chan<- []byte, closed chan<- struct{}) {
	defer close(closed)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.readErr = err
			return
		}
		msgs <- data
	}
}

func (s *wsSession) handleRequest(ctx context.Context, closed <-chan struct{}, data []byte) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		s.log.Warn().Err(err).Msg("invalid benchmark request payload")
		s.sendError(errInvalidRequest)
		return
	}

	cfg, err := bench.NewRunConfig(req.Modes, req.Latency, req.PacketLoss)
	if err != nil {
		s.log.Warn().Strs("modes", req.Modes).Msg("request names no valid modes")
		s.sendError(errNoValidModes)
		return
	}

	s.log.Info().
		Strs("modes", cfg.ModeNames()).
		Float64("latency_ms", cfg.LatencyMS).
		Float64("packet_loss_percent", cfg.PacketLossPercent).
		Msg("benchmark request received")

	s.runBenchmark(ctx, closed, cfg)
}

// runBenchmark executes one run, streaming progress as it goes. The run is
// cancelled if the client disconnects or a progress write fails.
func (s *wsSession) runBenchmark(ctx context.Context, closed <-chan struct{}, cfg bench.RunConfig) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-closed:
			cancel()
		case <-runCtx.Done():
		}
	}()

	progress := func(mode constants.Mode, iteration, total int) {
		err := s.send(progressMessage{
			Type:      messageProgress,
			Mode:      string(mode),
			Iteration: iteration,
			Total:     total,
		})
		if err != nil {
			cancel()
		}
	}

	runner := bench.NewRunner(cfg,
		bench.WithProgress(progress),
		bench.WithLogger(s.log),
		bench.WithCollector(s.collector),
	)

	results, err := runner.Run(runCtx)
	if err != nil {
		s.sendError("Benchmark failed: " + err.Error())
		return
	}

	if err := s.send(resultMessage{Type: messageResult, Data: results}); err != nil {
		s.log.Warn().Err(err).Msg("failed to deliver benchmark result")
	}
}

func (s *wsSession) send(v interface{}) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(v)
}

func (s *wsSession) sendError(message string) {
	if err := s.send(errorMessage{Type: messageError, Message: message}); err != nil {
		s.log.Warn().Err(err).Msg("failed to send error message")
	}
}
