// loopback.go provides the in-process responder the benchmark dials.
//
// Each measurement starts a fresh listener on 127.0.0.1:0, accepts exactly
// one connection, runs the responder handshake, then echoes encrypted
// records until the peer closes. Loopback TCP keeps transport cost near
// zero, so the measured time is dominated by the cryptography plus whatever
// penalty the network model injects.
package handshake

import (
	"net"
	"sync"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// Loopback is a single-use responder bound to an ephemeral loopback port.
type Loopback struct {
	ln   net.Listener
	mode constants.Mode
	done chan struct{}

	mu   sync.Mutex
	conn net.Conn
	err  error
}

// StartLoopback starts a responder for mode on 127.0.0.1:0.
// Callers must Close it even if they never connect.
func StartLoopback(mode constants.Mode) (*Loopback, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	lb := &Loopback{
		ln:   ln,
		mode: mode,
		done: make(chan struct{}),
	}
	go lb.serve()

	return lb, nil
}

// Addr returns the address to dial.
func (l *Loopback) Addr() string {
	return l.ln.Addr().String()
}

// Err returns the responder-side failure, if any. Meaningful once the
// handler has finished (after Close, or after the peer disconnected).
func (l *Loopback) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close stops the listener, tears down any active connection, and waits for
// the handler goroutine to finish.
func (l *Loopback) Close() error {
	err := l.ln.Close()

	l.mu.Lock()
	if l.conn != nil {
		l.conn.Close()
	}
	l.mu.Unlock()

	<-l.done
	return err
}

func (l *Loopback) serve() {
	defer close(l.done)

	conn, err := l.ln.Accept()
	if err != nil {
		if !qerrors.Is(err, net.ErrClosed) {
			l.setErr(err)
		}
		return
	}

	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()

	defer conn.Close()

	sess, err := Respond(conn, l.mode)
	if err != nil {
		l.setErr(err)
		return
	}

	// Echo until the peer disconnects. Benchmark runs close immediately
	// after the handshake; channel tests exchange a few records first.
	for {
		msg, err := sess.ReceiveMessage()
		if err != nil {
			return
		}
		if err := sess.SendMessage(msg); err != nil {
			return
		}
	}
}

func (l *Loopback) setErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err == nil {
		l.err = err
	}
}
