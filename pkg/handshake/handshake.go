// Package handshake implements the three key-establishment protocols the
// benchmark measures: classical (authenticated ECDH P-384), post-quantum
// (Kyber768 + ML-DSA-65), and hybrid (both, with a combined key).
//
// Every handshake runs over a plain net.Conn and ends with an encrypted
// confirmation round-trip, so a completed Initiate/Respond pair proves both
// sides hold the same AES-256 session key. Session keys per mode:
//
//	classical: HKDF(ECDH shared secret)
//	pqc:       Kyber shared secret (already a uniform 32 bytes)
//	hybrid:    HKDF(ECDH secret || Kyber secret)
//
// The handshake is what the benchmark times; the Session it returns is what
// the channel tests exercise.
package handshake

import (
	"net"
	"time"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
	"github.com/pzverkov/pqbench/pkg/crypto"
)

const (
	// handshakeTimeout bounds a full handshake including confirmation.
	handshakeTimeout = 10 * time.Second

	// dialTimeout bounds connection establishment in Dial.
	dialTimeout = 5 * time.Second
)

// Confirmation plaintexts. Each side proves key possession by sealing its
// own label and opening the peer's.
var (
	confirmInitiator = []byte("pqbench key confirm initiator")
	confirmResponder = []byte("pqbench key confirm responder")
)

// Initiate performs the handshake for mode as the dialing side and returns
// an established session. The connection is left open on success and should
// be closed via the session; on error the caller owns the connection.
func Initiate(conn net.Conn, mode constants.Mode) (*Session, error) {
	key, err := initiateKey(conn, mode)
	if err != nil {
		return nil, err
	}
	defer crypto.Zeroize(key)

	sess, err := newSession(conn, key, mode, RoleInitiator)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "session", err)
	}

	if err := confirmAsInitiator(sess); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "confirm", err)
	}

	clearDeadline(conn)
	return sess, nil
}

// Respond performs the handshake for mode as the accepting side and returns
// an established session.
func Respond(conn net.Conn, mode constants.Mode) (*Session, error) {
	key, err := respondKey(conn, mode)
	if err != nil {
		return nil, err
	}
	defer crypto.Zeroize(key)

	sess, err := newSession(conn, key, mode, RoleResponder)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "session", err)
	}

	if err := confirmAsResponder(sess); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "confirm", err)
	}

	clearDeadline(conn)
	return sess, nil
}

// Dial connects to addr and completes the initiator handshake for mode.
func Dial(addr string, mode constants.Mode) (*Session, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "dial", err)
	}

	sess, err := Initiate(conn, mode)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return sess, nil
}

func initiateKey(conn net.Conn, mode constants.Mode) ([]byte, error) {
	setDeadline(conn)

	switch mode {
	case constants.ModeClassical:
		secret, err := classicalInitiate(conn)
		if err != nil {
			return nil, err
		}
		defer crypto.Zeroize(secret)
		return deriveClassicalKey(mode, secret)
	case constants.ModePQC:
		return pqcInitiate(conn)
	case constants.ModeHybrid:
		return hybridInitiate(conn)
	default:
		return nil, qerrors.NewHandshakeError(string(mode), "dispatch", qerrors.ErrUnsupportedMode)
	}
}

func respondKey(conn net.Conn, mode constants.Mode) ([]byte, error) {
	setDeadline(conn)

	switch mode {
	case constants.ModeClassical:
		secret, err := classicalRespond(conn)
		if err != nil {
			return nil, err
		}
		defer crypto.Zeroize(secret)
		return deriveClassicalKey(mode, secret)
	case constants.ModePQC:
		return pqcRespond(conn)
	case constants.ModeHybrid:
		return hybridRespond(conn)
	default:
		return nil, qerrors.NewHandshakeError(string(mode), "dispatch", qerrors.ErrUnsupportedMode)
	}
}

func deriveClassicalKey(mode constants.Mode, secret []byte) ([]byte, error) {
	key, err := crypto.DeriveSessionKey(secret)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "derive", err)
	}
	return key, nil
}

// confirmAsInitiator sends the initiator label and expects the responder
// label back. Any decryption failure or label mismatch means the two sides
// disagree on the session key.
func confirmAsInitiator(sess *Session) error {
	if err := sess.SendMessage(confirmInitiator); err != nil {
		return err
	}

	reply, err := sess.ReceiveMessage()
	if err != nil {
		return err
	}
	if !crypto.ConstantTimeCompare(reply, confirmResponder) {
		return qerrors.ErrConfirmFailed
	}
	return nil
}

func confirmAsResponder(sess *Session) error {
	greeting, err := sess.ReceiveMessage()
	if err != nil {
		return err
	}
	if !crypto.ConstantTimeCompare(greeting, confirmInitiator) {
		return qerrors.ErrConfirmFailed
	}

	return sess.SendMessage(confirmResponder)
}

func setDeadline(conn net.Conn) {
	conn.SetDeadline(time.Now().Add(handshakeTimeout))
}

func clearDeadline(conn net.Conn) {
	conn.SetDeadline(time.Time{})
}
