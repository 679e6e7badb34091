// session.go implements the encrypted session established by a handshake.
//
// Records travel as two wire fields, nonce then ciphertext:
//
//	+--------+-------+--------+---------------+
//	| N len  | Nonce | CT len | CT  |  Tag    |
//	| 4B BE  | 12B   | 4B BE  | Variable 16B  |
//	+--------+-------+--------+---------------+
//
// Both sides seal with AES-256-GCM under the session key their handshake
// derived; a record that fails authentication surfaces as
// ErrAuthenticationFailed and ends the session.
package handshake

import (
	"net"

	"github.com/pzverkov/pqbench/internal/constants"
	"github.com/pzverkov/pqbench/pkg/crypto"
)

// Role identifies which side of the handshake a session belongs to.
type Role uint8

const (
	// RoleInitiator is the side that dialed the connection.
	RoleInitiator Role = iota

	// RoleResponder is the side that accepted the connection.
	RoleResponder
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleInitiator:
		return "initiator"
	case RoleResponder:
		return "responder"
	default:
		return "unknown"
	}
}

// Session is an established encrypted channel over a single connection.
// It is not safe for concurrent use.
type Session struct {
	conn net.Conn
	aead *crypto.AEAD
	mode constants.Mode
	role Role
}

func newSession(conn net.Conn, key []byte, mode constants.Mode, role Role) (*Session, error) {
	aead, err := crypto.NewAEAD(key)
	if err != nil {
		return nil, err
	}

	return &Session{
		conn: conn,
		aead: aead,
		mode: mode,
		role: role,
	}, nil
}

// Mode returns the handshake mode that established this session.
func (s *Session) Mode() constants.Mode {
	return s.mode
}

// Role returns which side of the handshake this session is.
func (s *Session) Role() Role {
	return s.role
}

// SendMessage seals plaintext and writes it as one record.
func (s *Session) SendMessage(plaintext []byte) error {
	sealed, err := s.aead.Seal(plaintext, nil)
	if err != nil {
		return err
	}

	if err := writeField(s.conn, sealed[:constants.AESNonceSize]); err != nil {
		return err
	}
	return writeField(s.conn, sealed[constants.AESNonceSize:])
}

// ReceiveMessage reads one record and returns the verified plaintext.
func (s *Session) ReceiveMessage() ([]byte, error) {
	nonce, err := readField(s.conn)
	if err != nil {
		return nil, err
	}
	ciphertext, err := readField(s.conn)
	if err != nil {
		return nil, err
	}

	return s.aead.OpenWithNonce(nonce, ciphertext, nil)
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}
