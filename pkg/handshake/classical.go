// classical.go implements the authenticated elliptic-curve handshake.
//
// Both sides hold an ephemeral ECDSA P-384 identity for the lifetime of the
// handshake and use it to authenticate their ECDH share. Message order:
//
//	Responder                       Initiator
//	    |  ECDSA verification key ----->  |
//	    |  <----- ECDSA verification key  |
//	    |  ECDH share, signature ------>  |
//	    |  <------ ECDH share, signature  |
//
// Each side verifies the peer's signature over the PEM-encoded share before
// computing the ECDH shared secret. The raw secret (48 bytes for P-384) is
// returned to the caller for key derivation.
package handshake

import (
	"net"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
	"github.com/pzverkov/pqbench/pkg/crypto"
)

func classicalInitiate(conn net.Conn) ([]byte, error) {
	mode := constants.ModeClassical

	signer, err := crypto.GenerateECDSAKeyPair()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "keygen", err)
	}

	// Authentication keys cross first, responder leading.
	peerAuthPEM, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-auth-key", err)
	}
	peerVerifyKey, err := crypto.ParseECDSAPublicKeyPEM(peerAuthPEM)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-auth-key", err)
	}

	authPEM, err := signer.PublicKeyPEM()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-auth-key", err)
	}
	if err := writeField(conn, authPEM); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-auth-key", err)
	}

	// Responder's signed share.
	peerSharePEM, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}
	peerShareSig, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}
	if err := crypto.ECDSAVerify(peerVerifyKey, peerSharePEM, peerShareSig); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "verify-share", err)
	}
	peerShare, err := crypto.ParseECDHPublicKeyPEM(peerSharePEM)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}

	// Our signed share.
	exchange, err := crypto.GenerateECDHKeyPair()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "keygen", err)
	}
	sharePEM, err := exchange.PublicKeyPEM()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	shareSig, err := signer.Sign(sharePEM)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	if err := writeField(conn, sharePEM); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	if err := writeField(conn, shareSig); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}

	secret, err := exchange.SharedSecret(peerShare)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "shared-secret", err)
	}
	return secret, nil
}

func classicalRespond(conn net.Conn) ([]byte, error) {
	mode := constants.ModeClassical

	signer, err := crypto.GenerateECDSAKeyPair()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "keygen", err)
	}

	authPEM, err := signer.PublicKeyPEM()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-auth-key", err)
	}
	if err := writeField(conn, authPEM); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-auth-key", err)
	}

	peerAuthPEM, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-auth-key", err)
	}
	peerVerifyKey, err := crypto.ParseECDSAPublicKeyPEM(peerAuthPEM)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-auth-key", err)
	}

	exchange, err := crypto.GenerateECDHKeyPair()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "keygen", err)
	}
	sharePEM, err := exchange.PublicKeyPEM()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	shareSig, err := signer.Sign(sharePEM)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	if err := writeField(conn, sharePEM); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	if err := writeField(conn, shareSig); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}

	peerSharePEM, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}
	peerShareSig, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}
	if err := crypto.ECDSAVerify(peerVerifyKey, peerSharePEM, peerShareSig); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "verify-share", err)
	}
	peerShare, err := crypto.ParseECDHPublicKeyPEM(peerSharePEM)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}

	secret, err := exchange.SharedSecret(peerShare)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "shared-secret", err)
	}
	return secret, nil
}
