// pqc.go implements the post-quantum handshake.
//
// Key establishment is Kyber768 encapsulation; authentication is ML-DSA-65
// over the key material actually sent. Message order:
//
//	Responder                         Initiator
//	    |  ML-DSA verification key ----->  |
//	    |  <----- ML-DSA verification key  |
//	    |  <--- Kyber key, signature(key)  |
//	    |  ciphertext, signature(ct) --->  |
//
// The initiator signs its encapsulation key, the responder signs the
// ciphertext it produced, and each side verifies before proceeding. The
// 32-byte Kyber shared secret is returned as the session secret.
package handshake

import (
	"net"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
	"github.com/pzverkov/pqbench/pkg/crypto"
)

func pqcInitiate(conn net.Conn) ([]byte, error) {
	mode := constants.ModePQC

	signer, err := crypto.GenerateMLDSAKeyPair()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "keygen", err)
	}

	peerVerifyBytes, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-auth-key", err)
	}
	peerVerifyKey, err := crypto.ParseMLDSAPublicKey(peerVerifyBytes)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-auth-key", err)
	}

	if err := writeField(conn, signer.VerificationKeyBytes()); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-auth-key", err)
	}

	// Encapsulation key, authenticated by our signature.
	kem, err := crypto.GenerateKyberKeyPair()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "keygen", err)
	}
	defer kem.Zeroize()

	ekBytes := kem.PublicKeyBytes()
	ekSig, err := signer.Sign(ekBytes)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	if err := writeField(conn, ekBytes); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	if err := writeField(conn, ekSig); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}

	// Responder's signed ciphertext.
	ciphertext, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}
	ctSig, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}
	if err := crypto.MLDSAVerify(peerVerifyKey, ciphertext, ctSig); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "verify-share", err)
	}

	secret, err := crypto.KyberDecapsulate(kem.DecapsulationKey, ciphertext)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "shared-secret", err)
	}
	return secret, nil
}

func pqcRespond(conn net.Conn) ([]byte, error) {
	mode := constants.ModePQC

	signer, err := crypto.GenerateMLDSAKeyPair()
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "keygen", err)
	}

	if err := writeField(conn, signer.VerificationKeyBytes()); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-auth-key", err)
	}

	peerVerifyBytes, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-auth-key", err)
	}
	peerVerifyKey, err := crypto.ParseMLDSAPublicKey(peerVerifyBytes)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-auth-key", err)
	}

	ekBytes, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}
	ekSig, err := readField(conn)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}
	if err := crypto.MLDSAVerify(peerVerifyKey, ekBytes, ekSig); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "verify-share", err)
	}
	ek, err := crypto.ParseKyberPublicKey(ekBytes)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "recv-share", err)
	}

	ciphertext, secret, err := crypto.KyberEncapsulate(ek)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "shared-secret", err)
	}
	ctSig, err := signer.Sign(ciphertext)
	if err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	if err := writeField(conn, ciphertext); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}
	if err := writeField(conn, ctSig); err != nil {
		return nil, qerrors.NewHandshakeError(string(mode), "send-share", err)
	}

	return secret, nil
}
