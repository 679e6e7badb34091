// ecdh.go implements the classical key exchange wrapper (NIST P-384).
//
// ECDH (Elliptic Curve Diffie-Hellman) over P-384 is the classical baseline
// the post-quantum modes are measured against.
//
// Mathematical Foundation:
//
// Security rests on the Elliptic Curve Discrete Logarithm Problem: given
// points P and Q = dP on the curve, recovering the scalar d is infeasible
// classically (~192-bit security for P-384) but broken by Shor's algorithm
// on a large quantum computer, which is the motivation for this benchmark.
//
// Public keys travel as PEM-encoded SubjectPublicKeyInfo, the interchange
// format produced by essentially every TLS/PKI toolchain. For P-384 that
// encoding is always exactly 215 bytes, which is the classical public key
// size the benchmark reports.
package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/pem"

	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// pemTypePublicKey is the PEM block type for SubjectPublicKeyInfo.
const pemTypePublicKey = "PUBLIC KEY"

// ECDHKeyPair represents an ephemeral P-384 key exchange pair.
type ECDHKeyPair struct {
	private *ecdh.PrivateKey
}

// GenerateECDHKeyPair generates a new ephemeral P-384 key pair.
// Returns an error if the system's CSPRNG fails.
func GenerateECDHKeyPair() (*ECDHKeyPair, error) {
	priv, err := ecdh.P384().GenerateKey(Reader)
	if err != nil {
		return nil, qerrors.NewCryptoError("ECDHKeyPair.Generate", err)
	}
	return &ECDHKeyPair{private: priv}, nil
}

// PublicKeyPEM returns the public key as PEM-encoded SubjectPublicKeyInfo.
// The result is always constants.ClassicalPublicKeyPEMSize bytes for P-384.
func (kp *ECDHKeyPair) PublicKeyPEM() ([]byte, error) {
	if kp == nil || kp.private == nil {
		return nil, qerrors.ErrInvalidPublicKey
	}

	der, err := x509.MarshalPKIXPublicKey(kp.private.PublicKey())
	if err != nil {
		return nil, qerrors.NewCryptoError("ECDHKeyPair.PublicKeyPEM", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}

// SharedSecret computes the raw ECDH shared secret with the peer's public
// key. For P-384 the secret is the 48-byte x coordinate of the shared point;
// callers derive the session key from it via the KDF, never use it directly.
func (kp *ECDHKeyPair) SharedSecret(peer *ecdh.PublicKey) ([]byte, error) {
	if kp == nil || kp.private == nil {
		return nil, qerrors.ErrInvalidKeySize
	}
	if peer == nil {
		return nil, qerrors.ErrInvalidPublicKey
	}

	secret, err := kp.private.ECDH(peer)
	if err != nil {
		return nil, qerrors.NewCryptoError("ECDHKeyPair.SharedSecret", err)
	}
	return secret, nil
}

// ParseECDHPublicKeyPEM parses a PEM-encoded P-384 public key as produced by
// PublicKeyPEM. Keys on any other curve are rejected.
func ParseECDHPublicKeyPEM(data []byte) (*ecdh.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemTypePublicKey {
		return nil, qerrors.ErrInvalidPublicKey
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, qerrors.NewCryptoError("ParseECDHPublicKeyPEM", err)
	}

	// EC SubjectPublicKeyInfo parses as an ECDSA key; convert to its ECDH form.
	ecKey, ok := parsed.(*ecdsa.PublicKey)
	if !ok || ecKey.Curve != elliptic.P384() {
		return nil, qerrors.ErrInvalidPublicKey
	}

	pub, err := ecKey.ECDH()
	if err != nil {
		return nil, qerrors.NewCryptoError("ParseECDHPublicKeyPEM", err)
	}
	return pub, nil
}
