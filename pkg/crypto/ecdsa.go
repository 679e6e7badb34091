// ecdsa.go implements the classical signature wrapper (ECDSA over P-384).
//
// The classical handshake authenticates each side's ephemeral exchange key
// with an ECDSA P-384 signature, mirroring the role ML-DSA-65 plays in the
// post-quantum handshake.
//
// Signatures use the raw fixed-width encoding (r and s each left-padded to
// 48 bytes) rather than ASN.1 DER, so every classical signature is exactly
// 96 bytes on the wire. Messages are hashed with SHA-256 before signing.
package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"math/big"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// ecdsaScalarSize is the byte length of one P-384 signature component.
const ecdsaScalarSize = constants.ClassicalSignatureSize / 2

// ECDSAKeyPair represents a P-384 signing key pair.
type ECDSAKeyPair struct {
	private *ecdsa.PrivateKey
}

// GenerateECDSAKeyPair generates a new P-384 signing key pair.
func GenerateECDSAKeyPair() (*ECDSAKeyPair, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P384(), Reader)
	if err != nil {
		return nil, qerrors.NewCryptoError("ECDSAKeyPair.Generate", err)
	}
	return &ECDSAKeyPair{private: priv}, nil
}

// PublicKeyPEM returns the verification key as PEM-encoded SubjectPublicKeyInfo.
func (kp *ECDSAKeyPair) PublicKeyPEM() ([]byte, error) {
	if kp == nil || kp.private == nil {
		return nil, qerrors.ErrInvalidPublicKey
	}

	der, err := x509.MarshalPKIXPublicKey(&kp.private.PublicKey)
	if err != nil {
		return nil, qerrors.NewCryptoError("ECDSAKeyPair.PublicKeyPEM", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}

// Sign signs message and returns the 96-byte raw signature.
// The message is hashed with SHA-256 before signing.
func (kp *ECDSAKeyPair) Sign(message []byte) ([]byte, error) {
	if kp == nil || kp.private == nil {
		return nil, qerrors.ErrInvalidKeySize
	}

	digest := sha256.Sum256(message)
	r, s, err := ecdsa.Sign(Reader, kp.private, digest[:])
	if err != nil {
		return nil, qerrors.NewCryptoError("ECDSAKeyPair.Sign", err)
	}

	sig := make([]byte, constants.ClassicalSignatureSize)
	r.FillBytes(sig[:ecdsaScalarSize])
	s.FillBytes(sig[ecdsaScalarSize:])
	return sig, nil
}

// ECDSAVerify verifies a 96-byte raw signature over message with the given
// verification key. Returns ErrSignatureInvalid on any mismatch.
func ECDSAVerify(pub *ecdsa.PublicKey, message, sig []byte) error {
	if pub == nil || pub.Curve != elliptic.P384() {
		return qerrors.ErrInvalidPublicKey
	}
	if len(sig) != constants.ClassicalSignatureSize {
		return qerrors.ErrSignatureInvalid
	}

	digest := sha256.Sum256(message)
	r := new(big.Int).SetBytes(sig[:ecdsaScalarSize])
	s := new(big.Int).SetBytes(sig[ecdsaScalarSize:])

	if !ecdsa.Verify(pub, digest[:], r, s) {
		return qerrors.ErrSignatureInvalid
	}
	return nil
}

// ParseECDSAPublicKeyPEM parses a PEM-encoded P-384 verification key.
func ParseECDSAPublicKeyPEM(data []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != pemTypePublicKey {
		return nil, qerrors.ErrInvalidPublicKey
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, qerrors.NewCryptoError("ParseECDSAPublicKeyPEM", err)
	}

	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok || pub.Curve != elliptic.P384() {
		return nil, qerrors.ErrInvalidPublicKey
	}
	return pub, nil
}
