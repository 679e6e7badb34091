// mldsa.go implements the ML-DSA-65 signature wrapper.
//
// ML-DSA (Module-Lattice-based Digital Signature Algorithm, NIST FIPS 204,
// derived from CRYSTALS-Dilithium) authenticates the post-quantum handshake.
//
// Mathematical Foundation:
//
// ML-DSA follows the Fiat-Shamir with Aborts paradigm over module lattices:
// security reduces to the MLWE and SelfTargetMSIS problems. Signing is
// rejection-sampled, so signing time varies per message while signatures
// stay a fixed 3309 bytes for ML-DSA-65.
//
// Security Level: NIST Category 3, matching Kyber768 so neither primitive
// is the weak link of the post-quantum mode.
package crypto

import (
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// MLDSAPublicKey wraps an ML-DSA-65 verification key.
type MLDSAPublicKey struct {
	key *mldsa65.PublicKey
}

// MLDSAKeyPair represents an ML-DSA-65 signing key pair.
type MLDSAKeyPair struct {
	// VerificationKey is the public key peers verify signatures with
	VerificationKey *MLDSAPublicKey

	private *mldsa65.PrivateKey
}

// GenerateMLDSAKeyPair generates a new ML-DSA-65 signing key pair.
func GenerateMLDSAKeyPair() (*MLDSAKeyPair, error) {
	pk, sk, err := mldsa65.GenerateKey(Reader)
	if err != nil {
		return nil, qerrors.NewCryptoError("MLDSAKeyPair.Generate", err)
	}

	return &MLDSAKeyPair{
		VerificationKey: &MLDSAPublicKey{key: pk},
		private:         sk,
	}, nil
}

// NewMLDSAKeyPairFromSeed derives an ML-DSA-65 key pair from a 32-byte seed.
// Deterministic; used by the self-test.
func NewMLDSAKeyPairFromSeed(seed []byte) (*MLDSAKeyPair, error) {
	if len(seed) != mldsa65.SeedSize {
		return nil, qerrors.ErrInvalidKeySize
	}

	var s [mldsa65.SeedSize]byte
	copy(s[:], seed)
	pk, sk := mldsa65.NewKeyFromSeed(&s)

	return &MLDSAKeyPair{
		VerificationKey: &MLDSAPublicKey{key: pk},
		private:         sk,
	}, nil
}

// Sign signs message and returns the 3309-byte signature.
// Signing is randomized (hedged), the FIPS 204 default.
func (kp *MLDSAKeyPair) Sign(message []byte) ([]byte, error) {
	if kp == nil || kp.private == nil {
		return nil, qerrors.ErrInvalidKeySize
	}

	sig := make([]byte, mldsa65.SignatureSize)
	if err := mldsa65.SignTo(kp.private, message, nil, true, sig); err != nil {
		return nil, qerrors.NewCryptoError("MLDSAKeyPair.Sign", err)
	}
	return sig, nil
}

// MLDSAVerify verifies a signature over message with the given verification
// key. Returns ErrSignatureInvalid on any mismatch.
func MLDSAVerify(pk *MLDSAPublicKey, message, sig []byte) error {
	if pk == nil || pk.key == nil {
		return qerrors.ErrInvalidPublicKey
	}
	if len(sig) != constants.MLDSASignatureSize {
		return qerrors.ErrSignatureInvalid
	}

	if !mldsa65.Verify(pk.key, message, nil, sig) {
		return qerrors.ErrSignatureInvalid
	}
	return nil
}

// Bytes returns the packed verification key.
func (pk *MLDSAPublicKey) Bytes() []byte {
	if pk == nil || pk.key == nil {
		return nil
	}
	var buf [mldsa65.PublicKeySize]byte
	pk.key.Pack(&buf)
	return buf[:]
}

// VerificationKeyBytes returns the packed verification key of the pair.
func (kp *MLDSAKeyPair) VerificationKeyBytes() []byte {
	return kp.VerificationKey.Bytes()
}

// ParseMLDSAPublicKey parses an ML-DSA-65 verification key from its packed form.
func ParseMLDSAPublicKey(data []byte) (*MLDSAPublicKey, error) {
	if len(data) != constants.MLDSAPublicKeySize {
		return nil, qerrors.ErrInvalidPublicKey
	}

	var buf [mldsa65.PublicKeySize]byte
	copy(buf[:], data)

	pk := new(mldsa65.PublicKey)
	pk.Unpack(&buf)

	return &MLDSAPublicKey{key: pk}, nil
}

// Zeroize drops the signing key reference.
func (kp *MLDSAKeyPair) Zeroize() {
	kp.private = nil
	kp.VerificationKey = nil
}
