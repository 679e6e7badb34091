// kyber.go implements the Kyber768 key encapsulation mechanism wrapper.
//
// Kyber (CRYSTALS-Kyber, the round-3 parameter sets later standardized as
// ML-KEM in NIST FIPS 203) bases its security on the Module Learning With
// Errors (MLWE) problem.
//
// Mathematical Foundation:
//
// The MLWE problem is defined over the polynomial ring R_q = Z_q[X]/(X^n + 1)
// where n = 256 and q = 3329 for Kyber768.
//
// Given (A, b = As + e) where:
//   - A is a uniformly random k x k matrix over R_q (k=3 for Kyber768)
//   - s is the secret vector
//   - e is an error vector sampled from a centered binomial distribution
//
// it is computationally infeasible to distinguish (A, As + e) from uniform
// random, even for a quantum adversary.
//
// Security Level: NIST Category 3 (comparable to AES-192), the standard
// choice for TLS-style hybrid deployments and the post-quantum KEM this
// benchmark measures.
package crypto

import (
	"github.com/cloudflare/circl/kem/kyber/kyber768"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// KyberPublicKey wraps a Kyber768 encapsulation key.
type KyberPublicKey struct {
	key *kyber768.PublicKey
}

// KyberPrivateKey wraps a Kyber768 decapsulation key.
type KyberPrivateKey struct {
	key *kyber768.PrivateKey
}

// KyberKeyPair represents a Kyber768 key pair for post-quantum key encapsulation.
type KyberKeyPair struct {
	// EncapsulationKey is the public key peers encapsulate against
	EncapsulationKey *KyberPublicKey

	// DecapsulationKey is the private key used to recover the shared secret
	DecapsulationKey *KyberPrivateKey
}

// GenerateKyberKeyPair generates a new Kyber768 key pair.
// Returns an error if the system's CSPRNG fails.
func GenerateKyberKeyPair() (*KyberKeyPair, error) {
	pk, sk, err := kyber768.GenerateKeyPair(Reader)
	if err != nil {
		return nil, qerrors.NewCryptoError("KyberKeyPair.Generate", err)
	}

	return &KyberKeyPair{
		EncapsulationKey: &KyberPublicKey{key: pk},
		DecapsulationKey: &KyberPrivateKey{key: sk},
	}, nil
}

// NewKyberKeyPairFromSeed derives a Kyber768 key pair from a 64-byte seed.
// Deterministic: the same seed always produces the same key pair. Used by
// the self-test; production handshakes always generate from the CSPRNG.
func NewKyberKeyPairFromSeed(seed []byte) (*KyberKeyPair, error) {
	if len(seed) != kyber768.KeySeedSize {
		return nil, qerrors.ErrInvalidKeySize
	}

	pk, sk := kyber768.NewKeyFromSeed(seed)
	return &KyberKeyPair{
		EncapsulationKey: &KyberPublicKey{key: pk},
		DecapsulationKey: &KyberPrivateKey{key: sk},
	}, nil
}

// KyberEncapsulate performs key encapsulation against the peer's
// encapsulation key.
//
// Encapsulation (IND-CCA2 secure via the Fujisaki-Okamoto transform):
//  1. Sample random message m
//  2. Derive (K, r) = G(m || H(pk))
//  3. Encrypt m under pk with coins r to produce the ciphertext
//
// Returns:
//   - ciphertext: 1088 bytes for Kyber768
//   - sharedSecret: 32 bytes
func KyberEncapsulate(ek *KyberPublicKey) (ciphertext, sharedSecret []byte, err error) {
	if ek == nil || ek.key == nil {
		return nil, nil, qerrors.ErrInvalidPublicKey
	}

	ct := make([]byte, kyber768.CiphertextSize)
	ss := make([]byte, kyber768.SharedKeySize)

	seed := make([]byte, kyber768.EncapsulationSeedSize)
	if err := SecureRandom(seed); err != nil {
		return nil, nil, qerrors.NewCryptoError("KyberEncapsulate", err)
	}

	ek.key.EncapsulateTo(ct, ss, seed)

	return ct, ss, nil
}

// KyberDecapsulate recovers the shared secret from a ciphertext.
//
// Kyber decapsulation never fails explicitly: a malformed but well-sized
// ciphertext yields an implicitly rejected pseudorandom secret, which the
// session confirmation round-trip then exposes as a key mismatch.
func KyberDecapsulate(dk *KyberPrivateKey, ciphertext []byte) ([]byte, error) {
	if dk == nil || dk.key == nil {
		return nil, qerrors.ErrInvalidKeySize
	}

	if len(ciphertext) != constants.KyberCiphertextSize {
		return nil, qerrors.ErrInvalidCiphertext
	}

	ss := make([]byte, kyber768.SharedKeySize)
	dk.key.DecapsulateTo(ss, ciphertext)

	return ss, nil
}

// Bytes returns the packed encapsulation key.
func (pk *KyberPublicKey) Bytes() []byte {
	if pk == nil || pk.key == nil {
		return nil
	}
	buf := make([]byte, kyber768.PublicKeySize)
	pk.key.Pack(buf)
	return buf
}

// PublicKeyBytes returns the packed encapsulation key of the pair.
func (kp *KyberKeyPair) PublicKeyBytes() []byte {
	return kp.EncapsulationKey.Bytes()
}

// ParseKyberPublicKey parses a Kyber768 encapsulation key from its packed form.
func ParseKyberPublicKey(data []byte) (*KyberPublicKey, error) {
	if len(data) != constants.KyberPublicKeySize {
		return nil, qerrors.ErrInvalidPublicKey
	}

	pk := new(kyber768.PublicKey)
	pk.Unpack(data)

	return &KyberPublicKey{key: pk}, nil
}

// Zeroize drops the private key reference.
// CIRCL does not expose in-place zeroization of decapsulation keys.
func (kp *KyberKeyPair) Zeroize() {
	kp.DecapsulationKey = nil
	kp.EncapsulationKey = nil
}
