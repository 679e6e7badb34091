// Package crypto provides the cryptographic primitives behind the benchmarked
// handshakes: classical ECDH/ECDSA over P-384, post-quantum Kyber768 and
// ML-DSA-65, HKDF-SHA256 key derivation, and AES-256-GCM session encryption.
// It wraps the standard library and CIRCL with consistent error handling;
// no primitive is implemented here.
//
// Security Note: all random number generation uses crypto/rand, which sources
// entropy from the operating system's CSPRNG.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// Reader is an io.Reader that returns cryptographically secure random bytes.
var Reader = rand.Reader

// SecureRandom reads cryptographically secure random bytes into the provided
// slice. An error here means the system CSPRNG failed and should be treated
// as a critical failure.
func SecureRandom(b []byte) error {
	if _, err := io.ReadFull(Reader, b); err != nil {
		return qerrors.NewCryptoError("SecureRandom", err)
	}
	return nil
}

// SecureRandomBytes returns n cryptographically secure random bytes.
func SecureRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := SecureRandom(b); err != nil {
		return nil, err
	}
	return b, nil
}

// ConstantTimeCompare compares two byte slices in constant time.
// Returns true if the slices are equal. Use for comparing secrets.
func ConstantTimeCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites sensitive data with zeros. Call on keys and shared
// secrets when they are no longer needed.
//
// Note: the runtime may already have copied the data; this limits exposure,
// it does not guarantee erasure.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
