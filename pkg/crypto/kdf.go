// kdf.go implements session key derivation using HKDF-SHA256 (RFC 5869).
//
// HKDF follows the extract-then-expand paradigm:
//
//	PRK = HMAC-SHA256(salt, IKM)        (extract)
//	OKM = HMAC-SHA256(PRK, info || ctr) (expand, iterated)
//
// The handshakes feed their raw shared secrets through HKDF with a nil salt
// and the fixed info string "handshake data", producing uniformly
// distributed 32-byte AES-256 session keys regardless of the structure of
// the input secret (a 48-byte ECDH x coordinate, a 32-byte KEM secret, or
// both concatenated in hybrid mode).
package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// DeriveKey derives length bytes of key material from secret using
// HKDF-SHA256 with a nil salt and the given info string.
func DeriveKey(secret []byte, info string, length int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, qerrors.ErrInvalidKeySize
	}
	// HKDF expand caps output at 255 hash blocks.
	if length <= 0 || length > 255*sha256.Size {
		return nil, qerrors.NewCryptoError("DeriveKey", qerrors.ErrInvalidKeySize)
	}

	r := hkdf.New(sha256.New, secret, nil, []byte(info))
	out := make([]byte, length)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, qerrors.NewCryptoError("DeriveKey", err)
	}
	return out, nil
}

// DeriveSessionKey derives the 32-byte AES-256 session key from a handshake
// shared secret.
func DeriveSessionKey(secret []byte) ([]byte, error) {
	return DeriveKey(secret, constants.KDFInfoHandshake, constants.SessionKeySize)
}

// CombineSecrets derives one session key from multiple shared secrets by
// concatenating them in order and running the result through the session
// KDF. Hybrid handshakes combine their classical and post-quantum secrets
// this way, so the session key stays secure while either input does.
//
// Both sides must supply the secrets in the same order.
func CombineSecrets(secrets ...[]byte) ([]byte, error) {
	total := 0
	for _, s := range secrets {
		if len(s) == 0 {
			return nil, qerrors.ErrInvalidKeySize
		}
		total += len(s)
	}
	if total == 0 {
		return nil, qerrors.ErrInvalidKeySize
	}

	combined := make([]byte, 0, total)
	for _, s := range secrets {
		combined = append(combined, s...)
	}
	defer Zeroize(combined)

	return DeriveSessionKey(combined)
}
