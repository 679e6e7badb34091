// aead.go implements authenticated encryption for established sessions.
//
// Sessions use AES-256-GCM exclusively, matching the channel protocol: there
// is no cipher negotiation, every handshake derives a 32-byte key and both
// sides seal records as nonce || ciphertext || tag.
//
// AES-256-GCM:
//   - AES: block cipher with 256-bit key, 128-bit blocks
//   - GCM: Galois/Counter Mode providing IND-CCA2 authenticated encryption
//   - Nonce: 96-bit, freshly random per record
//
// CRITICAL: nonce reuse under one key breaks GCM completely. Records here
// carry a fresh CSPRNG nonce. Session lifetimes are a handful of records
// (one confirmation round-trip plus test traffic), far below the 2^32
// random-nonce collision bound.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

// AEAD seals and opens session records with AES-256-GCM.
type AEAD struct {
	cipher cipher.AEAD
}

// NewAEAD creates an AEAD from a 32-byte session key.
func NewAEAD(key []byte) (*AEAD, error) {
	if len(key) != constants.AESKeySize {
		return nil, qerrors.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, qerrors.NewCryptoError("NewAEAD", err)
	}
	aeadCipher, err := cipher.NewGCM(block)
	if err != nil {
		return nil, qerrors.NewCryptoError("NewAEAD", err)
	}

	return &AEAD{cipher: aeadCipher}, nil
}

// Seal encrypts and authenticates plaintext, returning
// nonce || ciphertext || tag with a fresh random nonce.
func (a *AEAD) Seal(plaintext, additionalData []byte) ([]byte, error) {
	sealed := make([]byte, constants.AESNonceSize, constants.AESNonceSize+len(plaintext)+constants.AESTagSize)
	if err := SecureRandom(sealed[:constants.AESNonceSize]); err != nil {
		return nil, qerrors.NewCryptoError("AEAD.Seal", err)
	}

	return a.cipher.Seal(sealed, sealed[:constants.AESNonceSize], plaintext, additionalData), nil
}

// Open verifies and decrypts a sealed record produced by Seal.
// additionalData must match the value used during Seal.
func (a *AEAD) Open(sealed, additionalData []byte) ([]byte, error) {
	if len(sealed) < constants.MinSealedSize {
		return nil, qerrors.ErrCiphertextTooShort
	}

	nonce := sealed[:constants.AESNonceSize]
	encrypted := sealed[constants.AESNonceSize:]

	plaintext, err := a.cipher.Open(nil, nonce, encrypted, additionalData)
	if err != nil {
		return nil, qerrors.ErrAuthenticationFailed
	}

	return plaintext, nil
}

// OpenWithNonce verifies and decrypts a record whose nonce traveled
// separately from the ciphertext.
func (a *AEAD) OpenWithNonce(nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != constants.AESNonceSize {
		return nil, qerrors.ErrInvalidNonce
	}
	if len(ciphertext) < constants.AESTagSize {
		return nil, qerrors.ErrCiphertextTooShort
	}

	plaintext, err := a.cipher.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, qerrors.ErrAuthenticationFailed
	}

	return plaintext, nil
}

// Overhead returns the bytes added to each sealed record
// (nonce plus authentication tag).
func (a *AEAD) Overhead() int {
	return constants.AESNonceSize + a.cipher.Overhead()
}
