// Package errors defines error types for the pqbench handshake benchmarking
// service. These errors carry enough context for debugging without leaking
// key material or peer-controlled data into messages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for cryptographic operations
var (
	// ErrInvalidKeySize indicates that a key has an incorrect size
	ErrInvalidKeySize = errors.New("crypto: invalid key size")

	// ErrInvalidPublicKey indicates that a public key failed to parse or validate
	ErrInvalidPublicKey = errors.New("crypto: invalid public key")

	// ErrInvalidCiphertext indicates that a KEM ciphertext is malformed
	ErrInvalidCiphertext = errors.New("crypto: invalid ciphertext")

	// ErrKeyGenerationFailed indicates that key generation failed
	ErrKeyGenerationFailed = errors.New("crypto: key generation failed")

	// ErrSignatureInvalid indicates that signature verification failed
	ErrSignatureInvalid = errors.New("crypto: signature verification failed")

	// ErrSelfTestFailed indicates the power-on self-test found a broken primitive
	ErrSelfTestFailed = errors.New("crypto: self-test failed")
)

// Sentinel errors for AEAD operations
var (
	// ErrAuthenticationFailed indicates AEAD authentication/decryption failed
	ErrAuthenticationFailed = errors.New("aead: authentication failed")

	// ErrInvalidNonce indicates the nonce size is incorrect
	ErrInvalidNonce = errors.New("aead: invalid nonce size")

	// ErrCiphertextTooShort indicates ciphertext is too short to be valid
	ErrCiphertextTooShort = errors.New("aead: ciphertext too short")
)

// Sentinel errors for handshake wire operations
var (
	// ErrFieldTooLarge indicates a peer announced a field beyond the wire limit
	ErrFieldTooLarge = errors.New("handshake: field exceeds maximum size")

	// ErrShortRead indicates the connection closed mid-field
	ErrShortRead = errors.New("handshake: short read")

	// ErrConfirmFailed indicates the encrypted confirmation round-trip failed,
	// meaning the two sides derived different session keys
	ErrConfirmFailed = errors.New("handshake: session confirmation failed")

	// ErrUnsupportedMode indicates a handshake was requested for a mode the
	// service does not implement
	ErrUnsupportedMode = errors.New("handshake: unsupported mode")
)

// Sentinel errors for benchmark runs
var (
	// ErrNoModes indicates a run was requested with no valid modes
	ErrNoModes = errors.New("bench: no valid modes selected")

	// ErrRunAborted indicates the run was cancelled before completion
	ErrRunAborted = errors.New("bench: run aborted")
)

// CryptoError wraps a cryptographic error with the operation that failed
type CryptoError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewCryptoError creates a new CryptoError
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// HandshakeError wraps a handshake failure with the mode and phase it
// occurred in (e.g. "classical"/"exchange", "pqc"/"encapsulate")
type HandshakeError struct {
	Mode  string // Handshake mode being executed
	Phase string // Phase within the handshake
	Err   error  // Underlying error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("%s handshake %s: %v", e.Mode, e.Phase, e.Err)
}

func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// NewHandshakeError creates a new HandshakeError
func NewHandshakeError(mode, phase string, err error) *HandshakeError {
	return &HandshakeError{Mode: mode, Phase: phase, Err: err}
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
