// Package constants defines algorithm parameters, wire limits, and benchmark
// settings for the pqbench handshake benchmarking service.
//
// Three handshake configurations are benchmarked side by side: classical
// elliptic-curve (NIST P-384), post-quantum (Kyber768 + ML-DSA-65), and a
// hybrid of the two. The byte sizes below are fixed properties of those
// algorithms and are reported as constants, never measured at run time.
package constants

import "strings"

// Service identification
const (
	// ServiceName identifies this service in logs, health responses and metrics.
	ServiceName = "pqbench"

	// DefaultPort is the HTTP listen port when none is configured.
	DefaultPort = 8080
)

// Benchmark parameters
const (
	// IterationsPerMode is the fixed number of handshake repetitions per
	// selected mode. A run with k selected modes emits exactly
	// k * IterationsPerMode progress events before its result.
	IterationsPerMode = 50

	// MaxLatencyMS bounds the simulated one-way network latency in milliseconds.
	MaxLatencyMS = 200

	// MaxPacketLossPercent bounds the simulated packet loss percentage.
	MaxPacketLossPercent = 10
)

// Classical Parameters (NIST P-384, SEC 1 / RFC 5480)
const (
	// ClassicalCurveName is the named curve used for ECDH and ECDSA.
	ClassicalCurveName = "P-384"

	// ClassicalPointSize is the size of an uncompressed P-384 point in bytes
	// (0x04 prefix followed by two 48-byte coordinates).
	ClassicalPointSize = 97

	// ClassicalPublicKeyPEMSize is the size of a P-384 public key encoded as
	// PEM SubjectPublicKeyInfo, the format exchanged during the classical
	// handshake.
	ClassicalPublicKeyPEMSize = 215

	// ClassicalSharedSecretSize is the size of the raw ECDH shared secret in
	// bytes (the x coordinate of the shared point).
	ClassicalSharedSecretSize = 48

	// ClassicalSignatureSize is the size of a P-384 ECDSA signature in raw
	// fixed-width form (r and s, each left-padded to 48 bytes).
	ClassicalSignatureSize = 96
)

// Kyber768 Parameters (CRYSTALS-Kyber, round 3)
const (
	// KyberPublicKeySize is the size of a Kyber768 encapsulation key in bytes.
	KyberPublicKeySize = 1184

	// KyberPrivateKeySize is the size of a Kyber768 decapsulation key in bytes.
	KyberPrivateKeySize = 2400

	// KyberCiphertextSize is the size of a Kyber768 ciphertext in bytes.
	KyberCiphertextSize = 1088

	// KyberSharedSecretSize is the size of the Kyber768 shared secret in bytes.
	KyberSharedSecretSize = 32
)

// ML-DSA-65 Parameters (NIST FIPS 204)
// Category 3 signatures, paired with Kyber768 for the post-quantum mode.
const (
	// MLDSAPublicKeySize is the size of an ML-DSA-65 verification key in bytes.
	MLDSAPublicKeySize = 1952

	// MLDSAPrivateKeySize is the size of an ML-DSA-65 signing key in bytes.
	MLDSAPrivateKeySize = 4032

	// MLDSASignatureSize is the size of an ML-DSA-65 signature in bytes.
	MLDSASignatureSize = 3309
)

// Symmetric Encryption Parameters (AES-256-GCM)
const (
	// AESKeySize is the size of AES-256 session keys in bytes.
	AESKeySize = 32

	// AESNonceSize is the size of an AES-GCM nonce in bytes (96 bits).
	AESNonceSize = 12

	// AESTagSize is the size of the AES-GCM authentication tag in bytes.
	AESTagSize = 16
)

// Key Derivation Parameters (HKDF-SHA256)
const (
	// SessionKeySize is the size of derived session keys in bytes.
	SessionKeySize = 32

	// KDFInfoHandshake is the HKDF info string for handshake key derivation.
	KDFInfoHandshake = "handshake data"
)

// Handshake Wire Limits
//
// Every handshake field travels as a 4-byte big-endian length prefix followed
// by that many bytes.
const (
	// FieldLengthPrefixSize is the size of the length prefix in bytes.
	FieldLengthPrefixSize = 4

	// MaxFieldSize is the largest single field a peer may send. The biggest
	// legitimate field is an ML-DSA-65 signature; anything near this limit
	// indicates a broken or hostile peer.
	MaxFieldSize = 1 << 20

	// MinSealedSize is the minimum size of a valid sealed record
	// (nonce, tag, and at least one byte of payload).
	MinSealedSize = AESNonceSize + AESTagSize + 1
)

// Hybrid Sizes (classical + post-quantum, transmitted back to back)
const (
	// HybridPublicKeySize is the combined public key material of one hybrid
	// handshake: a PEM-encoded P-384 key plus a Kyber768 encapsulation key.
	HybridPublicKeySize = ClassicalPublicKeyPEMSize + KyberPublicKeySize

	// HybridSignatureSize is the combined signature material of one hybrid
	// handshake: one ECDSA P-384 signature plus one ML-DSA-65 signature.
	HybridSignatureSize = ClassicalSignatureSize + MLDSASignatureSize
)

// Mode identifies a benchmarked handshake configuration. The values are the
// lowercase identifiers used on the WebSocket wire.
type Mode string

const (
	// ModeClassical is the ECDH P-384 handshake authenticated with ECDSA P-384.
	ModeClassical Mode = "classical"

	// ModePQC is the Kyber768 handshake authenticated with ML-DSA-65.
	ModePQC Mode = "pqc"

	// ModeHybrid runs the classical and post-quantum handshakes back to back
	// and derives one session key from both shared secrets.
	ModeHybrid Mode = "hybrid"
)

// String returns the wire identifier of the mode.
func (m Mode) String() string {
	return string(m)
}

// DisplayName returns a human-readable name for reports and the dashboard.
func (m Mode) DisplayName() string {
	switch m {
	case ModeClassical:
		return "Classical"
	case ModePQC:
		return "PQC"
	case ModeHybrid:
		return "Hybrid"
	default:
		return "Unknown"
	}
}

// IsSupported returns true if the mode is one of the benchmarked configurations.
func (m Mode) IsSupported() bool {
	return m == ModeClassical || m == ModePQC || m == ModeHybrid
}

// PublicKeySize returns the public key bytes transmitted per handshake in
// this mode.
func (m Mode) PublicKeySize() int {
	switch m {
	case ModeClassical:
		return ClassicalPublicKeyPEMSize
	case ModePQC:
		return KyberPublicKeySize
	case ModeHybrid:
		return HybridPublicKeySize
	default:
		return 0
	}
}

// SignatureSize returns the signature bytes transmitted per handshake in
// this mode.
func (m Mode) SignatureSize() int {
	switch m {
	case ModeClassical:
		return ClassicalSignatureSize
	case ModePQC:
		return MLDSASignatureSize
	case ModeHybrid:
		return HybridSignatureSize
	default:
		return 0
	}
}

// AllModes returns the benchmarked modes in their fixed execution order.
// Runs always execute selected modes in this order regardless of the order
// they were requested in.
func AllModes() []Mode {
	return []Mode{ModeClassical, ModePQC, ModeHybrid}
}

// ParseMode normalizes a wire identifier to a Mode. The second return value
// is false for identifiers that are not benchmarked configurations.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	return m, m.IsSupported()
}
