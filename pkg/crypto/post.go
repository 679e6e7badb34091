// post.go implements the power-on self-test for the benchmark's primitives.
//
// POST is production code, not test code: it runs once at package load and
// verifies that every primitive the benchmark measures actually works in
// this binary before any handshake is timed. A corrupted build or broken
// dependency fails loudly at startup instead of producing garbage timings,
// and the dashboard's readiness endpoint reports the result.
//
// The checks are pairwise consistency tests (both ends of each primitive
// agree) plus negative tests (tampered inputs are rejected). KEM and
// signature key pairs are derived from fixed seeds so the checks are
// deterministic.
package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sync"
)

// Fixed seeds for deterministic self-test key generation.
var (
	postKyberSeed, _ = hex.DecodeString(
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef" +
			"fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210")

	postMLDSASeed, _ = hex.DecodeString(
		"00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
)

// postMessage is the message signed during signature self-tests.
var postMessage = []byte("pqbench-self-test")

// SelfTestResult contains the results of the power-on self-test.
type SelfTestResult struct {
	Passed          bool
	ClassicalPassed bool
	KEMPassed       bool
	SignaturePassed bool
	AEADPassed      bool
	KDFPassed       bool
	Errors          []string
}

var (
	selfTestResult *SelfTestResult
	selfTestOnce   sync.Once
	selfTestRan    bool
)

// RunSelfTest executes the power-on self-test and returns the results.
// Safe to call multiple times; the checks only run once.
func RunSelfTest() *SelfTestResult {
	selfTestOnce.Do(func() {
		selfTestResult = &SelfTestResult{Passed: true}

		record := func(name string, passed *bool, err error) {
			if err != nil {
				*passed = false
				selfTestResult.Passed = false
				selfTestResult.Errors = append(selfTestResult.Errors, fmt.Sprintf("%s: %v", name, err))
				return
			}
			*passed = true
		}

		record("classical", &selfTestResult.ClassicalPassed, runClassicalSelfTest())
		record("kem", &selfTestResult.KEMPassed, runKEMSelfTest())
		record("signature", &selfTestResult.SignaturePassed, runSignatureSelfTest())
		record("aead", &selfTestResult.AEADPassed, runAEADSelfTest())
		record("kdf", &selfTestResult.KDFPassed, runKDFSelfTest())

		selfTestRan = true
	})

	return selfTestResult
}

// SelfTestRan returns true if the self-test has been executed.
func SelfTestRan() bool {
	return selfTestRan
}

// SelfTestPassed returns true if the self-test has run and every check passed.
func SelfTestPassed() bool {
	if selfTestResult == nil {
		return false
	}
	return selfTestResult.Passed
}

// runClassicalSelfTest verifies ECDH agreement and ECDSA sign/verify through
// the same PEM round-trips the classical handshake performs.
func runClassicalSelfTest() error {
	alice, err := GenerateECDHKeyPair()
	if err != nil {
		return fmt.Errorf("ECDH keygen: %w", err)
	}
	bob, err := GenerateECDHKeyPair()
	if err != nil {
		return fmt.Errorf("ECDH keygen: %w", err)
	}

	alicePEM, err := alice.PublicKeyPEM()
	if err != nil {
		return fmt.Errorf("ECDH encode: %w", err)
	}
	bobPEM, err := bob.PublicKeyPEM()
	if err != nil {
		return fmt.Errorf("ECDH encode: %w", err)
	}

	bobPub, err := ParseECDHPublicKeyPEM(bobPEM)
	if err != nil {
		return fmt.Errorf("ECDH parse: %w", err)
	}
	alicePub, err := ParseECDHPublicKeyPEM(alicePEM)
	if err != nil {
		return fmt.Errorf("ECDH parse: %w", err)
	}

	s1, err := alice.SharedSecret(bobPub)
	if err != nil {
		return fmt.Errorf("ECDH agree: %w", err)
	}
	s2, err := bob.SharedSecret(alicePub)
	if err != nil {
		return fmt.Errorf("ECDH agree: %w", err)
	}
	if !ConstantTimeCompare(s1, s2) {
		return fmt.Errorf("ECDH shared secrets differ")
	}

	signer, err := GenerateECDSAKeyPair()
	if err != nil {
		return fmt.Errorf("ECDSA keygen: %w", err)
	}
	sig, err := signer.Sign(alicePEM)
	if err != nil {
		return fmt.Errorf("ECDSA sign: %w", err)
	}

	signerPEM, err := signer.PublicKeyPEM()
	if err != nil {
		return fmt.Errorf("ECDSA encode: %w", err)
	}
	verKey, err := ParseECDSAPublicKeyPEM(signerPEM)
	if err != nil {
		return fmt.Errorf("ECDSA parse: %w", err)
	}

	if err := ECDSAVerify(verKey, alicePEM, sig); err != nil {
		return fmt.Errorf("ECDSA verify: %w", err)
	}

	tampered := append([]byte(nil), sig...)
	tampered[0] ^= 0x01
	if err := ECDSAVerify(verKey, alicePEM, tampered); err == nil {
		return fmt.Errorf("ECDSA accepted a tampered signature")
	}

	return nil
}

// runKEMSelfTest verifies Kyber768 encapsulate/decapsulate consistency using
// a deterministic key pair and the packed public key form used on the wire.
func runKEMSelfTest() error {
	kp, err := NewKyberKeyPairFromSeed(postKyberSeed)
	if err != nil {
		return fmt.Errorf("keygen from seed: %w", err)
	}

	ekBytes := kp.PublicKeyBytes()
	ek, err := ParseKyberPublicKey(ekBytes)
	if err != nil {
		return fmt.Errorf("parse encapsulation key: %w", err)
	}

	ct, ss1, err := KyberEncapsulate(ek)
	if err != nil {
		return fmt.Errorf("encapsulate: %w", err)
	}

	ss2, err := KyberDecapsulate(kp.DecapsulationKey, ct)
	if err != nil {
		return fmt.Errorf("decapsulate: %w", err)
	}

	if !ConstantTimeCompare(ss1, ss2) {
		return fmt.Errorf("shared secrets differ after decapsulation")
	}

	return nil
}

// runSignatureSelfTest verifies ML-DSA-65 sign/verify using a deterministic
// key pair and the packed verification key form used on the wire.
func runSignatureSelfTest() error {
	kp, err := NewMLDSAKeyPairFromSeed(postMLDSASeed)
	if err != nil {
		return fmt.Errorf("keygen from seed: %w", err)
	}

	sig, err := kp.Sign(postMessage)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	vk, err := ParseMLDSAPublicKey(kp.VerificationKeyBytes())
	if err != nil {
		return fmt.Errorf("parse verification key: %w", err)
	}

	if err := MLDSAVerify(vk, postMessage, sig); err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if err := MLDSAVerify(vk, append([]byte("x"), postMessage...), sig); err == nil {
		return fmt.Errorf("accepted a signature over a different message")
	}

	return nil
}

// runAEADSelfTest verifies an AES-256-GCM seal/open round-trip and that a
// flipped ciphertext bit is rejected.
func runAEADSelfTest() error {
	key, err := SecureRandomBytes(32)
	if err != nil {
		return fmt.Errorf("key generation: %w", err)
	}

	aead, err := NewAEAD(key)
	if err != nil {
		return fmt.Errorf("cipher init: %w", err)
	}

	sealed, err := aead.Seal(postMessage, nil)
	if err != nil {
		return fmt.Errorf("seal: %w", err)
	}

	opened, err := aead.Open(sealed, nil)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if !bytes.Equal(opened, postMessage) {
		return fmt.Errorf("plaintext mismatch after open")
	}

	sealed[len(sealed)-1] ^= 0x01
	if _, err := aead.Open(sealed, nil); err == nil {
		return fmt.Errorf("accepted a tampered record")
	}

	return nil
}

// runKDFSelfTest verifies that session key derivation is deterministic and
// input-sensitive.
func runKDFSelfTest() error {
	secret := bytes.Repeat([]byte{0x42}, 48)

	k1, err := DeriveSessionKey(secret)
	if err != nil {
		return fmt.Errorf("derive: %w", err)
	}
	k2, err := DeriveSessionKey(secret)
	if err != nil {
		return fmt.Errorf("derive: %w", err)
	}
	if !bytes.Equal(k1, k2) {
		return fmt.Errorf("derivation is not deterministic")
	}
	if len(k1) != 32 {
		return fmt.Errorf("derived key is %d bytes, want 32", len(k1))
	}

	secret[0] ^= 0x01
	k3, err := DeriveSessionKey(secret)
	if err != nil {
		return fmt.Errorf("derive: %w", err)
	}
	if bytes.Equal(k1, k3) {
		return fmt.Errorf("distinct secrets derived the same key")
	}

	return nil
}

// init runs the self-test automatically when the package is loaded.
func init() {
	RunSelfTest()
}
