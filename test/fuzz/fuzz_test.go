// Package fuzz provides fuzz tests for the parsers that handle peer input
// during handshakes.
//
// Run fuzz tests with:
//
//	go test -fuzz=FuzzParseKyberPublicKey -fuzztime=30s ./test/fuzz/
//	go test -fuzz=FuzzParseECDHPublicKeyPEM -fuzztime=30s ./test/fuzz/
//	go test -fuzz=FuzzAEADOpen -fuzztime=30s ./test/fuzz/
//
// Run all fuzz tests sequentially:
//
//	go test -fuzz=Fuzz -fuzztime=10s ./test/fuzz/
package fuzz

import (
	"testing"

	"github.com/pzverkov/pqbench/internal/constants"
	"github.com/pzverkov/pqbench/pkg/crypto"
)

// FuzzParseECDHPublicKeyPEM fuzzes the classical key exchange public key
// parser. The first handshake field an initiator sends is exactly this
// PEM blob, so the parser sees raw peer input.
func FuzzParseECDHPublicKeyPEM(f *testing.F) {
	kp, _ := crypto.GenerateECDHKeyPair()
	pem, _ := kp.PublicKeyPEM()
	f.Add(pem)

	f.Add([]byte{})
	f.Add([]byte("-----BEGIN PUBLIC KEY-----\n-----END PUBLIC KEY-----\n"))
	f.Add([]byte("-----BEGIN PUBLIC KEY-----\nAAAA\n-----END PUBLIC KEY-----\n"))
	f.Add(make([]byte, constants.ClassicalPublicKeyPEMSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Must not panic regardless of input.
		_, _ = crypto.ParseECDHPublicKeyPEM(data)
	})
}

// FuzzParseECDSAPublicKeyPEM fuzzes the signature verification key parser.
func FuzzParseECDSAPublicKeyPEM(f *testing.F) {
	kp, _ := crypto.GenerateECDSAKeyPair()
	pem, _ := kp.PublicKeyPEM()
	f.Add(pem)

	f.Add([]byte{})
	f.Add([]byte("-----BEGIN PUBLIC KEY-----\ngarbage\n-----END PUBLIC KEY-----\n"))
	f.Add(make([]byte, constants.ClassicalPublicKeyPEMSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = crypto.ParseECDSAPublicKeyPEM(data)
	})
}

// FuzzParseKyberPublicKey fuzzes the Kyber768 encapsulation key parser.
func FuzzParseKyberPublicKey(f *testing.F) {
	kp, _ := crypto.GenerateKyberKeyPair()
	f.Add(kp.PublicKeyBytes())

	f.Add([]byte{})
	f.Add(make([]byte, constants.KyberPublicKeySize-1))
	f.Add(make([]byte, constants.KyberPublicKeySize))
	f.Add(make([]byte, constants.KyberPublicKeySize+1))

	f.Fuzz(func(t *testing.T, data []byte) {
		pk, err := crypto.ParseKyberPublicKey(data)
		if err != nil {
			return
		}

		// A parsed key must re-serialize to the canonical size.
		if len(pk.Bytes()) != constants.KyberPublicKeySize {
			t.Errorf("reserialized public key has wrong size: %d", len(pk.Bytes()))
		}
	})
}

// FuzzParseMLDSAPublicKey fuzzes the ML-DSA-65 verification key parser.
func FuzzParseMLDSAPublicKey(f *testing.F) {
	kp, _ := crypto.GenerateMLDSAKeyPair()
	f.Add(kp.VerificationKeyBytes())

	f.Add([]byte{})
	f.Add(make([]byte, constants.MLDSAPublicKeySize-1))
	f.Add(make([]byte, constants.MLDSAPublicKeySize))
	f.Add(make([]byte, constants.MLDSAPublicKeySize+1))

	f.Fuzz(func(t *testing.T, data []byte) {
		pk, err := crypto.ParseMLDSAPublicKey(data)
		if err != nil {
			return
		}

		if len(pk.Bytes()) != constants.MLDSAPublicKeySize {
			t.Errorf("reserialized verification key has wrong size: %d", len(pk.Bytes()))
		}
	})
}

// FuzzKyberDecapsulate fuzzes decapsulation with arbitrary ciphertext.
// Kyber uses implicit rejection, so malformed ciphertext of the right size
// yields a random-looking secret rather than an error.
func FuzzKyberDecapsulate(f *testing.F) {
	kp, _ := crypto.GenerateKyberKeyPair()

	ct, _, _ := crypto.KyberEncapsulate(kp.EncapsulationKey)
	f.Add(ct)

	f.Add([]byte{})
	f.Add(make([]byte, constants.KyberCiphertextSize-1))
	f.Add(make([]byte, constants.KyberCiphertextSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Must not panic for any ciphertext.
		_, _ = crypto.KyberDecapsulate(kp.DecapsulationKey, data)
	})
}

// FuzzMLDSAVerify fuzzes signature verification with arbitrary signatures.
func FuzzMLDSAVerify(f *testing.F) {
	kp, _ := crypto.GenerateMLDSAKeyPair()
	message := []byte("fuzz verification message")
	sig, _ := kp.Sign(message)
	f.Add(sig)

	f.Add([]byte{})
	f.Add(make([]byte, constants.MLDSASignatureSize-1))
	f.Add(make([]byte, constants.MLDSASignatureSize))

	pub, err := crypto.ParseMLDSAPublicKey(kp.VerificationKeyBytes())
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		// Must not panic; only the genuine signature may verify.
		_ = crypto.MLDSAVerify(pub, message, data)
	})
}

// FuzzECDSAVerify fuzzes classical signature verification.
func FuzzECDSAVerify(f *testing.F) {
	kp, _ := crypto.GenerateECDSAKeyPair()
	message := []byte("fuzz verification message")
	sig, _ := kp.Sign(message)
	f.Add(sig)

	f.Add([]byte{})
	f.Add(make([]byte, constants.ClassicalSignatureSize-1))
	f.Add(make([]byte, constants.ClassicalSignatureSize))

	pem, _ := kp.PublicKeyPEM()
	pub, err := crypto.ParseECDSAPublicKeyPEM(pem)
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		_ = crypto.ECDSAVerify(pub, message, data)
	})
}

// FuzzAEADOpen fuzzes record decryption, the path that processes sealed
// confirmation records from the peer.
func FuzzAEADOpen(f *testing.F) {
	key := make([]byte, constants.AESKeySize)
	_ = crypto.SecureRandom(key)
	aead, _ := crypto.NewAEAD(key)

	sealed, _ := aead.Seal([]byte("fuzz plaintext"), nil)
	f.Add(sealed)

	f.Add([]byte{})
	f.Add(make([]byte, constants.AESNonceSize+constants.AESTagSize-1))
	f.Add(make([]byte, constants.AESNonceSize+constants.AESTagSize))
	f.Add(make([]byte, constants.AESNonceSize+constants.AESTagSize+100))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Must not panic; anything but an intact record must error.
		_, _ = aead.Open(data, nil)
	})
}

// FuzzDeriveKey fuzzes the KDF with arbitrary secrets and labels.
func FuzzDeriveKey(f *testing.F) {
	f.Add([]byte("secret"), "label")
	f.Add([]byte{}, "")
	f.Add(make([]byte, 1000), "pqbench session key")

	f.Fuzz(func(t *testing.T, secret []byte, info string) {
		key, err := crypto.DeriveKey(secret, info, constants.SessionKeySize)
		if err != nil {
			return
		}
		if len(key) != constants.SessionKeySize {
			t.Errorf("unexpected key length: %d", len(key))
		}
	})
}
