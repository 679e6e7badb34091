package crypto

import (
	"bytes"
	"testing"

	"github.com/pzverkov/pqbench/internal/constants"
	qerrors "github.com/pzverkov/pqbench/internal/errors"
)

func TestECDHAgreement(t *testing.T) {
	alice, err := GenerateECDHKeyPair()
	if err != nil {
		t.Fatalf("generate alice: %v", err)
	}
	bob, err := GenerateECDHKeyPair()
	if err != nil {
		t.Fatalf("generate bob: %v", err)
	}

	alicePEM, err := alice.PublicKeyPEM()
	if err != nil {
		t.Fatalf("alice PEM: %v", err)
	}
	bobPEM, err := bob.PublicKeyPEM()
	if err != nil {
		t.Fatalf("bob PEM: %v", err)
	}

	bobPub, err := ParseECDHPublicKeyPEM(bobPEM)
	if err != nil {
		t.Fatalf("parse bob: %v", err)
	}
	alicePub, err := ParseECDHPublicKeyPEM(alicePEM)
	if err != nil {
		t.Fatalf("parse alice: %v", err)
	}

	s1, err := alice.SharedSecret(bobPub)
	if err != nil {
		t.Fatalf("alice shared: %v", err)
	}
	s2, err := bob.SharedSecret(alicePub)
	if err != nil {
		t.Fatalf("bob shared: %v", err)
	}

	if !bytes.Equal(s1, s2) {
		t.Error("shared secrets differ")
	}
	if len(s1) != constants.ClassicalSharedSecretSize {
		t.Errorf("expected %d-byte secret, got %d", constants.ClassicalSharedSecretSize, len(s1))
	}
}

func TestECDHPublicKeyPEMSize(t *testing.T) {
	kp, err := GenerateECDHKeyPair()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	pemBytes, err := kp.PublicKeyPEM()
	if err != nil {
		t.Fatalf("PEM: %v", err)
	}

	if len(pemBytes) != constants.ClassicalPublicKeyPEMSize {
		t.Errorf("expected PEM size %d, got %d", constants.ClassicalPublicKeyPEMSize, len(pemBytes))
	}
}

func TestParseECDHPublicKeyPEMRejectsGarbage(t *testing.T) {
	if _, err := ParseECDHPublicKeyPEM([]byte("not a pem block")); err == nil {
		t.Error("expected error for non-PEM input")
	}

	if _, err := ParseECDHPublicKeyPEM([]byte("-----BEGIN PUBLIC KEY-----\nYWJj\n-----END PUBLIC KEY-----\n")); err == nil {
		t.Error("expected error for malformed SPKI")
	}
}

func TestECDSASignVerify(t *testing.T) {
	signer, err := GenerateECDSAKeyPair()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	message := []byte("ephemeral key bytes")
	sig, err := signer.Sign(message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) != constants.ClassicalSignatureSize {
		t.Fatalf("expected %d-byte signature, got %d", constants.ClassicalSignatureSize, len(sig))
	}

	pemBytes, err := signer.PublicKeyPEM()
	if err != nil {
		t.Fatalf("PEM: %v", err)
	}
	pub, err := ParseECDSAPublicKeyPEM(pemBytes)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if err := ECDSAVerify(pub, message, sig); err != nil {
		t.Errorf("verify: %v", err)
	}

	// Tampered signature
	bad := append([]byte(nil), sig...)
	bad[10] ^= 0xff
	if err := ECDSAVerify(pub, message, bad); !qerrors.Is(err, qerrors.ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid for tampered signature, got %v", err)
	}

	// Tampered message
	if err := ECDSAVerify(pub, []byte("different message"), sig); !qerrors.Is(err, qerrors.ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid for wrong message, got %v", err)
	}

	// Wrong signature length
	if err := ECDSAVerify(pub, message, sig[:40]); !qerrors.Is(err, qerrors.ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid for short signature, got %v", err)
	}
}

func TestKyberEncapDecap(t *testing.T) {
	kp, err := GenerateKyberKeyPair()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	ekBytes := kp.PublicKeyBytes()
	if len(ekBytes) != constants.KyberPublicKeySize {
		t.Fatalf("expected %d-byte encapsulation key, got %d", constants.KyberPublicKeySize, len(ekBytes))
	}

	ek, err := ParseKyberPublicKey(ekBytes)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ct, ss1, err := KyberEncapsulate(ek)
	if err != nil {
		t.Fatalf("encapsulate: %v", err)
	}
	if len(ct) != constants.KyberCiphertextSize {
		t.Errorf("expected %d-byte ciphertext, got %d", constants.KyberCiphertextSize, len(ct))
	}
	if len(ss1) != constants.KyberSharedSecretSize {
		t.Errorf("expected %d-byte secret, got %d", constants.KyberSharedSecretSize, len(ss1))
	}

	ss2, err := KyberDecapsulate(kp.DecapsulationKey, ct)
	if err != nil {
		t.Fatalf("decapsulate: %v", err)
	}

	if !bytes.Equal(ss1, ss2) {
		t.Error("shared secrets differ")
	}
}

func TestKyberDecapsulateRejectsBadCiphertext(t *testing.T) {
	kp, err := GenerateKyberKeyPair()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := KyberDecapsulate(kp.DecapsulationKey, make([]byte, 17)); !qerrors.Is(err, qerrors.ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestKyberKeyPairFromSeedDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0x5a}, 64)

	kp1, err := NewKyberKeyPairFromSeed(seed)
	if err != nil {
		t.Fatalf("from seed: %v", err)
	}
	kp2, err := NewKyberKeyPairFromSeed(seed)
	if err != nil {
		t.Fatalf("from seed: %v", err)
	}

	if !bytes.Equal(kp1.PublicKeyBytes(), kp2.PublicKeyBytes()) {
		t.Error("same seed produced different encapsulation keys")
	}

	if _, err := NewKyberKeyPairFromSeed(seed[:16]); !qerrors.Is(err, qerrors.ErrInvalidKeySize) {
		t.Errorf("expected ErrInvalidKeySize for short seed, got %v", err)
	}
}

func TestMLDSASignVerify(t *testing.T) {
	kp, err := GenerateMLDSAKeyPair()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	message := []byte("encapsulation key bytes")
	sig, err := kp.Sign(message)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) != constants.MLDSASignatureSize {
		t.Fatalf("expected %d-byte signature, got %d", constants.MLDSASignatureSize, len(sig))
	}

	vkBytes := kp.VerificationKeyBytes()
	if len(vkBytes) != constants.MLDSAPublicKeySize {
		t.Fatalf("expected %d-byte verification key, got %d", constants.MLDSAPublicKeySize, len(vkBytes))
	}

	vk, err := ParseMLDSAPublicKey(vkBytes)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if err := MLDSAVerify(vk, message, sig); err != nil {
		t.Errorf("verify: %v", err)
	}

	bad := append([]byte(nil), sig...)
	bad[100] ^= 0x01
	if err := MLDSAVerify(vk, message, bad); !qerrors.Is(err, qerrors.ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid for tampered signature, got %v", err)
	}

	if err := MLDSAVerify(vk, []byte("other message"), sig); !qerrors.Is(err, qerrors.ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid for wrong message, got %v", err)
	}
}

func TestDeriveSessionKey(t *testing.T) {
	secret := bytes.Repeat([]byte{0x11}, 48)

	k1, err := DeriveSessionKey(secret)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(k1) != constants.SessionKeySize {
		t.Fatalf("expected %d-byte key, got %d", constants.SessionKeySize, len(k1))
	}

	k2, err := DeriveSessionKey(secret)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("derivation is not deterministic")
	}

	other, err := DeriveSessionKey(bytes.Repeat([]byte{0x22}, 48))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if bytes.Equal(k1, other) {
		t.Error("distinct secrets derived the same key")
	}

	if _, err := DeriveSessionKey(nil); !qerrors.Is(err, qerrors.ErrInvalidKeySize) {
		t.Errorf("expected ErrInvalidKeySize for empty secret, got %v", err)
	}
}

func TestCombineSecrets(t *testing.T) {
	a := bytes.Repeat([]byte{0xaa}, 48)
	b := bytes.Repeat([]byte{0xbb}, 32)

	k1, err := CombineSecrets(a, b)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	k2, err := CombineSecrets(a, b)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("combining is not deterministic")
	}

	// Order matters: both sides must combine in the same order.
	k3, err := CombineSecrets(b, a)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if bytes.Equal(k1, k3) {
		t.Error("swapped order derived the same key")
	}

	if _, err := CombineSecrets(a, nil); !qerrors.Is(err, qerrors.ErrInvalidKeySize) {
		t.Errorf("expected ErrInvalidKeySize for empty component, got %v", err)
	}
}

func TestAEADSealOpen(t *testing.T) {
	key, err := SecureRandomBytes(constants.AESKeySize)
	if err != nil {
		t.Fatalf("key: %v", err)
	}

	aead, err := NewAEAD(key)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	plaintext := []byte("handshake complete")
	sealed, err := aead.Seal(plaintext, nil)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if len(sealed) != len(plaintext)+aead.Overhead() {
		t.Errorf("expected sealed size %d, got %d", len(plaintext)+aead.Overhead(), len(sealed))
	}

	opened, err := aead.Open(sealed, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Error("plaintext mismatch after open")
	}
}

func TestAEADRejectsTamperedRecord(t *testing.T) {
	key := bytes.Repeat([]byte{0x07}, constants.AESKeySize)
	aead, err := NewAEAD(key)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	sealed, err := aead.Seal([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	sealed[len(sealed)-1] ^= 0x01
	if _, err := aead.Open(sealed, nil); !qerrors.Is(err, qerrors.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestAEADAdditionalDataMismatch(t *testing.T) {
	key := bytes.Repeat([]byte{0x07}, constants.AESKeySize)
	aead, err := NewAEAD(key)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	sealed, err := aead.Seal([]byte("payload"), []byte("ad-1"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	if _, err := aead.Open(sealed, []byte("ad-2")); !qerrors.Is(err, qerrors.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for AD mismatch, got %v", err)
	}
}

func TestAEADRejectsShortInputs(t *testing.T) {
	aead, err := NewAEAD(bytes.Repeat([]byte{0x07}, constants.AESKeySize))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := aead.Open(make([]byte, constants.MinSealedSize-1), nil); !qerrors.Is(err, qerrors.ErrCiphertextTooShort) {
		t.Errorf("expected ErrCiphertextTooShort, got %v", err)
	}

	if _, err := NewAEAD(make([]byte, 16)); !qerrors.Is(err, qerrors.ErrInvalidKeySize) {
		t.Errorf("expected ErrInvalidKeySize for short key, got %v", err)
	}
}

func TestSecureRandomBytes(t *testing.T) {
	a, err := SecureRandomBytes(32)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	b, err := SecureRandomBytes(32)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two random reads returned identical bytes")
	}
}

func TestZeroize(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zeroize(b)
	for i, v := range b {
		if v != 0 {
			t.Errorf("byte %d not zeroized: %d", i, v)
		}
	}
}
