package crypto

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestEd25519_Generate(t *testing.T) {
	priv, pub, err := GenerateEd25519Key(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateEd25519Key() error = %v", err)
	}

	privRaw, _ := priv.Raw()
	if len(privRaw) != Ed25519PrivateKeySize {
		t.Errorf("PrivateKey.Raw() len = %d, want %d", len(privRaw), Ed25519PrivateKeySize)
	}

	pubRaw, _ := pub.Raw()
	if len(pubRaw) != Ed25519PublicKeySize {
		t.Errorf("PublicKey.Raw() len = %d, want %d", len(pubRaw), Ed25519PublicKeySize)
	}
}

func TestEd25519_SignVerify(t *testing.T) {
	priv, pub, _ := GenerateEd25519Key(rand.Reader)
	data := []byte("test message")

	sig, err := priv.Sign(data)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if len(sig) != Ed25519SignatureSize {
		t.Errorf("Sign() len = %d, want %d", len(sig), Ed25519SignatureSize)
	}

	valid, err := pub.Verify(data, sig)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !valid {
		t.Error("Verify() = false, want true")
	}

	// 验证错误数据
	valid, _ = pub.Verify([]byte("wrong message"), sig)
	if valid {
		t.Error("Verify(badData) = true, want false")
	}

	// 验证截断签名
	valid, _ = pub.Verify(data, sig[:32])
	if valid {
		t.Error("Verify(shortSig) = true, want false")
	}
}

func TestEd25519_UnmarshalRoundTrip(t *testing.T) {
	priv, pub, _ := GenerateEd25519Key(rand.Reader)

	privRaw, _ := priv.Raw()
	priv2, err := UnmarshalEd25519PrivateKey(privRaw)
	if err != nil {
		t.Fatalf("UnmarshalEd25519PrivateKey() error = %v", err)
	}
	if !priv.Equals(priv2) {
		t.Error("unmarshalled private key not equal to original")
	}

	pubRaw, _ := pub.Raw()
	pub2, err := UnmarshalEd25519PublicKey(pubRaw)
	if err != nil {
		t.Fatalf("UnmarshalEd25519PublicKey() error = %v", err)
	}
	if !pub.Equals(pub2) {
		t.Error("unmarshalled public key not equal to original")
	}
}

func TestEd25519_UnmarshalSeed(t *testing.T) {
	priv, _, _ := GenerateEd25519Key(rand.Reader)
	seed := priv.(*Ed25519PrivateKey).Seed()

	priv2, err := UnmarshalEd25519PrivateKey(seed)
	if err != nil {
		t.Fatalf("UnmarshalEd25519PrivateKey(seed) error = %v", err)
	}

	r1, _ := priv.Raw()
	r2, _ := priv2.Raw()
	if !bytes.Equal(r1, r2) {
		t.Error("seed-derived private key mismatch")
	}
}

func TestEd25519_UnmarshalBadSize(t *testing.T) {
	if _, err := UnmarshalEd25519PrivateKey(make([]byte, 33)); err == nil {
		t.Error("UnmarshalEd25519PrivateKey(33 bytes) error = nil, want error")
	}
	if _, err := UnmarshalEd25519PublicKey(make([]byte, 31)); err == nil {
		t.Error("UnmarshalEd25519PublicKey(31 bytes) error = nil, want error")
	}
}
