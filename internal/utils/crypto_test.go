package utils

import (
	"strings"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptFieldRoundTrip(t *testing.T) {
	for _, plain := range []string{"12345678901", "x", "exactly-16-bytes", "a longer identity value spanning blocks"} {
		enc, err := EncryptField(testKey, plain)
		if err != nil {
			t.Fatalf("EncryptField(%q): %v", plain, err)
		}
		if !strings.Contains(enc, ":") {
			t.Fatalf("encoded value %q missing iv separator", enc)
		}
		if strings.Contains(enc, plain) {
			t.Errorf("ciphertext leaks plaintext: %q", enc)
		}
		got, err := DecryptField(testKey, enc)
		if err != nil {
			t.Fatalf("DecryptField: %v", err)
		}
		if got != plain {
			t.Errorf("round trip = %q, want %q", got, plain)
		}
	}
}

func TestEncryptFieldFreshIV(t *testing.T) {
	a, _ := EncryptField(testKey, "same value")
	b, _ := EncryptField(testKey, "same value")
	if a == b {
		t.Error("two encryptions of the same value should differ")
	}
}

func TestDecryptFieldMalformed(t *testing.T) {
	for _, enc := range []string{"", "nocolon", "zz:zz", "deadbeef:deadbeef", strings.Repeat("0", 32) + ":" + "abc"} {
		if _, err := DecryptField(testKey, enc); err == nil {
			t.Errorf("DecryptField(%q) expected error", enc)
		}
	}
}

func TestHashFieldDeterministic(t *testing.T) {
	a := HashField("192.168.1.1")
	b := HashField("192.168.1.1")
	if a != b {
		t.Error("same input should hash identically")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64", len(a))
	}
	if a == HashField("192.168.1.2") {
		t.Error("different inputs should not collide")
	}
}
