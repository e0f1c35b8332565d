package utils

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2-but-longer" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "hunter2-but-longer") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordClampsCost(t *testing.T) {
	if _, err := HashPassword("pw", 99); err != nil {
		t.Errorf("out-of-range cost should fall back to the default: %v", err)
	}
}
