package utils

import "testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	access, err := NewAccessToken("test-secret", 42, "agency", 60)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	claims, err := ParseAccessToken("test-secret", access.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Role != "agency" {
		t.Errorf("role = %q, want agency", claims.Role)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	access, err := NewAccessToken("secret-a", 1, "guest", 60)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseAccessToken("secret-b", access.Token); err != ErrTokenInvalid {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	access, err := NewAccessToken("test-secret", 1, "guest", -5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseAccessToken("test-secret", access.Token); err != ErrTokenInvalid {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestAccessTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ParseAccessToken("test-secret", raw); err != ErrTokenInvalid {
			t.Errorf("ParseAccessToken(%q) err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}

func TestNewAccessTokenRequiresSecret(t *testing.T) {
	if _, err := NewAccessToken("", 1, "guest", 60); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(32)
	if err != nil {
		t.Fatalf("RandomHex: %v", err)
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
	b, _ := RandomHex(32)
	if a == b {
		t.Error("two tokens should not collide")
	}
}
