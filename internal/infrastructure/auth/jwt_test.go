package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
)

func TestIssueAndValidateAccessToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	issuer := NewTokenIssuer(key, "vietsignschool", "vietsignschool")

	token, err := issuer.IssueAccessToken("user-123", "TEACHER", 900)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	userID, role, err := issuer.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-123" || role != "TEACHER" {
		t.Errorf("claims round trip: got (%q, %q)", userID, role)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	issuer := NewTokenIssuer(key, "vietsignschool", "vietsignschool")

	token, err := issuer.IssueAccessToken("user-123", "TEACHER", -60)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := issuer.ValidateAccessToken(token); err == nil {
		t.Error("expired token should not validate")
	}
}
