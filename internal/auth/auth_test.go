package auth

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	svc := NewService("secret", time.Minute)

	hash, err := svc.HashPassword("Abc1@")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "Abc1@" {
		t.Fatal("hash must not equal the plain password")
	}
	if !svc.VerifyPassword("Abc1@", hash) {
		t.Error("correct password did not verify")
	}
	if svc.VerifyPassword("Abc2@", hash) {
		t.Error("wrong password verified")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService("secret", time.Minute)

	token, err := svc.MintToken(42)
	if err != nil {
		t.Fatalf("MintToken returned error: %v", err)
	}
	userID, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if userID != 42 {
		t.Errorf("got user id %d, want 42", userID)
	}
}

func TestParseTokenExpired(t *testing.T) {
	svc := NewService("secret", -time.Minute)

	token, err := svc.MintToken(42)
	if err != nil {
		t.Fatalf("MintToken returned error: %v", err)
	}
	if _, err := svc.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	minter := NewService("secret-a", time.Minute)
	verifier := NewService("secret-b", time.Minute)

	token, err := minter.MintToken(42)
	if err != nil {
		t.Fatalf("MintToken returned error: %v", err)
	}
	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	svc := NewService("secret", time.Minute)
	if _, err := svc.ParseToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{"Ab1@", "aB3$", "Passw0rd!", "A1a@A1a@A1a@A1a@A1a@"}
	for _, p := range valid {
		if err := ValidatePassword(p); err != nil {
			t.Errorf("ValidatePassword(%q) = %v, want nil", p, err)
		}
	}

	invalid := map[string]string{
		"A1@":                   "no lowercase",
		"a1@":                   "no uppercase",
		"Ab@":                   "no digit",
		"Ab1":                   "no special",
		"Ab1@ ":                 "space not allowed",
		"Ab1@^":                 "character outside the allowed set",
		"A1@a1@A1@a1@A1@a1@A1@": "over 20 characters",
		"A@":                    "under 3 characters",
		"":                      "empty",
	}
	for p, reason := range invalid {
		if err := ValidatePassword(p); err == nil {
			t.Errorf("ValidatePassword(%q) = nil, want error (%s)", p, reason)
		}
	}
}
