package auth

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret")

	token, err := m.Issue(42)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("Issue returned empty token")
	}

	id, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id != 42 {
		t.Errorf("user id = %d, want 42", id)
	}
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	token, err := NewManager("secret-a").Issue(7)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := NewManager("secret-b").Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret")
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Errorf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Errorf("wrong password accepted")
	}
}
