package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BOBWANDATI/backend/internal/auth"
	"github.com/BOBWANDATI/backend/pkg/e"
)

func newManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", 24*time.Hour, 48*time.Hour)
}

func TestApprovalToken_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newManager()
	id := uuid.New()

	token, err := m.MintApprovalToken(id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, err := m.VerifyApprovalToken(token)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != id {
		t.Fatalf("got %s, want %s", got, id)
	}
}

func TestSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()

	m := newManager()
	id := uuid.New()

	token, err := m.MintSessionToken(id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, err := m.VerifySessionToken(token)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != id {
		t.Fatalf("got %s, want %s", got, id)
	}
}

func TestVerify_PurposeMismatch(t *testing.T) {
	t.Parallel()

	m := newManager()
	id := uuid.New()

	session, err := m.MintSessionToken(id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// A login session token must not open the approval endpoint.
	if _, err := m.VerifyApprovalToken(session); !errors.Is(err, e.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	approval, err := m.MintApprovalToken(id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := m.VerifySessionToken(approval); !errors.Is(err, e.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	token, err := newManager().MintApprovalToken(id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	other := auth.NewTokenManager("another-secret", time.Hour, time.Hour)
	if _, err := other.VerifyApprovalToken(token); !errors.Is(err, e.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := auth.NewTokenManager("test-secret", -time.Minute, -time.Minute)
	token, err := m.MintApprovalToken(uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := m.VerifyApprovalToken(token); !errors.Is(err, e.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	m := newManager()
	for _, s := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.VerifyApprovalToken(s); !errors.Is(err, e.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", s, err)
		}
	}
}

func TestPassword_HashAndCheck(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("correct-horse-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if hash == "correct-horse-1" {
		t.Fatalf("hash equals plaintext")
	}

	if err := auth.CheckPassword("correct-horse-1", hash); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := auth.CheckPassword("wrong", hash); !errors.Is(err, e.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
