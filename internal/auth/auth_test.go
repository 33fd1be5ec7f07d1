package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("wrong password accepted")
	}
	if CheckPassword("not-a-hash", "hunter2") {
		t.Error("garbage hash accepted")
	}
}

func TestHashPasswordBadCostFallsBack(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	if err != nil {
		t.Fatalf("HashPassword with out-of-range cost: %v", err)
	}
	if !CheckPassword(hash, "pw") {
		t.Error("fallback-cost hash does not verify")
	}
}

func TestSessionsLifecycle(t *testing.T) {
	s := NewSessions(10, time.Minute)

	token := s.Create(42)
	if token == "" {
		t.Fatal("empty token")
	}

	if id, ok := s.Lookup(token); !ok || id != 42 {
		t.Errorf("Lookup = %d, %v; want 42, true", id, ok)
	}
	if _, ok := s.Lookup(""); ok {
		t.Error("empty token resolved")
	}
	if _, ok := s.Lookup("bogus"); ok {
		t.Error("unknown token resolved")
	}

	other := s.Create(7)
	if other == token {
		t.Error("tokens are not unique")
	}

	s.Destroy(token)
	if _, ok := s.Lookup(token); ok {
		t.Error("destroyed session still resolves")
	}
	if id, ok := s.Lookup(other); !ok || id != 7 {
		t.Error("unrelated session lost")
	}
}

func TestSessionsExpire(t *testing.T) {
	s := NewSessions(10, 10*time.Millisecond)

	token := s.Create(1)
	time.Sleep(25 * time.Millisecond)

	if _, ok := s.Lookup(token); ok {
		t.Error("expired session resolved")
	}
	s.Create(2)
	if n := s.Prune(); n != 0 {
		// The expired token was already dropped by Lookup.
		t.Errorf("Prune() = %d, want 0", n)
	}
}
