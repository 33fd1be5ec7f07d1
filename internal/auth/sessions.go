package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/cache"
)

// Sessions maps opaque tokens to user IDs with a TTL. Tokens are random
// UUIDs handed to the browser in an HttpOnly cookie; the store is size
// bounded so abandoned sessions eventually fall out even without logout.
type Sessions struct {
	store *cache.LRUCache[int64]
}

func NewSessions(maxSessions int, ttl time.Duration) *Sessions {
	return &Sessions{store: cache.NewLRUCache[int64](maxSessions, ttl)}
}

// Create issues a fresh token for the user.
func (s *Sessions) Create(userID int64) string {
	token := uuid.NewString()
	s.store.Set(token, userID)
	return token
}

// Lookup resolves a token to a user ID.
func (s *Sessions) Lookup(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}
	return s.store.Get(token)
}

// Destroy invalidates a token. Unknown tokens are a no-op.
func (s *Sessions) Destroy(token string) {
	s.store.Delete(token)
}

// Prune drops expired sessions and returns how many were removed.
func (s *Sessions) Prune() int {
	return s.store.CleanExpired()
}
