package store

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

const tokenBytes = 32 // 256 bits of entropy per session token

// session pairs a logged-in teacher with the token's expiry
type session struct {
	username  string
	expiresAt time.Time
}

// SessionRegistry maps opaque session tokens to logged-in teachers.
// All state is in-memory; restarting the process logs everyone out.
type SessionRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]session
}

// NewSessionRegistry creates a registry whose sessions expire after ttl
func NewSessionRegistry(ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		ttl:      ttl,
		sessions: make(map[string]session),
	}
}

// Create issues a new URL-safe random token for the given username
func (r *SessionRegistry) Create(username string) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = session{
		username:  username,
		expiresAt: time.Now().Add(r.ttl),
	}
	return token, nil
}

// Resolve returns the username for a token. Unknown and expired tokens both
// report not-ok; expired entries are evicted on the way out.
func (r *SessionRegistry) Resolve(token string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return "", false
	}
	if time.Now().After(s.expiresAt) {
		delete(r.sessions, token)
		return "", false
	}
	return s.username, true
}

// Destroy removes a session. Destroying an unknown token is a no-op.
func (r *SessionRegistry) Destroy(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}
