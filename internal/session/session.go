package session

import (
	"context"
	"errors"
	"time"

	"github.com/destrangis/odre/internal/auth"
)

var (
	// ErrNotFound means the token resolves to no live session.
	ErrNotFound = errors.New("session: not found")
	// ErrExpired means the session existed but its expiry has passed.
	// Treated like ErrNotFound for responses, kept apart for logging.
	ErrExpired = errors.New("session: expired")
	// ErrTokenExists means Create was called with a token already held by
	// the store. With 256-bit tokens this is collision territory; callers
	// regenerate and retry once.
	ErrTokenExists = errors.New("session: token already exists")
)

// Session binds a token to a user identity and an expiry.
type Session struct {
	Token     string         `json:"token"`
	UserID    string         `json:"user_id"`
	Username  string         `json:"username"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// New mints a session for the given identity with a fresh token.
func New(id *auth.Identity, lifetime time.Duration) (Session, error) {
	token, err := GenerateToken()
	if err != nil {
		return Session{}, err
	}
	now := time.Now()
	return Session{
		Token:     token,
		UserID:    id.UserID,
		Username:  id.Username,
		Data:      id.Data,
		CreatedAt: now,
		ExpiresAt: now.Add(lifetime),
	}, nil
}

// Identity returns the identity record bound to the session.
func (s *Session) Identity() *auth.Identity {
	return &auth.Identity{
		UserID:   s.UserID,
		Username: s.Username,
		Data:     s.Data,
	}
}

// IsExpired reports whether the session's expiry has passed.
func (s *Session) IsExpired() bool {
	return !time.Now().Before(s.ExpiresAt)
}

// Store defines how sessions are persisted. Implementations must be safe
// for concurrent use; a Get either sees a fully written session or none.
type Store interface {
	// Create persists a new session. Fails with ErrTokenExists when the
	// token is already live.
	Create(ctx context.Context, s Session) error
	// Get resolves a token. Expired sessions are removed lazily and
	// reported as ErrExpired.
	Get(ctx context.Context, token string) (*Session, error)
	// Delete invalidates a session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
