package domain

import (
	"context"
	"time"
)

// LoginSession is a server-side record of an authenticated browser or API client.
// Deleting it invalidates every token that references it.
type LoginSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Remember  bool      `json:"remember"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewLoginSession returns a session for userID that is valid for ttl from now.
func NewLoginSession(userID string, remember bool, now time.Time, ttl time.Duration) *LoginSession {
	return &LoginSession{
		UserID:    userID,
		Remember:  remember,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Expired reports whether the session is no longer valid at now.
func (s *LoginSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionClaims are the identities carried by a verified session token.
type SessionClaims struct {
	SessionID string
	UserID    string
	ExpiresAt time.Time
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(sessionID, userID string, expiresAt time.Time) (string, error)
}

// TokenVerifier verifies a session token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*SessionClaims, error)
}

// LoginSessionRepository defines storage for login sessions.
type LoginSessionRepository interface {
	Create(ctx context.Context, s *LoginSession) error
	GetByID(ctx context.Context, id string) (*LoginSession, error)
	Delete(ctx context.Context, id string) error
}
