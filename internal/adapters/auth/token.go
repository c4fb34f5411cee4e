package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventsapp/internal/domain"
)

// ErrInvalidToken is returned when a session token is malformed, badly signed or expired.
var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	jwt.RegisteredClaims
}

// SessionTokens signs and verifies HS256 session tokens. The token carries the
// login session id (jti) and the user id (sub); it is only honoured while the
// referenced login session exists server side.
type SessionTokens struct {
	secret []byte
	now    func() time.Time
}

var (
	_ domain.TokenIssuer   = (*SessionTokens)(nil)
	_ domain.TokenVerifier = (*SessionTokens)(nil)
)

func NewSessionTokens(secret string) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), now: time.Now}
}

func (s *SessionTokens) Issue(sessionID, userID string, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *SessionTokens) Verify(tokenString string) (*domain.SessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing session or subject", ErrInvalidToken)
	}
	return &domain.SessionClaims{
		SessionID: claims.ID,
		UserID:    claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}
