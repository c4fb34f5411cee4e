package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	h "eventsapp/internal/delivery/http/helpers"
	"eventsapp/internal/domain"
)

// SessionCookieName is the cookie carrying the session token on both surfaces.
const SessionCookieName = "eventsapp_session"

// LoginPath is where RequireLogin sends anonymous browsers.
const LoginPath = "/login/"

type contextKey string

const sessionKey contextKey = "session"

type session struct {
	user  *domain.User
	token string
}

// WithUser returns a context carrying the authenticated user and the token that resolved it.
func WithUser(ctx context.Context, user *domain.User, token string) context.Context {
	return context.WithValue(ctx, sessionKey, &session{user: user, token: token})
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	s, ok := ctx.Value(sessionKey).(*session)
	if !ok || s.user == nil {
		return nil, false
	}
	return s.user, true
}

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return "", false
	}
	return u.ID, true
}

// SessionToken returns the raw token presented by the request: the Bearer token
// if an Authorization header is set, otherwise the session cookie.
func SessionToken(r *http.Request) string {
	if auth := strings.TrimSpace(r.Header.Get("Authorization")); auth != "" {
		const prefix = "Bearer "
		if strings.HasPrefix(auth, prefix) {
			return strings.TrimSpace(auth[len(prefix):])
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

// LoadSession resolves the request's token to a user and stores it in the context.
// Requests without a valid session continue anonymously.
func LoadSession(auth domain.AuthService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, err := auth.CurrentUser(r.Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					logger.ErrorContext(r.Context(), "session lookup failed", "path", r.URL.Path, "err", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, token)))
		})
	}
}

// RequireAPIAuth responds 401 with the JSON envelope when the request has no session.
func RequireAPIAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// RequireLogin redirects anonymous browsers to the login page, remembering where they were going.
func RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next(w, r)
	}
}

// SafeNext returns next when it is a local path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

// SetSessionCookie stores the login token. Remembered logins get a persistent
// cookie; others last until the browser closes.
func SetSessionCookie(w http.ResponseWriter, res *domain.LoginResult, secure bool) {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Value:    res.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if res.Remember {
		c.Expires = res.ExpiresAt
		c.MaxAge = int(time.Until(res.ExpiresAt).Seconds())
	}
	http.SetCookie(w, c)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
