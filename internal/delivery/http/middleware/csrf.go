package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFFieldName is the hidden form field carrying the CSRF token.
const CSRFFieldName = "csrf_token"

// CSRFProtection guards the cookie-authenticated HTML forms. The JSON API is not
// wrapped. When secure is false (plain HTTP in development) requests are marked
// as plaintext so the strict TLS Referer check is skipped.
func CSRFProtection(authKey []byte, secure bool, onFailure http.Handler) func(http.Handler) http.Handler {
	if onFailure == nil {
		onFailure = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "CSRF token validation failed", http.StatusForbidden)
		})
	}
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(CSRFFieldName),
		csrf.ErrorHandler(onFailure),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// CSRFToken returns the masked token to embed in forms.
func CSRFToken(r *http.Request) string {
	return csrf.Token(r)
}

// CSRFFailureReason returns why gorilla/csrf rejected the request.
func CSRFFailureReason(r *http.Request) error {
	return csrf.FailureReason(r)
}
