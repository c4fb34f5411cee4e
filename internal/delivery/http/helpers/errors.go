package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventsapp/internal/domain"
)

// WriteServiceError maps a service error onto the API envelope. Unexpected
// errors are logged and reported without detail.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, domain.ErrDuplicateEmail.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidDate):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
	case errors.Is(err, domain.ErrUnauthenticated):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "not the owner of this event")
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "event not found")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
