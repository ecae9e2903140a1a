package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventconnect/internal/domain"
)

const internalErrorMessage = "an unexpected error occurred"

// WriteServiceError maps a service error to its HTTP status and envelope.
// Unknown errors are logged and answered with a generic 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrMalformedToken):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired token")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, domain.ErrForbidden.Error())
	case errors.Is(err, domain.ErrInvalidFile):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeInvalidFile, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, internalErrorMessage)
	}
}
