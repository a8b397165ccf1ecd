// Package middleware provides the HTTP middleware of the tally API.
package middleware

import (
	"net/http"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/dukerupert/tally/internal/handler"
)

// contextKey is an unexported type for middleware context keys.
type contextKey string

// ============================================================================
// MIDDLEWARE ERROR RESPONSE HELPERS
// ============================================================================

// respondWithError logs err with the request-scoped logger and writes it the
// same way the handlers do.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := handler.ErrorCodeToHTTPStatus(code)

	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if status < http.StatusInternalServerError {
		GetLogger(r.Context()).Info("middleware error", attrs...)
	}

	handler.ErrorResponse(w, r, err)
}

// respondTooManyRequests is a convenience wrapper for 429 errors.
func respondTooManyRequests(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.ERATELIMIT, "", "Too many requests"))
}

// respondBadRequest is a convenience wrapper for 400 errors.
func respondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	respondWithError(w, r, domain.Errorf(domain.EINVALID, "", "%s", message))
}

// respondTooLarge is a convenience wrapper for 413 errors.
func respondTooLarge(w http.ResponseWriter, r *http.Request, message string) {
	respondWithError(w, r, domain.Errorf(domain.ETOOLARGE, "", "%s", message))
}

// respondTimeout is a convenience wrapper for requests cut off by Timeout.
func respondTimeout(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.EUNAVAILABLE, "", "Request timed out"))
}
