// Package handler holds the HTTP error and JSON response helpers shared by
// the API handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/tally/internal/domain"
	"github.com/dukerupert/tally/internal/telemetry"
)

// errorBody is the JSON error envelope: {"error": {...}}.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Line    *int              `json:"line,omitempty"`
	Details any               `json:"details,omitempty"`
}

// ErrorCodeToHTTPStatus maps application error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNPROCESSABLE:
		return http.StatusUnprocessableEntity
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse writes err as JSON or plain text depending on the request.
// Internal errors are logged and reported; their details never reach the
// client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, err, nil)
}

// ErrorResponseWithDetails is ErrorResponse with an extra "details" member in
// the JSON body.
func ErrorResponseWithDetails(w http.ResponseWriter, r *http.Request, err error, details any) {
	writeError(w, r, err, details)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, details any) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)
	message := domain.ErrorMessage(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", code,
			"op", domain.ErrorOp(err),
			"error", err,
		)
		if code == domain.EINTERNAL {
			telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
				"path": r.URL.Path,
			})
		}
	}

	if !acceptsJSON(r) {
		http.Error(w, message, status)
		return
	}

	detail := errorDetail{
		Code:    code,
		Message: message,
		Line:    lineOf(err),
		Details: details,
	}
	if field := fieldOf(err); field != "" {
		detail.Fields = map[string]string{field: message}
	}
	WriteJSON(w, status, errorBody{Error: detail})
}

// ValidationErrorResponse writes a 400 with per-field messages. Errors that
// are not validation errors fall back to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsValidationError(err) {
		ErrorResponse(w, r, err)
		return
	}

	fields := domain.GetValidationFields(err)
	if !acceptsJSON(r) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	WriteJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    domain.EINVALID,
		Message: "Validation failed",
		Fields:  fields,
	}})
}

// NotFoundResponse writes a generic 404.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "Not found"))
}

// MethodNotAllowedResponse writes a generic 405.
func MethodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	if !acceptsJSON(r) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	WriteJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
		Code:    "method_not_allowed",
		Message: "Method not allowed",
	}})
}

// InternalErrorResponse writes a 500, wrapping err as an internal error.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "internal error"))
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// acceptsJSON reports whether the client wants a JSON response.
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json") || strings.HasPrefix(r.URL.Path, "/api/")
}

// lined is implemented by errors that point at one invoice line.
type lined interface {
	LineNumber() (int, bool)
}

// fielded is implemented by errors that concern one input field.
type fielded interface {
	FieldName() string
}

func lineOf(err error) *int {
	var l lined
	if errors.As(err, &l) {
		if n, ok := l.LineNumber(); ok {
			return &n
		}
	}
	return nil
}

func fieldOf(err error) string {
	var f fielded
	if errors.As(err, &f) {
		return f.FieldName()
	}
	return ""
}
