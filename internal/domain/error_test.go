package domain

import (
	"errors"
	"fmt"
	"testing"
)

// codedErr stands in for package-level error types such as the gst errors.
type codedErr struct {
	code string
	msg  string
}

func (e *codedErr) Error() string        { return "coded: " + e.msg }
func (e *codedErr) ErrorCode() string    { return e.code }
func (e *codedErr) ErrorMessage() string { return e.msg }

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "invalid input"},
			expected: "invalid input",
		},
		{
			name:     "with operation",
			err:      &Error{Code: EINVALID, Op: "invoice.verify", Message: "invalid input"},
			expected: "invoice.verify: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "invoice.get",
				Message: "failed to load",
				Err:     errors.New("connection refused"),
			},
			expected: "invoice.get: failed to load: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to load",
				Err:     errors.New("connection refused"),
			},
			expected: "failed to load: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &Error{Code: EINTERNAL, Message: "wrapped", Err: underlying}

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", &Error{Code: EINVALID, Message: "test"}, EINVALID},
		{"wrapped domain error", fmt.Errorf("wrapped: %w", &Error{Code: ENOTFOUND, Message: "test"}), ENOTFOUND},
		{"coded error", &codedErr{code: EUNPROCESSABLE, msg: "no lines"}, EUNPROCESSABLE},
		{"wrapped coded error", fmt.Errorf("verify: %w", &codedErr{code: ECONFLICT, msg: "mismatch"}), ECONFLICT},
		{"joined coded errors", errors.Join(&codedErr{code: ECONFLICT, msg: "a"}, &codedErr{code: ECONFLICT, msg: "b"}), ECONFLICT},
		{"non-domain error", errors.New("some error"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	const generic = "An internal error occurred. Please try again later."

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error with message", &Error{Code: EINVALID, Message: "invoice id must be a UUID"}, "invoice id must be a UUID"},
		{"internal error hides message", &Error{Code: EINTERNAL, Message: "dsn postgres://secret"}, generic},
		{"coded error", &codedErr{code: EINVALID, msg: "Line 2: igstRate must be zero"}, "Line 2: igstRate must be zero"},
		{"internal coded error hides message", &codedErr{code: EINTERNAL, msg: "stack"}, generic},
		{"non-domain error returns generic message", errors.New("some internal detail"), generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	if got := ErrorOp(&Error{Code: EINVALID, Op: "invoice.verify"}); got != "invoice.verify" {
		t.Errorf("ErrorOp() = %q, want %q", got, "invoice.verify")
	}
	if got := ErrorOp(errors.New("test")); got != "" {
		t.Errorf("ErrorOp() = %q, want empty", got)
	}
	if got := ErrorOp(nil); got != "" {
		t.Errorf("ErrorOp(nil) = %q, want empty", got)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(EINVALID, "invoice.get", "invalid invoice id: %s", "abc")

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatal("Errorf should return *Error")
	}
	if domainErr.Code != EINVALID {
		t.Errorf("Code = %q, want %q", domainErr.Code, EINVALID)
	}
	if domainErr.Message != "invalid invoice id: abc" {
		t.Errorf("Message = %q, want %q", domainErr.Message, "invalid invoice id: abc")
	}
}

func TestWrapError(t *testing.T) {
	t.Run("wraps non-nil error", func(t *testing.T) {
		underlying := errors.New("db error")
		err := WrapError(underlying, EINTERNAL, "invoice.get", "failed to load invoice")

		if ErrorCode(err) != EINTERNAL {
			t.Errorf("Code = %q, want %q", ErrorCode(err), EINTERNAL)
		}
		if !errors.Is(err, underlying) {
			t.Error("should wrap underlying error")
		}
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		if err := WrapError(nil, EINTERNAL, "test", "test"); err != nil {
			t.Errorf("WrapError(nil) should return nil, got %v", err)
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("single field error", func(t *testing.T) {
		err := NewValidationError("invoice.compute", "items", "items is required")

		expected := "invoice.compute: items: items is required"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
		if !IsValidationError(err) {
			t.Error("IsValidationError should be true")
		}
	})

	t.Run("multiple field errors", func(t *testing.T) {
		err := NewValidationError("invoice.compute", "items", "items is required")
		err = AddFieldError(err, "seller_state", "seller_state is required")

		fields := GetValidationFields(err)
		if len(fields) != 2 {
			t.Errorf("Fields count = %d, want 2", len(fields))
		}
	})

	t.Run("add field to nil error", func(t *testing.T) {
		err := AddFieldError(nil, "items", "items is required")
		if len(GetValidationFields(err)) != 1 {
			t.Error("AddFieldError(nil) should create a ValidationError with one field")
		}
	})

	t.Run("domain error is not a validation error", func(t *testing.T) {
		if IsValidationError(&Error{Code: EINVALID}) {
			t.Error("IsValidationError should be false for *Error")
		}
		if GetValidationFields(errors.New("x")) != nil {
			t.Error("GetValidationFields should return nil")
		}
	})
}

func TestConvenienceFunctions(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"NotFound", NotFound("invoice.get", "invoice", "abc-123"), ENOTFOUND},
		{"Invalid", Invalid("invoice.get", "bad id"), EINVALID},
		{"Conflict", Conflict("invoice.verify", "totals differ"), ECONFLICT},
		{"Internal", Internal(errors.New("db"), "invoice.get", "failed"), EINTERNAL},
		{"Unavailable", Unavailable("invoice.get", "database not configured"), EUNAVAILABLE},
		{"IsCode", ErrTenantMismatch, EFORBIDDEN},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsCode(tt.err, tt.code) {
				t.Errorf("code = %q, want %q", ErrorCode(tt.err), tt.code)
			}
		})
	}
}
