package gst

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ============================================================================
// GST ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.
// The handler layer maps these to HTTP status codes.

const (
	codeInvalid       = "invalid"
	codeUnprocessable = "unprocessable"
	codeConflict      = "conflict"
)

// ContextIndex is the Index reported by errors that concern the transaction
// context rather than a line item.
const ContextIndex = -1

// ============================================================================
// VALIDATION
// ============================================================================

// ValidationError reports malformed or out-of-range input at the line level,
// or a transaction context that contradicts itself.
type ValidationError struct {
	// Index is the zero-based line index, or ContextIndex.
	Index  int
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index == ContextIndex {
		return fmt.Sprintf("gst: invalid transaction context: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("gst: line %d: %s %s", e.Index+1, e.Field, e.Reason)
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *ValidationError) ErrorCode() string {
	return codeInvalid
}

// ErrorMessage returns the user-facing message.
func (e *ValidationError) ErrorMessage() string {
	if e.Index == ContextIndex {
		return fmt.Sprintf("Invalid transaction: %s %s (got %s)", e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("Line %d: %s %s (got %s)", e.Index+1, e.Field, e.Reason, e.Value)
}

// LineNumber returns the one-based line number, or false for context errors.
func (e *ValidationError) LineNumber() (int, bool) {
	return e.Index + 1, e.Index != ContextIndex
}

// FieldName returns the offending input field.
func (e *ValidationError) FieldName() string {
	return e.Field
}

func invalidLine(index int, field string, value decimal.Decimal, reason string) *ValidationError {
	return &ValidationError{Index: index, Field: field, Value: value.String(), Reason: reason}
}

// ============================================================================
// AGGREGATION
// ============================================================================

// AggregationError reports a structural problem with the invoice as a whole.
type AggregationError struct {
	// Index is the offending line, or ContextIndex when no line is involved.
	Index  int
	Reason string
	Err    error
}

func (e *AggregationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gst: aggregation failed: %s: %v", e.Reason, e.Err)
	}
	return "gst: aggregation failed: " + e.Reason
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *AggregationError) ErrorCode() string {
	return codeUnprocessable
}

// ErrorMessage returns the user-facing message.
func (e *AggregationError) ErrorMessage() string {
	if e.Index != ContextIndex {
		return fmt.Sprintf("Invoice cannot be totalled: line %d %s", e.Index+1, e.Reason)
	}
	return "Invoice cannot be totalled: " + e.Reason
}

// LineNumber returns the one-based line number, or false when no line is
// involved.
func (e *AggregationError) LineNumber() (int, bool) {
	return e.Index + 1, e.Index != ContextIndex
}

// ErrNoLineItems is returned when an invoice has no lines.
var ErrNoLineItems = &AggregationError{Index: ContextIndex, Reason: "invoice must have at least one line item"}

// ============================================================================
// CONSISTENCY
// ============================================================================

// ConsistencyError reports a supplied total that disagrees with the recomputed
// value by more than the tolerance.
type ConsistencyError struct {
	Field    string          `json:"field"`
	Expected decimal.Decimal `json:"expected"`
	Actual   decimal.Decimal `json:"actual"`
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("gst: %s mismatch: expected %s, got %s",
		e.Field, e.Expected.StringFixed(2), e.Actual.StringFixed(2))
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *ConsistencyError) ErrorCode() string {
	return codeConflict
}

// ErrorMessage returns the user-facing message.
func (e *ConsistencyError) ErrorMessage() string {
	return fmt.Sprintf("Stored %s (%s) does not match the computed value (%s)",
		e.Field, e.Actual.StringFixed(2), e.Expected.StringFixed(2))
}

// Difference returns Actual - Expected.
func (e *ConsistencyError) Difference() decimal.Decimal {
	return e.Actual.Sub(e.Expected)
}

// ConsistencyErrors extracts every ConsistencyError joined into err, in order.
func ConsistencyErrors(err error) []*ConsistencyError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*ConsistencyError
		for _, e := range joined.Unwrap() {
			out = append(out, ConsistencyErrors(e)...)
		}
		return out
	}
	var ce *ConsistencyError
	if errors.As(err, &ce) {
		return []*ConsistencyError{ce}
	}
	return nil
}
