package events

// ============================================================================
// EVENT ERROR CODES
// ============================================================================
// These constants mirror domain error codes to avoid circular imports.
// The handler layer maps these to HTTP status codes.

const (
	codeInternal    = "internal"
	codeInvalid     = "invalid"
	codeUnavailable = "unavailable"
)

// EventError represents a publishing error with a code and message.
type EventError struct {
	Code    string
	Message string
	Err     error
}

func (e *EventError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *EventError) ErrorCode() string {
	return e.Code
}

// ErrorMessage returns the user-facing message.
func (e *EventError) ErrorMessage() string {
	return e.Message
}

var (
	// ErrNoSubject is returned when a publisher is created without a subject.
	ErrNoSubject = &EventError{Code: codeInvalid, Message: "Event subject is required"}

	// ErrClosed is returned when publishing after Close.
	ErrClosed = &EventError{Code: codeUnavailable, Message: "Event publisher is closed"}
)

func publishFailed(err error) error {
	return &EventError{Code: codeInternal, Message: "Failed to publish event", Err: err}
}
