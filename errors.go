package elastictiny

import (
	"errors"
	"fmt"
	"time"
)

// Error type identifiers carried in ClientError.Type.
const (
	// ErrorTypeValidation marks construction-time configuration failures.
	ErrorTypeValidation = "Validation"
	// ErrorTypeNetwork marks transport-level failures (DNS, refused
	// connections, timeouts).
	ErrorTypeNetwork = "Network"
	// ErrorTypeServer marks 5xx responses.
	ErrorTypeServer = "Server"
	// ErrorTypeClient marks non-2xx, non-5xx responses.
	ErrorTypeClient = "Client"
	// ErrorTypeDecode marks an unparsable body behind a successful status.
	ErrorTypeDecode = "Decode"
)

// Sentinel errors for common failure scenarios.
var (
	// ErrNoHosts is returned when a client is constructed without any
	// endpoint.
	ErrNoHosts = errors.New("elastictiny: no hosts configured")

	// ErrAttemptsExhausted wraps the terminal error after the attempt
	// budget is spent without a successful response.
	ErrAttemptsExhausted = errors.New("elastictiny: attempts exhausted")
)

// IsTransient reports whether an error represents a failure that might
// succeed on another attempt. Network failures, 5xx responses and 429 are
// transient; other client errors, validation and decode failures are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case ErrorTypeNetwork, ErrorTypeServer:
			return true
		case ErrorTypeClient:
			return clientErr.StatusCode == 429
		default:
			return false
		}
	}

	return false
}

// ClientError is the error type attached to failed Envelopes. It carries
// enough context to diagnose which attempt against which endpoint failed.
type ClientError struct {
	Type        string
	Message     string
	Cause       error
	RequestID   string
	Method      string
	URL         string
	StatusCode  int
	Attempt     int
	MaxAttempts int
	Timestamp   time.Time
	Duration    time.Duration
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}

	var msg string
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.MaxAttempts > 0 {
		msg = fmt.Sprintf("%s (attempt %d/%d)", msg, e.Attempt+1, e.MaxAttempts)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if e.MaxAttempts > 0 {
		info += fmt.Sprintf("Attempt: %d/%d\n", e.Attempt+1, e.MaxAttempts)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// errorTypeForStatus maps an HTTP failure status to an error type.
func errorTypeForStatus(status int) string {
	if status >= 500 {
		return ErrorTypeServer
	}
	return ErrorTypeClient
}
