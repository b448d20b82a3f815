package gobrainz

import (
	"errors"
	"fmt"
	"strings"
)

// Error type constants classify every failure surfaced by the client.
const (
	// ErrorTypeTransport covers network-level failures (DNS, connection
	// refused, TLS) and non-2xx responses without a parseable error body.
	ErrorTypeTransport = "Transport"
	// ErrorTypeAuthentication covers 401 responses that cannot be resolved
	// by the single Digest challenge retry.
	ErrorTypeAuthentication = "Authentication"
	// ErrorTypeService covers non-2xx responses whose body carries a
	// machine-readable error in the expected payload format.
	ErrorTypeService = "Service"
	// ErrorTypeEmptyResponse covers 2xx responses with no body.
	ErrorTypeEmptyResponse = "EmptyResponse"
	// ErrorTypeDecode covers malformed payloads and missing required fields.
	ErrorTypeDecode = "Decode"
	// ErrorTypeValidation covers invalid client configuration or arguments.
	ErrorTypeValidation = "Validation"
)

// ClientError represents a classified error from the client.
type ClientError struct {
	Type       string
	Message    string
	Cause      error
	StatusCode int
	URL        string
	Kind       string
	Property   string
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("gobrainz: %s: %s", e.Type, e.Message)
	if e.Property != "" {
		msg = fmt.Sprintf("%s (property %q)", msg, e.Property)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
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

// Is matches two ClientErrors by type, so callers can compare against
// &ClientError{Type: ErrorTypeDecode} with errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// PropertyPath walks the error chain collecting the property names recorded
// by decode failures, outermost first, joined with ".". It returns "" when
// the chain carries no property information.
func PropertyPath(err error) string {
	var parts []string
	for err != nil {
		var ce *ClientError
		if !errors.As(err, &ce) {
			break
		}
		if ce.Property != "" {
			parts = append(parts, ce.Property)
		}
		err = ce.Cause
	}
	return strings.Join(parts, ".")
}

// IsTransportFailure reports whether err is a network-level failure.
func IsTransportFailure(err error) bool { return hasErrorType(err, ErrorTypeTransport) }

// IsAuthenticationFailure reports whether err is an unresolvable 401.
func IsAuthenticationFailure(err error) bool { return hasErrorType(err, ErrorTypeAuthentication) }

// IsServiceError reports whether err carries a service-reported error message.
func IsServiceError(err error) bool { return hasErrorType(err, ErrorTypeService) }

// IsEmptyResponse reports whether err marks a 2xx response without a body.
func IsEmptyResponse(err error) bool { return hasErrorType(err, ErrorTypeEmptyResponse) }

// IsDecodeFailure reports whether err is a payload decoding failure.
func IsDecodeFailure(err error) bool { return hasErrorType(err, ErrorTypeDecode) }

func hasErrorType(err error, errorType string) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == errorType
	}
	return false
}

// decodeError wraps err with the name of the property being decoded when it
// failed, so a failure deep in an object graph is diagnosable without a dump
// of the payload.
func decodeError(property string, err error) error {
	return &ClientError{
		Type:     ErrorTypeDecode,
		Message:  "cannot decode property",
		Property: property,
		Cause:    err,
	}
}
