package llm

import (
	"errors"
	"fmt"
)

// HTTPError is returned when the endpoint answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps failures that happen before a response is obtained.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when the body does not carry a reply.
type MalformedResponseError struct {
	Reason string
	Body   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

type ErrorKind string

const (
	ErrorKindHTTP      ErrorKind = "http"
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindMalformed ErrorKind = "malformed_response"
	ErrorKindUnknown   ErrorKind = "unknown"
)

func KindOf(err error) ErrorKind {
	var httpErr *HTTPError
	var transportErr *TransportError
	var malformedErr *MalformedResponseError
	switch {
	case errors.As(err, &httpErr):
		return ErrorKindHTTP
	case errors.As(err, &transportErr):
		return ErrorKindTransport
	case errors.As(err, &malformedErr):
		return ErrorKindMalformed
	default:
		return ErrorKindUnknown
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
