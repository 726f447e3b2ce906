package esi

import (
	"fmt"
	"strings"
)

// ValidationError is returned when required options are missing.
type ValidationError struct {
	// Missing holds the names of the missing options, sorted.
	Missing []string
}

func (e *ValidationError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		quoted[i] = "`" + name + "`"
	}
	if len(quoted) == 1 {
		return "missing option " + quoted[0]
	}
	return "missing options " + strings.Join(quoted, ", ")
}

// DecodeError is returned when a response body is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UpstreamError carries the error message returned by ESI.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// HTTPStatusError is returned for unsuccessful status codes ESI did not
// explain.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// TimeoutError is returned when a call exceeds the client timeout.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return "timeout"
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// RequestError is returned when the request could not be performed for a
// reason other than a timeout (connection refused, canceled context, ...).
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
