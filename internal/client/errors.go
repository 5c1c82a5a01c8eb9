package client

import (
	"errors"
	"fmt"
)

// ErrBadEnvelope is returned when a list endpoint responds with a shape
// that is neither a bare array nor a {"data": [...]} envelope.
var ErrBadEnvelope = errors.New("unrecognized response envelope")

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %s -> %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RequestError carries a non-success HTTP response. Its message includes
// the resolved URL, the numeric status, the status text and the raw body,
// and is surfaced to the user as-is.
type RequestError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %s -> %d %s: %s", e.URL, e.StatusCode, e.Status, e.Body)
}
