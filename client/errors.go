package client

import (
	"errors"
	"fmt"
)

var (
	// ErrResponseNotOK is matched by every non-2xx failure.
	ErrResponseNotOK = errors.New("network response was not ok")
	// ErrEmptyTicker is returned before any request is made.
	ErrEmptyTicker = errors.New("ticker is required")
)

// maxErrorBody bounds how much of a failed response is kept.
const maxErrorBody = 512

// StatusError is a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string // first bytes of the response body
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: GET %s: %s", ErrResponseNotOK, e.URL, e.Status)
}

func (e *StatusError) Unwrap() error { return ErrResponseNotOK }

// StatusCode extracts the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

// DecodeError is a 2xx response whose body does not decode into the expected type.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
