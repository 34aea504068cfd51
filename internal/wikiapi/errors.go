package wikiapi

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned before any request is made when the input is blank.
var ErrEmptyQuery = errors.New("empty article query")

// BackendError is an application-level failure: the backend answered 2xx with an error field.
type BackendError struct {
	Endpoint string
	Message  string
}

func (e *BackendError) Error() string { return e.Message }

// RequestError is a transport-level failure: network error, non-2xx status or undecodable body.
type RequestError struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s request failed (status %d): %v", e.Endpoint, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s request failed with status %d: %s", e.Endpoint, e.Status, e.Body)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsBackendError reports whether err carries a backend-supplied error message.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// BackendMessage returns the backend-supplied message, if any.
func BackendMessage(err error) (string, bool) {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Message, true
	}
	return "", false
}

// IsRequestError reports whether err is a transport-level failure.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
