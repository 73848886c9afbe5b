package api

import (
	"errors"
	"fmt"
)

// BusinessError is a 4xx rejection carrying the server's own message,
// which is shown to the user verbatim.
type BusinessError struct {
	StatusCode int
	Message    string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// NetworkError covers everything that is not a clean server answer:
// unreachable backend, non-JSON body, or a failure status without a
// message. Callers show a generic connectivity message and carry on with
// an empty result.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AsBusiness extracts the server message when err is a BusinessError.
func AsBusiness(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsNetwork reports whether err is a connectivity-class failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
