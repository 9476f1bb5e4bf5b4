// Package speech holds the error taxonomy shared by capture, recognition
// and synthesis adapters.
package speech

import (
	"errors"
	"fmt"
)

var (
	// ErrCaptureTimeout means no speech started within the listen window.
	ErrCaptureTimeout = errors.New("no speech within timeout")

	// ErrUnrecognized means the recognizer produced no confident transcript.
	ErrUnrecognized = errors.New("speech not recognized")
)

// ServiceError wraps a failure of an external speech service.
type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError tags err with the service name. A nil err stays nil.
func NewServiceError(service string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Service: service, Err: err}
}

// IsNoUtterance reports whether err is one of the normal "nothing heard"
// outcomes that the conversation loop simply skips.
func IsNoUtterance(err error) bool {
	return errors.Is(err, ErrCaptureTimeout) || errors.Is(err, ErrUnrecognized)
}
