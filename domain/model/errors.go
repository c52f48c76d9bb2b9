package model

import "errors"

var (
	ErrInvalid       = errors.New("resource invalid")
	ErrMissingConfig = errors.New("required configuration missing")
	ErrRunNotFound   = errors.New("run not found")
)

// TransientError marks a provider error as safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err so that IsTransient reports true. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err was marked with Transient.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
