// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import "errors"

// ErrValidation matches every error returned by this package
var ErrValidation = errors.New("validation failed")

type fieldError struct {
	msg string
}

func (e *fieldError) Error() string { return e.msg }

func (e *fieldError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error {
	return &fieldError{msg: msg}
}
