package errors

import (
	"errors"
	"fmt"
)

// Common error types for the embedded signup bridge
var (
	// State errors
	ErrBadState          = errors.New("bad state")
	ErrSignatureMismatch = fmt.Errorf("state signature mismatch: %w", ErrBadState)

	// Upstream errors
	ErrUpstreamCall = errors.New("upstream call failed")

	// Discovery errors
	ErrNoAccountFound = errors.New("no business account found")

	// Configuration errors
	ErrMissingConfiguration = errors.New("missing configuration")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
