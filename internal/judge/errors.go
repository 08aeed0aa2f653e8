package judge

import (
	"errors"
	"fmt"
)

var (
	// ErrExecutionUnavailable matches every failure to obtain a verdict from the judge.
	ErrExecutionUnavailable = errors.New("execution unavailable")
	// ErrInvalidLanguageSelection is returned before any call for unknown languages.
	ErrInvalidLanguageSelection = errors.New("invalid language selection")
	// ErrInvalidRequest is returned when a request fails validation.
	ErrInvalidRequest = errors.New("invalid judge request")
)

// UnavailableError carries the transport or decoding failure behind ErrExecutionUnavailable.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrExecutionUnavailable, e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool {
	return target == ErrExecutionUnavailable
}

// InvalidLanguageError names the rejected selection.
type InvalidLanguageError struct {
	Name string
}

func (e *InvalidLanguageError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidLanguageSelection, e.Name)
}

func (e *InvalidLanguageError) Is(target error) bool {
	return target == ErrInvalidLanguageSelection
}
