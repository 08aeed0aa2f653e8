package repository

import "errors"

var (
	// ErrNotFound is returned when a test, question or candidate does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConcurrentUpdate is returned when a compare-and-swap report update
	// keeps losing to other writers.
	ErrConcurrentUpdate = errors.New("concurrent report update")
)
