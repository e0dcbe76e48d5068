// Package core holds the error taxonomy shared by the analytics engines.
package core

import "errors"

var (
	// ErrValidation marks malformed or missing required input. Fatal to
	// the single call, never retried.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks an unknown enumeration key (report type,
	// stage, category, output format). Distinct from ErrValidation so
	// callers can tell bad data from a bad request shape.
	ErrConfiguration = errors.New("configuration error")
)
