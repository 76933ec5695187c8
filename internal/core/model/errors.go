package model

import "errors"

var (
	// ErrUnknownKind is returned for a resource kind outside the closed set.
	ErrUnknownKind = errors.New("unrecognized resource kind")

	// ErrNotImplemented marks polynomial segments of degree two or higher.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidTimestamp is returned for timestamps outside the accepted layouts.
	ErrInvalidTimestamp = errors.New("invalid datetime string")

	// ErrInvalidCoefficients is returned when a polynomial sample is not a
	// JSON list of numbers.
	ErrInvalidCoefficients = errors.New("invalid polynomial coefficients")

	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrEmptyView is returned for a view description with no resources.
	ErrEmptyView = errors.New("view has no resources")

	// ErrDuplicateResource is returned when a view names a resource twice.
	ErrDuplicateResource = errors.New("duplicate resource name")
)
