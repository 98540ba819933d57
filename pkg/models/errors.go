package models

import "errors"

var (
	// ErrInvalidInput indicates malformed engine input: a forecast series
	// with gaps or out-of-order slots, negative expected savings, or a
	// negative scaling multiplier.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates an invalid engine configuration, such as
	// scoring weights that do not sum to 1.
	ErrConfiguration = errors.New("invalid configuration")
)
