package domain

import "errors"

// Sentinel errors
var (
	// ErrInterrupted is returned by the supervisor when its run was ended
	// by a termination request before the main command completed. The CLI
	// maps it to exit code 2.
	ErrInterrupted = errors.New("interrupted by termination request")

	// ErrConfigNotFound is returned when an explicitly requested config
	// file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("invalid configuration")
)
