// Package constants provides shared defaults used across docker-init.
package constants

import "time"

// Shutdown defaults
const (
	// DefaultGracePeriod is how long a process gets to exit after a
	// termination signal before it is forcibly killed.
	DefaultGracePeriod = 5 * time.Second
)

// Exit codes
const (
	// ExitCodeFailure is returned when the main command terminates in a way
	// that yields no decodable exit status, or when the run fails outright.
	ExitCodeFailure = 1

	// ExitCodeInterrupted is returned when the run was ended by a
	// termination request before the main command completed.
	ExitCodeInterrupted = 2
)

// Configuration file defaults
const (
	// DefaultConfigPath is probed when no --config flag is given.
	DefaultConfigPath = "/etc/docker-init.yaml"
)
