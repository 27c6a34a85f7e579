// Package domain holds the core types shared across docker-init: the
// command to supervise, the outcomes of waiting on children, and the
// sentinel errors the run can end with.
package domain

import "path/filepath"

// CommandSpec describes the single main command the supervisor runs.
// It is scoped to one supervision run and never persisted.
type CommandSpec struct {
	// Path is the executable to run, resolved via PATH by the launcher.
	Path string
	// Args are the command's arguments, not including Path.
	Args []string
	// Env is the full environment for the command. A nil Env means the
	// command inherits the supervisor's environment unmodified.
	Env []string
}

// Name returns the display name used in log messages.
func (s CommandSpec) Name() string {
	return filepath.Base(s.Path)
}
