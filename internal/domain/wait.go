package domain

import (
	"os"

	"golang.org/x/sys/unix"
)

// WaitKind identifies how a blocking wait on a child ended.
type WaitKind int

const (
	// WaitExited means the awaited process terminated and its status was
	// collected.
	WaitExited WaitKind = iota
	// WaitNoChildren means the kernel reports no children remain. This is
	// a benign terminal condition, not an error.
	WaitNoChildren
	// WaitTimedOut means the armed alarm fired before the awaited process
	// terminated.
	WaitTimedOut
	// WaitInterrupted means a termination request (SIGTERM or SIGINT)
	// arrived while waiting.
	WaitInterrupted
)

// WaitResult is the outcome of a Reaper wait. Exactly one variant applies,
// indicated by Kind; Pid and Status are meaningful for WaitExited, Signal
// for WaitInterrupted.
type WaitResult struct {
	Kind   WaitKind
	Pid    int
	Status unix.WaitStatus
	Signal os.Signal
}

// ExitCode decodes a raw wait status into the supervisor's observable exit
// code. A plain exit maps to the child's own code; anything else (killed by
// a signal, or otherwise undecodable) maps to ExitCodeFailure=1.
func ExitCode(status unix.WaitStatus) int {
	if status.Exited() {
		return status.ExitStatus()
	}
	return 1
}
