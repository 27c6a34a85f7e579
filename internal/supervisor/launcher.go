package supervisor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/cablehead/docker-init/internal/domain"
)

// Runner starts the main command without blocking. It exists as an
// interface so tests can substitute their own process source.
type Runner interface {
	Start(spec domain.CommandSpec) (Process, error)
}

// Process is a started main command. Only its identity matters to the
// supervisor; all reaping goes through the Reaper's wait4, never through
// os/exec's Wait.
type Process interface {
	PID() int
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Start launches the command with the supervisor's stdio passed through.
// The child stays in the supervisor's process group so that group-wide
// signals reach it. A nil spec.Env inherits the environment unmodified.
func (r *ExecRunner) Start(spec domain.CommandSpec) (Process, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = spec.Env

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", spec.Name(), err)
	}

	return &execProcess{cmd: cmd}, nil
}

// execProcess wraps exec.Cmd to implement Process. Cmd.Wait is deliberately
// never called on it: the Reaper collects the exit status via wait4.
type execProcess struct {
	cmd *exec.Cmd
}

func (p *execProcess) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}
