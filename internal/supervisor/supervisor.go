// Package supervisor implements the PID-1 supervision core: it launches one
// main command, reaps every terminated child including adopted orphans,
// forwards termination requests with a bounded grace period before forcing
// termination, and optionally sweeps the whole namespace on the way out.
//
// The package runs a single control flow. Concurrency exists only as
// asynchronous signal delivery feeding buffered channels that are consumed
// at the boundaries of blocking waits; nothing here needs a lock.
package supervisor

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/cablehead/docker-init/internal/constants"
	"github.com/cablehead/docker-init/internal/domain"
)

// Config holds the supervisor's settings.
type Config struct {
	// KillAllOnExit enables the final sweep that terminates every process
	// remaining in the namespace before the supervisor exits.
	KillAllOnExit bool
	// GracePeriod bounds how long a graceful stop waits before escalating
	// to SIGKILL. It also budgets the final sweep.
	GracePeriod time.Duration
}

// DefaultConfig returns the default supervisor configuration.
func DefaultConfig() Config {
	return Config{
		KillAllOnExit: true,
		GracePeriod:   constants.DefaultGracePeriod,
	}
}

// Supervisor sequences launch, wait, signal handling, and final cleanup for
// one main command.
type Supervisor struct {
	config   Config
	runner   Runner
	bridge   *SignalBridge
	reaper   *Reaper
	shutdown *ShutdownController
	log      logrus.FieldLogger
}

// New creates a supervisor and installs its signal handlers. It must be
// called before the main command is started so no termination request or
// child exit can slip by unobserved. A nil runner selects os/exec; a nil
// signaler selects kill(2).
func New(config Config, runner Runner, signaler ProcessSignaler, log logrus.FieldLogger) *Supervisor {
	if runner == nil {
		runner = NewExecRunner()
	}

	bridge := NewSignalBridge()
	alarm := NewAlarm()
	reaper := NewReaper(bridge, alarm, log)

	return &Supervisor{
		config:   config,
		runner:   runner,
		bridge:   bridge,
		reaper:   reaper,
		shutdown: NewShutdownController(reaper, alarm, signaler, log),
		log:      log,
	}
}

// Run launches the main command and supervises it to completion. It returns
// the supervisor's own exit code: the command's status on clean completion,
// 1 when the status is undecodable, 2 (with domain.ErrInterrupted) when the
// run was ended by a termination request. Any other error is a fault and is
// returned after the same graceful child shutdown. The kill-all sweep runs
// on every exit path when enabled.
func (s *Supervisor) Run(spec domain.CommandSpec) (code int, err error) {
	defer func() {
		if !s.config.KillAllOnExit {
			return
		}
		if cerr := s.shutdown.StopAllProcesses(s.config.GracePeriod); cerr != nil {
			s.log.WithError(cerr).Warn("final cleanup failed")
			if err == nil {
				err = cerr
				code = constants.ExitCodeFailure
			}
		}
	}()

	proc, err := s.runner.Start(spec)
	if err != nil {
		return constants.ExitCodeFailure, err
	}
	pid := proc.PID()
	s.log.WithFields(logrus.Fields{"cmd": spec.Name(), "pid": pid}).Info("spawned main command")

	res, err := s.reaper.Await(pid)
	if err != nil {
		// Unexpected wait failure. Stop the child before propagating so
		// the namespace is not left running headless.
		s.bridge.IgnoreTermination()
		s.stopMain(spec, pid)
		return constants.ExitCodeFailure, err
	}

	switch res.Kind {
	case domain.WaitExited:
		exitCode := domain.ExitCode(res.Status)
		s.log.WithFields(logrus.Fields{"pid": pid, "code": exitCode}).Info("main command exited")
		return exitCode, nil

	case domain.WaitNoChildren:
		// The command was reaped before we could observe its status.
		s.log.WithField("pid", pid).Warn("main command exited with unknown status")
		return constants.ExitCodeFailure, nil

	case domain.WaitInterrupted:
		s.log.WithField("signal", res.Signal).Warn("termination requested, stopping main command")
		s.stopMain(spec, pid)
		return constants.ExitCodeInterrupted, domain.ErrInterrupted

	default:
		// WaitTimedOut cannot happen here: no alarm is armed while the
		// main command runs.
		return constants.ExitCodeFailure, fmt.Errorf("unexpected wait outcome %d", res.Kind)
	}
}

// stopMain gracefully stops the main command, logging rather than
// propagating failures: the run is already on its way out.
func (s *Supervisor) stopMain(spec domain.CommandSpec, pid int) {
	if err := s.shutdown.StopProcess(spec.Name(), pid, unix.SIGTERM, s.config.GracePeriod); err != nil {
		s.log.WithError(err).WithField("pid", pid).Warn("stopping main command failed")
	}
}
