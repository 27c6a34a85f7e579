package supervisor

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/cablehead/docker-init/internal/domain"
)

// ProcessSignaler delivers signals to processes. The default implementation
// is backed by kill(2); tests substitute a recording fake so that
// group-wide signals are never actually emitted.
type ProcessSignaler interface {
	// Kill sends sig to pid. A pid of 0 addresses every process in the
	// caller's process group.
	Kill(pid int, sig unix.Signal) error
}

type osSignaler struct{}

func (osSignaler) Kill(pid int, sig unix.Signal) error {
	return unix.Kill(pid, sig)
}

// ShutdownController orchestrates graceful-then-forced termination of a
// single target process, and of all remaining processes in the namespace,
// each bounded by the shared alarm.
type ShutdownController struct {
	reaper   *Reaper
	alarm    *Alarm
	signaler ProcessSignaler
	log      logrus.FieldLogger
}

// NewShutdownController creates a controller. A nil signaler selects the
// real kill(2) implementation.
func NewShutdownController(reaper *Reaper, alarm *Alarm, signaler ProcessSignaler, log logrus.FieldLogger) *ShutdownController {
	if signaler == nil {
		signaler = osSignaler{}
	}
	return &ShutdownController{
		reaper:   reaper,
		alarm:    alarm,
		signaler: signaler,
		log:      log,
	}
}

// StopProcess sends sig to pid and waits up to timeout for it to be reaped.
// If the process outlives the timeout it is sent SIGKILL and waited for
// again without a bound: an unkillable process blocks here indefinitely,
// trading liveness for the certainty that the process is gone on return.
// The alarm is disarmed on every exit path. Signal delivery is best-effort;
// a process that is already gone counts as success.
func (c *ShutdownController) StopProcess(name string, pid int, sig unix.Signal, timeout time.Duration) error {
	c.log.WithFields(logrus.Fields{
		"name":   name,
		"pid":    pid,
		"signal": unix.SignalName(sig),
	}).Info("stopping process")

	if err := c.signaler.Kill(pid, sig); err != nil {
		c.log.WithError(err).WithField("pid", pid).Debug("signal not delivered, process may already be gone")
	}

	c.alarm.Arm(timeout)
	defer c.alarm.Disarm()

	res, err := c.reaper.Await(pid)
	if err != nil {
		return err
	}
	if res.Kind != domain.WaitTimedOut {
		return nil
	}

	c.log.WithFields(logrus.Fields{"name": name, "pid": pid}).Warn("process did not exit in time, sending SIGKILL")
	if err := c.signaler.Kill(pid, unix.SIGKILL); err != nil {
		c.log.WithError(err).WithField("pid", pid).Debug("SIGKILL not delivered, process may already be gone")
	}

	c.alarm.Disarm()
	_, err = c.reaper.Await(pid)
	return err
}

// StopAllProcesses sends SIGTERM to every process in the supervisor's
// process group and waits up to timeout for the kernel to report that no
// children remain, escalating to a group-wide SIGKILL on timeout.
//
// Precondition: the supervisor is the root of its process namespace and
// owns its process group, so a pid-0 delivery reaches everything in the
// namespace, and the supervisor itself (which ignores SIGTERM by this
// point and, as namespace root, cannot be killed from inside) survives it.
func (c *ShutdownController) StopAllProcesses(timeout time.Duration) error {
	c.log.WithField("timeout", timeout.String()).Info("terminating all remaining processes")

	if err := c.signaler.Kill(0, unix.SIGTERM); err != nil {
		c.log.WithError(err).Debug("group-wide SIGTERM not delivered")
	}

	c.alarm.Arm(timeout)
	defer c.alarm.Disarm()

	res, err := c.reaper.AwaitAll()
	if err != nil {
		return err
	}
	if res.Kind != domain.WaitTimedOut {
		return nil
	}

	c.log.Warn("some processes did not exit in time, sending group-wide SIGKILL")
	if err := c.signaler.Kill(0, unix.SIGKILL); err != nil {
		c.log.WithError(err).Debug("group-wide SIGKILL not delivered")
	}
	return nil
}
