package supervisor

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/cablehead/docker-init/internal/domain"
)

// wait4Func matches unix.Wait4; swapped out in tests.
type wait4Func func(pid int, status *unix.WaitStatus, options int, rusage *unix.Rusage) (int, error)

// Reaper waits for a specific target process while harvesting the exit
// status of every other terminated child into the pending table, so no
// terminated descendant is ever dropped. The pending table is the only
// long-lived mutable state in the supervisor; it is owned here and touched
// solely by the control flow, so it needs no locking.
type Reaper struct {
	pending map[int]unix.WaitStatus
	bridge  *SignalBridge
	alarm   *Alarm
	log     logrus.FieldLogger

	wait4 wait4Func
}

// NewReaper creates a reaper wired to the given signal bridge and alarm.
func NewReaper(bridge *SignalBridge, alarm *Alarm, log logrus.FieldLogger) *Reaper {
	return &Reaper{
		pending: make(map[int]unix.WaitStatus),
		bridge:  bridge,
		alarm:   alarm,
		log:     log,
		wait4:   unix.Wait4,
	}
}

// Await blocks until pid terminates and returns its status. Children other
// than pid that terminate in the meantime are reaped into the pending
// table. A pid whose status was captured during an earlier Await is served
// from the table immediately, with no blocking and no syscall; each status
// is consumed by its first requester exactly once.
//
// Outcomes: WaitExited with the status; WaitNoChildren when the kernel
// reports no children remain (benign — everything was already reaped, or
// the target never existed); WaitTimedOut when the armed alarm fires, with
// all entries reaped so far retained; WaitInterrupted when a termination
// request arrives, after which further termination signals are ignored.
// Any other wait failure is returned as an error.
func (r *Reaper) Await(pid int) (domain.WaitResult, error) {
	if status, ok := r.pending[pid]; ok {
		delete(r.pending, pid)
		return domain.WaitResult{Kind: domain.WaitExited, Pid: pid, Status: status}, nil
	}
	return r.loop(pid)
}

// AwaitAll reaps children until none remain, discarding their statuses.
// Used by the final namespace sweep. Outcomes: WaitNoChildren or
// WaitTimedOut.
func (r *Reaper) AwaitAll() (domain.WaitResult, error) {
	return r.loop(-1)
}

// loop drains ready children without blocking, then parks on the signal
// bridge until there is something new to drain. A target of -1 means "wait
// for all children to be gone".
func (r *Reaper) loop(target int) (domain.WaitResult, error) {
	for {
		res, done, err := r.drain(target)
		if err != nil || done {
			return res, err
		}

		select {
		case <-r.bridge.Child():
			// drain again
		case <-r.alarm.C():
			return domain.WaitResult{Kind: domain.WaitTimedOut}, nil
		case sig := <-r.bridge.Termination():
			r.bridge.IgnoreTermination()
			return domain.WaitResult{Kind: domain.WaitInterrupted, Signal: sig}, nil
		}
	}
}

// drain reaps every already-terminated child. It never blocks.
func (r *Reaper) drain(target int) (domain.WaitResult, bool, error) {
	for {
		var status unix.WaitStatus
		pid, err := r.wait4(-1, &status, unix.WNOHANG, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			return domain.WaitResult{Kind: domain.WaitNoChildren}, true, nil
		case err != nil:
			return domain.WaitResult{}, false, fmt.Errorf("wait4: %w", err)
		case pid == 0:
			// nothing ready right now
			return domain.WaitResult{}, false, nil
		case pid == target:
			return domain.WaitResult{Kind: domain.WaitExited, Pid: pid, Status: status}, true, nil
		default:
			if target > 0 {
				r.pending[pid] = status
			}
			r.log.WithFields(logrus.Fields{"pid": pid, "status": int(status)}).Debug("reaped child")
		}
	}
}
