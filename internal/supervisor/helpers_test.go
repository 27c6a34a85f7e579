package supervisor

import (
	"io"
	"os/exec"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// testLogger returns a logger that discards output.
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestReaper wires up a fresh bridge, alarm, and reaper. The bridge must
// be created before children are spawned so their SIGCHLDs are observed.
func newTestReaper(t *testing.T) (*Reaper, *SignalBridge, *Alarm) {
	t.Helper()
	bridge := NewSignalBridge()
	alarm := NewAlarm()
	return NewReaper(bridge, alarm, testLogger()), bridge, alarm
}

// startChild spawns a child process and returns its pid. The caller is
// responsible for reaping it; reapLeftover is registered as a backstop so a
// failing test does not leak children into later tests.
func startChild(t *testing.T, name string, args ...string) int {
	t.Helper()
	cmd := exec.Command(name, args...)
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid
	t.Cleanup(func() { reapLeftover(pid) })
	return pid
}

// reapLeftover force-kills and reaps pid if it is still our child. Errors
// are ignored: in the happy path the test already reaped it.
func reapLeftover(pid int) {
	_ = unix.Kill(pid, unix.SIGKILL)
	var status unix.WaitStatus
	_, _ = unix.Wait4(pid, &status, 0, nil)
}

// sigCall records one ProcessSignaler delivery.
type sigCall struct {
	Pid    int
	Signal unix.Signal
}

// recordingSignaler records every Kill call. With passthrough set it
// forwards single-pid deliveries to the real kill(2); group-wide deliveries
// (pid <= 0) are never forwarded, so tests cannot signal their own group.
type recordingSignaler struct {
	mu          sync.Mutex
	calls       []sigCall
	passthrough bool
}

func (s *recordingSignaler) Kill(pid int, sig unix.Signal) error {
	s.mu.Lock()
	s.calls = append(s.calls, sigCall{Pid: pid, Signal: sig})
	s.mu.Unlock()

	if s.passthrough && pid > 0 {
		return unix.Kill(pid, sig)
	}
	return nil
}

func (s *recordingSignaler) sent(pid int, sig unix.Signal) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Pid == pid && c.Signal == sig {
			n++
		}
	}
	return n
}
