package supervisor

import (
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
)

// SignalBridge converts asynchronous signal delivery into channel events
// consumed synchronously by the supervisor's single control flow. It is
// installed before the main command starts and registers exactly three
// signals: SIGTERM and SIGINT (termination requests) and SIGCHLD (child
// state changes). No other signals are touched.
type SignalBridge struct {
	chld chan os.Signal
	term chan os.Signal

	ignoreOnce sync.Once
}

// NewSignalBridge installs the signal handlers. Installation is
// process-wide and stays in effect for the whole run.
func NewSignalBridge() *SignalBridge {
	b := &SignalBridge{
		// SIGCHLD coalesces; a dropped notification is absorbed by the
		// next drain, so a small buffer is enough.
		chld: make(chan os.Signal, 16),
		term: make(chan os.Signal, 2),
	}
	signal.Notify(b.chld, unix.SIGCHLD)
	signal.Notify(b.term, unix.SIGTERM, unix.SIGINT)
	return b
}

// Child is pulsed whenever a child process changes state. Receiving from it
// means "drain the wait queue again", nothing more.
func (b *SignalBridge) Child() <-chan os.Signal {
	return b.chld
}

// Termination delivers the first termination request. After
// IgnoreTermination it never fires again.
func (b *SignalBridge) Termination() <-chan os.Signal {
	return b.term
}

// IgnoreTermination switches SIGTERM and SIGINT to ignored, process-wide.
// Called on the first observed termination request so that a second rapid
// interrupt can never start a second shutdown sequence. Idempotent.
func (b *SignalBridge) IgnoreTermination() {
	b.ignoreOnce.Do(func() {
		signal.Ignore(unix.SIGTERM, unix.SIGINT)
		// Drop anything already queued before the switch took effect.
		for {
			select {
			case <-b.term:
			default:
				return
			}
		}
	})
}
