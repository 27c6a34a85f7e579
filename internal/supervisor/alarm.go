package supervisor

import "time"

// Alarm is the single shared shutdown timer. At most one alarm is active at
// any moment: it is armed immediately before a bounded blocking wait and
// must be disarmed on every exit path from that wait, or it will fire into
// unrelated later code. It is owned by the single control flow and is not
// safe for concurrent use.
type Alarm struct {
	timer *time.Timer
}

// NewAlarm returns a disarmed alarm.
func NewAlarm() *Alarm {
	return &Alarm{}
}

// Arm starts the alarm. Any previously armed timer is stopped first so that
// the at-most-one invariant holds even on misuse.
func (a *Alarm) Arm(d time.Duration) {
	a.Disarm()
	a.timer = time.NewTimer(d)
}

// Disarm stops the alarm. Safe to call when already disarmed.
func (a *Alarm) Disarm() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// C returns the channel the alarm fires on, or nil when disarmed. A nil
// channel never fires in a select, which is exactly the disarmed behavior.
func (a *Alarm) C() <-chan time.Time {
	if a.timer == nil {
		return nil
	}
	return a.timer.C
}
