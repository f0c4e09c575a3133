// Package clock lets time-dependent code run against the wall clock in
// production and against a manually advanced clock in tests.
package clock

import "time"

// Clock is the subset of the time package the assistant needs.
type Clock interface {
	Now() time.Time

	// AfterFunc calls f once d has elapsed. The returned Timer can
	// cancel the call.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a cancellation handle for a scheduled callback.
type Timer struct {
	stop func() bool
}

// Stop prevents the callback from running. It reports false if the
// callback already ran or the timer was already stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.stop == nil {
		return false
	}
	return t.stop()
}
