package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the run's time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic
// run timestamps and artifact metadata.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the run's time source.
func Now() time.Time {
	return clock.Now()
}
