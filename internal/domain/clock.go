package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze time via SetClock.
// It bounds the upper end of the allowed cycle-time window.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for cycle-time validation. Pass nil to
// reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
