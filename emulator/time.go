package emulator

import (
	"sync/atomic"
	"time"
)

// Core cycle counter. Cycles advance with wall time at the core clock rate;
// Tick adds extra cycles on top
type Clock struct {
	Hz    uint64 // Core clock frequency
	start time.Time
	skew  atomic.Uint64
}

// Returns a new Clock counting from now
func NewClock(hz uint64) *Clock {
	if hz == 0 {
		panicFmt("clock: zero frequency")
	}
	return &Clock{Hz: hz, start: time.Now()}
}

// Returns the current cycle count
func (clock *Clock) Cycles() uint64 {
	elapsed := uint64(time.Since(clock.start))
	// elapsed * Hz / 1e9 without overflowing for the first few centuries
	secs, nanos := elapsed/uint64(time.Second), elapsed%uint64(time.Second)
	return secs*clock.Hz + nanos*clock.Hz/uint64(time.Second) + clock.skew.Load()
}

// Advance the counter by `cycles`
func (clock *Clock) Tick(cycles uint64) {
	clock.skew.Add(cycles)
}

// Returns the wall time taken by `cycles` core cycles
func (clock *Clock) Duration(cycles uint64) time.Duration {
	secs, rem := cycles/clock.Hz, cycles%clock.Hz
	return time.Duration(secs)*time.Second + time.Duration(rem*uint64(time.Second)/clock.Hz)
}
