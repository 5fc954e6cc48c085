// Package clock abstracts the wall clock so time-dependent logic (age
// derivation, session idleness) can be tested at a fixed instant.
package clock

import "time"

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock
type SystemClock struct{}

var _ Clock = (*SystemClock)(nil)

// New creates a SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
