package mocks

import (
	"time"

	"github.com/guesspro/guesspro-go/internal/dependencies/clock"
)

// MockClock is a Clock frozen at a settable instant. Tests drive idle
// timeouts and age derivation by calling Advance.
type MockClock struct {
	CurrentTime time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock frozen at the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the frozen time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}
