package mocks

import (
	"fmt"

	"github.com/guesspro/guesspro-go/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Intn results are served from a queue; NewID returns sequential ids.
type MockRandom struct {
	IntnResults []int
	intnIndex   int
	idCounter   int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// NewID returns "id-1", "id-2", ... in sequence
func (r *MockRandom) NewID() string {
	r.idCounter++
	return fmt.Sprintf("id-%d", r.idCounter)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}
