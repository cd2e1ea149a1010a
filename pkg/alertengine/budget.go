package alertengine

import (
	"sync"
	"time"
)

// RunBudget tracks the shared allowances for a single pipeline run: wall
// clock elapsed and zone fetches spent. One is created per run and never
// shared across runs.
type RunBudget struct {
	started time.Time
	cap     int

	mu    sync.Mutex
	spent int
}

func NewRunBudget(fetchCap int) *RunBudget {
	return &RunBudget{started: time.Now(), cap: fetchCap}
}

// TrySpend consumes one zone fetch if any allowance remains. Check and
// increment happen under one lock so concurrent workers cannot overshoot
// the cap between them.
func (b *RunBudget) TrySpend() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.spent >= b.cap {
		return false
	}
	b.spent++
	return true
}

func (b *RunBudget) Spent() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.spent
}

func (b *RunBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.spent >= b.cap {
		return 0
	}
	return b.cap - b.spent
}

func (b *RunBudget) Cap() int { return b.cap }

func (b *RunBudget) Elapsed() time.Duration { return time.Since(b.started) }
