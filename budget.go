package gridplan

import (
	"time"

	"github.com/pdrpinto/gridplan/internal/sysmem"
)

// memPollStride spaces out ReadMemStats calls, which stop the world.
const memPollStride = 64

// Budget bounds one search invocation by wall clock and heap usage. It is
// created per search and polled by the driver between pops, never
// mid-expansion. A zero timeout or zero maxHeap disables that limit.
type Budget struct {
	start    time.Time
	deadline time.Time
	maxHeap  uint64

	polls    int
	lastUsed uint64
	exceeded bool
}

// NewBudget starts the clock now. maxHeap is in bytes.
func NewBudget(timeout time.Duration, maxHeap uint64) *Budget {
	b := &Budget{start: time.Now(), maxHeap: maxHeap}
	if timeout > 0 {
		b.deadline = b.start.Add(timeout)
	}
	return b
}

// Exceeded reports whether the budget has run out. Once true it stays
// true. The heap reading is sampled every memPollStride calls.
func (b *Budget) Exceeded() bool {
	if b == nil {
		return false
	}
	if b.exceeded {
		return true
	}
	if !b.deadline.IsZero() && time.Now().After(b.deadline) {
		b.exceeded = true
		return true
	}
	if b.maxHeap > 0 {
		if b.polls%memPollStride == 0 {
			b.lastUsed = sysmem.Used()
		}
		b.polls++
		if b.lastUsed > b.maxHeap {
			b.exceeded = true
			return true
		}
	}
	return false
}

// Elapsed is the wall-clock time since the budget was created.
func (b *Budget) Elapsed() time.Duration {
	if b == nil {
		return 0
	}
	return time.Since(b.start)
}
