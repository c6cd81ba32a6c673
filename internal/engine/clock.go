package engine

import "sync/atomic"

// Clock is the engine's monotonic logical clock.
//
// Every applied instruction consumes one seq, successful or not. The seq
// stamps the journal entry and becomes created_at of any record the
// instruction creates, so ordering and timestamps never depend on wall time
// and a replay reproduces them exactly.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// However, the Engine's single-writer design means only one goroutine
// calls Next() at a time.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used to resume after the last journaled seq.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// AdvanceTo moves the clock forward to seq. It never moves backward and
// reports whether the clock changed. Replay uses it to reapply journal
// entries at their original seq, including across gaps.
func (c *Clock) AdvanceTo(seq int64) bool {
	for {
		cur := c.seq.Load()
		if seq <= cur {
			return false
		}
		if c.seq.CompareAndSwap(cur, seq) {
			return true
		}
	}
}
