// Package coalesce batches bursts of keyed values behind a quiet period.
package coalesce

import (
	"sync"
	"time"
)

// FlushFunc receives a batch in order of each key's latest arrival and the
// number of values that were replaced by a later value of the same key.
type FlushFunc[V any] func(batch []V, superseded int)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Coalescer collects values and hands them to a FlushFunc once no new value
// has arrived for the window. The latest value per key wins; nothing is
// discarded without being counted as superseded.
type Coalescer[K comparable, V any] struct {
	window time.Duration
	flush  FlushFunc[V]

	// flushMu keeps batches in the order they were taken.
	flushMu sync.Mutex

	mu         sync.Mutex
	pending    []entry[K, V]
	superseded int
	timer      *time.Timer
	closed     bool
}

// New builds a Coalescer. A zero window flushes on every Add.
func New[K comparable, V any](window time.Duration, flush FlushFunc[V]) *Coalescer[K, V] {
	return &Coalescer[K, V]{window: window, flush: flush}
}

// Add queues value under key and restarts the quiet period.
func (c *Coalescer[K, V]) Add(key K, value V) {
	c.mu.Lock()
	for i, e := range c.pending {
		if e.key == key {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			c.superseded++
			break
		}
	}
	c.pending = append(c.pending, entry[K, V]{key: key, value: value})

	immediate := c.window <= 0 || c.closed
	if !immediate {
		if c.timer != nil {
			c.timer.Stop()
		}
		c.timer = time.AfterFunc(c.window, c.Flush)
	}
	c.mu.Unlock()

	if immediate {
		c.Flush()
	}
}

// Discard drops the value pending under key and counts it as superseded.
// It waits for a flush already in progress, so a batch taken before the call
// is delivered before Discard returns.
func (c *Coalescer[K, V]) Discard(key K) bool {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.pending {
		if e.key != key {
			continue
		}
		c.pending = append(c.pending[:i], c.pending[i+1:]...)
		c.superseded++
		if len(c.pending) == 0 && c.timer != nil {
			c.timer.Stop()
			c.timer = nil
		}
		return true
	}
	return false
}

// Pending reports how many values are waiting.
func (c *Coalescer[K, V]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Flush delivers whatever is pending now. It is a no-op when empty.
func (c *Coalescer[K, V]) Flush() {
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	batch := make([]V, 0, len(c.pending))
	for _, e := range c.pending {
		batch = append(batch, e.value)
	}
	superseded := c.superseded
	c.pending = nil
	c.superseded = 0
	c.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	c.flush(batch, superseded)
}

// Close flushes pending values; later Adds flush immediately.
func (c *Coalescer[K, V]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.Flush()
}
