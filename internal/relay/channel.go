package relay

import (
	"fmt"
	"sync"
)

// Channel is a thread-safe ring of the last Capacity published values.
// Publishing overwrites the oldest slot once the ring is full.
type Channel[T any] struct {
	mu       sync.Mutex
	buf      []T
	capacity uint64
	tail     uint64 // sequence number of the next published value
	closed   bool

	// wake is closed and replaced on every publish so blocked readers can
	// select on it together with their context.
	wake chan struct{}

	// Stats
	subscribers int
	skipped     uint64
}

// New creates a channel retaining at most capacity undelivered values per
// subscriber.
func New[T any](capacity int) (*Channel[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}
	return &Channel[T]{
		buf:      make([]T, capacity),
		capacity: uint64(capacity),
		wake:     make(chan struct{}),
	}, nil
}

// Publish appends a value. It never blocks on subscribers and never fails.
// A value published with no subscribers is still recorded.
// Publishing to a closed channel is a no-op.
func (c *Channel[T]) Publish(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.buf[c.tail%c.capacity] = v
	c.tail++

	close(c.wake)
	c.wake = make(chan struct{})
}

// Subscribe returns a cursor positioned after every value published so far.
func (c *Channel[T]) Subscribe() *Cursor[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.subscribers++
	return &Cursor[T]{ch: c, next: c.tail}
}

// Close wakes all blocked readers. Readers drain what is still retained and
// then receive ErrClosed. Close is idempotent.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.wake)
}

// Cap returns the ring capacity.
func (c *Channel[T]) Cap() int {
	return int(c.capacity)
}

// Stats returns channel statistics.
func (c *Channel[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Capacity:    int(c.capacity),
		Published:   c.tail,
		Retained:    int(c.tail - c.oldest()),
		Subscribers: c.subscribers,
		Skipped:     c.skipped,
		Closed:      c.closed,
	}
}

// Stats contains channel statistics.
type Stats struct {
	Capacity    int    `json:"capacity"`
	Published   uint64 `json:"published"`
	Retained    int    `json:"retained"`
	Subscribers int    `json:"subscribers"`
	Skipped     uint64 `json:"skipped"` // Sum over all Lagged signals
	Closed      bool   `json:"closed"`
}

// oldest returns the sequence number of the oldest retained value.
// Must be called with lock held.
func (c *Channel[T]) oldest() uint64 {
	if c.tail < c.capacity {
		return 0
	}
	return c.tail - c.capacity
}
