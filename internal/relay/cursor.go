package relay

import (
	"context"
)

// Cursor is one subscriber's read position in a Channel.
// A cursor must not be read from more than one goroutine at a time.
type Cursor[T any] struct {
	ch     *Channel[T]
	next   uint64 // next unread sequence number
	closed bool
}

// Read returns the value at the cursor and advances it by one.
//
// Read blocks until a value is available, ctx is done, or the channel is
// closed and drained. If the cursor's next value has been overwritten, Read
// returns *Lagged with the exact number of skipped values and moves the
// cursor to the oldest retained value; call Read again to continue.
func (c *Cursor[T]) Read(ctx context.Context) (T, error) {
	var zero T

	for {
		if c.closed {
			return zero, ErrClosed
		}

		ch := c.ch
		ch.mu.Lock()

		if oldest := ch.oldest(); c.next < oldest {
			skipped := oldest - c.next
			c.next = oldest
			ch.skipped += skipped
			ch.mu.Unlock()
			return zero, &Lagged{Skipped: skipped}
		}

		if c.next < ch.tail {
			v := ch.buf[c.next%ch.capacity]
			c.next++
			ch.mu.Unlock()
			return v, nil
		}

		if ch.closed {
			ch.mu.Unlock()
			return zero, ErrClosed
		}

		wake := ch.wake
		ch.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-wake:
		}
	}
}

// Pending returns the number of retained values the cursor has not read.
// Values already overwritten are not counted.
func (c *Cursor[T]) Pending() int {
	ch := c.ch
	ch.mu.Lock()
	defer ch.mu.Unlock()

	start := c.next
	if oldest := ch.oldest(); start < oldest {
		start = oldest
	}
	return int(ch.tail - start)
}

// Close releases the subscription. Subsequent reads return ErrClosed.
// Close is idempotent.
func (c *Cursor[T]) Close() {
	if c.closed {
		return
	}
	c.closed = true

	c.ch.mu.Lock()
	c.ch.subscribers--
	c.ch.mu.Unlock()
}
