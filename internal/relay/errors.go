package relay

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidCapacity = errors.New("relay: capacity must be >= 1")
	ErrClosed          = errors.New("relay: channel closed")
)

// Lagged reports that a cursor's next value was overwritten before it was
// read. Skipped is the exact number of values the cursor will never see.
// The cursor has already been moved to the oldest retained value.
type Lagged struct {
	Skipped uint64
}

func (l *Lagged) Error() string {
	return fmt.Sprintf("relay: subscriber lagged, %d messages skipped", l.Skipped)
}
