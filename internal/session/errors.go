package session

import (
	"errors"
	"fmt"
	"strings"
)

// Errors
var (
	ErrLagged      = errors.New("subscriber lagged beyond channel capacity")
	ErrHubStopped  = errors.New("hub stopped")
	ErrInvalidLag  = errors.New("invalid lag policy")
	errClientClose = errors.New("client closed connection")
)

// TransportError is a read or write failure on one session's transport.
// It never leaves the session that produced it.
type TransportError struct {
	Op  string // "receive" or "send"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// LagPolicy decides what a session does when its cursor lags.
type LagPolicy int

const (
	LagResync     LagPolicy = iota // log, resynchronise, keep delivering
	LagDisconnect                  // treat lag as unrecoverable and close
)

func (p LagPolicy) String() string {
	switch p {
	case LagResync:
		return "resync"
	case LagDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// ParseLagPolicy parses "resync" or "disconnect". Empty means resync.
func ParseLagPolicy(s string) (LagPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "resync":
		return LagResync, nil
	case "disconnect":
		return LagDisconnect, nil
	default:
		return LagResync, fmt.Errorf("%w: %q", ErrInvalidLag, s)
	}
}
