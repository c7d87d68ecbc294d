package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/emre-yildiz-dev/ohs-backend/internal/relay"
)

// Transport is a duplex text connection to one client.
type Transport interface {
	// Receive returns the next text message. It returns io.EOF when the
	// client closes cleanly. It may ignore ctx; Close must unblock it.
	Receive(ctx context.Context) (string, error)

	// Send delivers one text message.
	Send(ctx context.Context, text string) error

	// Close aborts any blocked Receive or Send. Safe to call more than once.
	Close() error

	// RemoteAddr identifies the client for logs.
	RemoteAddr() string
}

// Options configures a Session.
type Options struct {
	LagPolicy    LagPolicy
	InboundRate  float64 // Messages per second a client may publish (0 = unlimited)
	InboundBurst int     // Burst allowance for InboundRate
	Logger       *slog.Logger
}

// Close reasons reported in Info and logs.
const (
	ReasonClientClosed   = "client_closed"
	ReasonShutdown       = "shutdown"
	ReasonTransportError = "transport_error"
	ReasonLagged         = "lagged"
)

var errAlreadyRun = errors.New("session already run")

// Session couples one transport to the relay channel.
type Session struct {
	id         string
	remoteAddr string
	transport  Transport
	channel    *relay.Channel[string]
	opts       Options
	logger     *slog.Logger
	limiter    *rate.Limiter

	started atomic.Bool

	// State
	mu       sync.RWMutex
	state    State
	cause    error
	reason   string
	cursor   *relay.Cursor[string]
	openedAt time.Time
	closedAt time.Time

	// Counters
	received  atomic.Uint64
	delivered atomic.Uint64
	skipped   atomic.Uint64
}

// NewSession creates an Open session for t. The session takes ownership of
// the transport.
func NewSession(t Transport, ch *relay.Channel[string], opts Options) *Session {
	id := uuid.NewString()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		id:         id,
		remoteAddr: t.RemoteAddr(),
		transport:  t,
		channel:    ch,
		opts:       opts,
		logger:     logger.With("session_id", id),
		state:      StateOpen,
		openedAt:   time.Now(),
	}

	if opts.InboundRate > 0 {
		burst := opts.InboundBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.InboundRate), burst)
	}

	return s
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Cause returns the error that closed the session, or nil for a clean close
// or shutdown. Only meaningful once the session left StateOpen.
func (s *Session) Cause() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cause
}

// Reason returns why the session closed, or "" while it is open.
func (s *Session) Reason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

// Run drives the session until both directions stop and the transport is
// released. It returns nil when the client closed cleanly or ctx was
// cancelled, a *TransportError on I/O failure, and ErrLagged when the lag
// policy evicted the session. Run may be called once.
func (s *Session) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errAlreadyRun
	}

	cursor := s.channel.Subscribe()
	s.mu.Lock()
	s.cursor = cursor
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	// Transport I/O cannot observe ctx, so abort it as soon as either
	// direction stops.
	stop := context.AfterFunc(gctx, func() {
		s.transport.Close()
	})
	defer stop()

	g.Go(func() error {
		err := s.inbound(gctx)
		s.beginClose(err)
		cancel()
		return err
	})

	g.Go(func() error {
		err := s.outbound(gctx, cursor)
		s.beginClose(err)
		cancel()
		return err
	})

	// Both directions report through beginClose; Cause below is authoritative.
	_ = g.Wait()

	cursor.Close()
	s.transport.Close()
	s.finishClose()

	return s.Cause()
}

// inbound publishes every message the client sends.
func (s *Session) inbound(ctx context.Context) error {
	for {
		text, err := s.transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return errClientClose
			}
			return &TransportError{Op: "receive", Err: err}
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		}

		// No sender exclusion: the sender's own outbound direction sees it too.
		s.channel.Publish(text)
		s.received.Add(1)
	}
}

// outbound forwards every channel message to the client.
func (s *Session) outbound(ctx context.Context, cursor *relay.Cursor[string]) error {
	for {
		msg, err := cursor.Read(ctx)
		if err != nil {
			var lagged *relay.Lagged
			if errors.As(err, &lagged) {
				s.skipped.Add(lagged.Skipped)
				if s.opts.LagPolicy == LagDisconnect {
					s.logger.Warn("subscriber lagged, disconnecting",
						"skipped", lagged.Skipped,
						"remote_addr", s.remoteAddr,
					)
					return ErrLagged
				}
				s.logger.Warn("subscriber lagged, resynchronising",
					"skipped", lagged.Skipped,
					"remote_addr", s.remoteAddr,
				)
				continue
			}
			return err
		}

		if err := s.transport.Send(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &TransportError{Op: "send", Err: err}
		}
		s.delivered.Add(1)
	}
}

// beginClose moves Open → Closing. Only the first caller records the cause.
func (s *Session) beginClose(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !isValidTransition(s.state, StateClosing) {
		return
	}
	s.state = StateClosing

	var transportErr *TransportError
	switch {
	case errors.Is(err, errClientClose):
		s.reason = ReasonClientClosed
	case errors.Is(err, ErrLagged):
		s.reason = ReasonLagged
		s.cause = err
	case errors.As(err, &transportErr):
		s.reason = ReasonTransportError
		s.cause = err
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, relay.ErrClosed):
		s.reason = ReasonShutdown
	default:
		s.reason = ReasonTransportError
		s.cause = &TransportError{Op: "receive", Err: err}
	}
}

// finishClose moves Closing → Closed.
func (s *Session) finishClose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if isValidTransition(s.state, StateClosed) {
		s.state = StateClosed
		s.closedAt = time.Now()
	}
}

// Info is a point-in-time view of a session.
type Info struct {
	ID         string    `json:"id"`
	RemoteAddr string    `json:"remote_addr"`
	State      string    `json:"state"`
	Reason     string    `json:"reason,omitempty"`
	OpenedAt   time.Time `json:"opened_at"`
	Received   uint64    `json:"received"`
	Delivered  uint64    `json:"delivered"`
	Skipped    uint64    `json:"skipped"`
	Pending    int       `json:"pending"`
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.RLock()
	info := Info{
		ID:         s.id,
		RemoteAddr: s.remoteAddr,
		State:      s.state.String(),
		Reason:     s.reason,
		OpenedAt:   s.openedAt,
	}
	cursor := s.cursor
	s.mu.RUnlock()

	info.Received = s.received.Load()
	info.Delivered = s.delivered.Load()
	info.Skipped = s.skipped.Load()
	if cursor != nil {
		info.Pending = cursor.Pending()
	}
	return info
}
