package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/emre-yildiz-dev/ohs-backend/internal/relay"
)

// HubConfig configures a Hub.
type HubConfig struct {
	Capacity     int       // Relay ring size; must be >= 1 (default: 100)
	LagPolicy    LagPolicy // What to do with lagging subscribers (default: resync)
	InboundRate  float64   // Per-session publish rate limit (0 = unlimited)
	InboundBurst int       // Burst for InboundRate
}

// DefaultHubConfig returns default configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		Capacity:  100,
		LagPolicy: LagResync,
	}
}

// HubStats contains runtime statistics.
type HubStats struct {
	Active   int         `json:"active"`
	Accepted int64       `json:"accepted"`
	Closed   int64       `json:"closed"`
	Failed   int64       `json:"failed"` // Sessions closed by a transport error or lag eviction
	Relay    relay.Stats `json:"relay"`
}

// Hub accepts transports and runs a Session for each on one shared channel.
type Hub struct {
	cfg     HubConfig
	logger  *slog.Logger
	channel *relay.Channel[string]

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.RWMutex
	sessions map[string]*Session
	stopped  bool
	accepted int64
	closed   int64
	failed   int64
}

// NewHub creates a Hub. It fails when cfg.Capacity is invalid.
func NewHub(cfg HubConfig, logger *slog.Logger) (*Hub, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ch, err := relay.New[string](cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("create relay channel: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		cfg:      cfg,
		logger:   logger,
		channel:  ch,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}, nil
}

// Serve runs a new session for t and returns once it is Closed.
// The hub owns t from this point; it is closed on return.
func (h *Hub) Serve(ctx context.Context, t Transport) error {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		t.Close()
		return ErrHubStopped
	}

	s := NewSession(t, h.channel, Options{
		LagPolicy:    h.cfg.LagPolicy,
		InboundRate:  h.cfg.InboundRate,
		InboundBurst: h.cfg.InboundBurst,
		Logger:       h.logger,
	})
	h.sessions[s.ID()] = s
	h.accepted++
	active := len(h.sessions)
	h.wg.Add(1)
	h.mu.Unlock()

	defer h.wg.Done()

	h.logger.Info("session opened",
		"session_id", s.ID(),
		"remote_addr", t.RemoteAddr(),
		"active", active,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(h.ctx, cancel)
	defer stop()

	err := s.Run(ctx)

	h.mu.Lock()
	delete(h.sessions, s.ID())
	h.closed++
	if err != nil {
		h.failed++
	}
	active = len(h.sessions)
	h.mu.Unlock()

	info := s.Info()
	h.logger.Info("session closed",
		"session_id", info.ID,
		"reason", info.Reason,
		"received", info.Received,
		"delivered", info.Delivered,
		"skipped", info.Skipped,
		"active", active,
	)

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		h.logger.Debug("session transport error",
			"session_id", info.ID,
			"op", transportErr.Op,
			"error", transportErr.Err,
		)
	}

	return err
}

// Publish sends a server-originated message to every session.
func (h *Hub) Publish(text string) {
	h.channel.Publish(text)
}

// Stop cancels every live session and waits for them to close, bounded by
// ctx. Serve calls made after Stop return ErrHubStopped.
func (h *Hub) Stop(ctx context.Context) error {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return nil
	}
	h.stopped = true
	active := len(h.sessions)
	h.mu.Unlock()

	h.logger.Info("stopping relay hub", "active", active)

	h.cancel()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
		h.logger.Info("relay hub stopped")
	case <-ctx.Done():
		h.logger.Warn("relay hub stop timed out")
		err = ctx.Err()
	}

	h.channel.Close()
	return err
}

// Stats returns current statistics.
func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return HubStats{
		Active:   len(h.sessions),
		Accepted: h.accepted,
		Closed:   h.closed,
		Failed:   h.failed,
		Relay:    h.channel.Stats(),
	}
}

// Sessions returns a snapshot of live sessions, oldest first.
func (h *Hub) Sessions() []Info {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	infos := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].OpenedAt.Before(infos[j].OpenedAt)
	})
	return infos
}
