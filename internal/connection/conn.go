package connection

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// controlTimeout bounds close and ping frames when no write timeout is set.
const controlTimeout = time.Second

// Conn is a server-side WebSocket connection carrying text frames.
// Receive must be called from one goroutine; Send, Close and RemoteAddr are
// safe for concurrent use.
type Conn struct {
	cfg    Config
	logger *slog.Logger

	ws *websocket.Conn

	// Write serialization
	writeMu sync.Mutex

	// Lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error

	// State
	mu         sync.RWMutex
	lastPongAt time.Time
}

// New wraps an upgraded WebSocket connection and starts its heartbeat.
func New(ws *websocket.Conn, cfg Config, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Conn{
		cfg:        cfg,
		logger:     logger,
		ws:         ws,
		done:       make(chan struct{}),
		lastPongAt: time.Now(),
	}

	if cfg.ReadLimit > 0 {
		ws.SetReadLimit(cfg.ReadLimit)
	}

	// The pong deadline is only armed when pings are sent to answer it.
	if cfg.PingInterval > 0 && cfg.PongTimeout > 0 {
		ws.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
		ws.SetPongHandler(func(string) error {
			c.mu.Lock()
			c.lastPongAt = time.Now()
			c.mu.Unlock()
			return ws.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
		})
	}

	go c.heartbeatLoop()

	return c
}

// Receive returns the next text frame from the client.
//
// It returns io.EOF when the client closes the connection cleanly and
// ErrClosed when the connection was closed locally. A blocked Receive is not
// interrupted by ctx; call Close to abort it.
func (c *Conn) Receive(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			return "", c.readError(err)
		}

		if msgType != websocket.TextMessage {
			c.logger.Debug("skipping non-text frame",
				"remote_addr", c.RemoteAddr(),
				"type", msgType,
			)
			continue
		}

		return string(data), nil
	}
}

// Send writes one text frame. The write is bounded by the configured write
// timeout or the ctx deadline, whichever is sooner.
func (c *Conn) Send(ctx context.Context, text string) error {
	if c.isClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	var deadline time.Time
	if c.cfg.WriteTimeout > 0 {
		deadline = time.Now().Add(c.cfg.WriteTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	c.ws.SetWriteDeadline(deadline)

	if err := c.ws.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		if c.isClosed() {
			return ErrClosed
		}
		return err
	}
	return nil
}

// Close sends a normal-closure frame and tears the connection down.
// Blocked Receive and Send calls return promptly. Close is idempotent.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)

		// Best effort; the peer may already be gone.
		c.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(controlTimeout),
		)
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}

// RemoteAddr returns the client's network address.
func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// LastPongAt returns when the client last answered a ping.
func (c *Conn) LastPongAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPongAt
}

func (c *Conn) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// readError maps read failures onto the transport contract.
func (c *Conn) readError(err error) error {
	if c.isClosed() {
		return ErrClosed
	}
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return io.EOF
	}
	return err
}

// heartbeatLoop pings the client until the connection closes.
func (c *Conn) heartbeatLoop() {
	if c.cfg.PingInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			timeout := c.cfg.WriteTimeout
			if timeout <= 0 {
				timeout = controlTimeout
			}
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(timeout)); err != nil {
				c.logger.Debug("failed to send ping",
					"remote_addr", c.RemoteAddr(),
					"error", err,
				)
				return
			}
		}
	}
}
