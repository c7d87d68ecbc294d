package connection

import (
	"errors"
	"time"
)

// ErrClosed is returned by Receive and Send once the connection was closed locally.
var ErrClosed = errors.New("connection closed")

// Config configures server-side WebSocket connections.
type Config struct {
	WriteTimeout    time.Duration // Write deadline for sends and control frames
	PingInterval    time.Duration // How often to ping the client
	PongTimeout     time.Duration // Max time without a pong before the read fails
	ReadLimit       int64         // Max inbound frame size in bytes (0 = unlimited)
	ReadBufferSize  int           // Upgrader read buffer size
	WriteBufferSize int           // Upgrader write buffer size
	AllowedOrigins  []string      // Accepted Origin headers (empty = allow all)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		PongTimeout:     60 * time.Second,
		ReadLimit:       64 * 1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}
