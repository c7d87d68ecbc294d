package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if _, err := ParseEnvironment(string(c.App.Environment)); err != nil {
		return fmt.Errorf("app.environment: %w", err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New("server.port must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout < 0 {
		return errors.New("server.shutdown_timeout must be >= 0")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Relay.Capacity < 1 {
		return fmt.Errorf("relay.capacity must be >= 1, got %d", c.Relay.Capacity)
	}
	switch c.Relay.LagPolicy {
	case "resync", "disconnect":
	default:
		return fmt.Errorf("relay.lag_policy must be resync or disconnect, got %q", c.Relay.LagPolicy)
	}
	if c.Relay.InboundRate < 0 {
		return errors.New("relay.inbound_rate must be >= 0")
	}
	if c.Relay.InboundBurst < 0 {
		return errors.New("relay.inbound_burst must be >= 0")
	}

	if c.WebSocket.WriteTimeout < 0 {
		return errors.New("websocket.write_timeout must be >= 0")
	}
	if c.WebSocket.PingInterval < 0 {
		return errors.New("websocket.ping_interval must be >= 0")
	}
	if c.WebSocket.PongTimeout < 0 {
		return errors.New("websocket.pong_timeout must be >= 0")
	}
	// Without pings an idle client never sends a pong to extend the deadline.
	if c.WebSocket.PongTimeout > 0 && c.WebSocket.PingInterval == 0 {
		return errors.New("websocket.pong_timeout requires a positive ping_interval")
	}
	if c.WebSocket.PingInterval > 0 && c.WebSocket.PongTimeout > 0 &&
		c.WebSocket.PongTimeout <= c.WebSocket.PingInterval {
		return fmt.Errorf("websocket.pong_timeout (%s) must exceed ping_interval (%s)",
			c.WebSocket.PongTimeout, c.WebSocket.PingInterval)
	}
	if c.WebSocket.ReadLimit < 0 {
		return errors.New("websocket.read_limit must be >= 0")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.URL == "" {
		if db.Host == "" {
			return fmt.Errorf("%s.host is required", prefix)
		}
		if db.Name == "" {
			return fmt.Errorf("%s.name is required", prefix)
		}
		if db.User == "" {
			return fmt.Errorf("%s.user is required", prefix)
		}
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
