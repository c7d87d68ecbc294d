package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAppName           = "ohs-backend"
	DefaultEnvironment       = EnvDevelopment
	DefaultStaticDir         = "static"
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 3000
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
	DefaultDBPort            = 5432
	DefaultDBSSLMode         = "prefer"
	DefaultMaxConns          = 10
	DefaultMinConns          = 2
	DefaultRelayCapacity     = 100
	DefaultLagPolicy         = "resync"
	DefaultWriteTimeout      = 10 * time.Second
	DefaultPingInterval      = 30 * time.Second
	DefaultPongTimeout       = 60 * time.Second
	DefaultReadLimit         = 64 * 1024
	DefaultWSBufferSize      = 1024
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultLanguage          = "tr"
)

// ApplyDefaults fills every zero-valued optional field.
//
// A negative relay.capacity is left alone
// so that Validate rejects it.
func (c *Config) ApplyDefaults() {
	// App defaults
	if c.App.Name == "" {
		c.App.Name = DefaultAppName
	}
	if c.App.Environment == "" {
		c.App.Environment = DefaultEnvironment
	}
	if c.App.StaticDir == "" {
		c.App.StaticDir = DefaultStaticDir
	}

	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Database defaults
	applyDBDefaults(&c.Database)

	// Relay defaults
	if c.Relay.Capacity == 0 {
		c.Relay.Capacity = DefaultRelayCapacity
	}
	if c.Relay.LagPolicy == "" {
		c.Relay.LagPolicy = DefaultLagPolicy
	}
	if c.Relay.InboundRate > 0 && c.Relay.InboundBurst == 0 {
		c.Relay.InboundBurst = 1
	}

	// WebSocket defaults
	if c.WebSocket.WriteTimeout == 0 {
		c.WebSocket.WriteTimeout = DefaultWriteTimeout
	}
	if c.WebSocket.PingInterval == 0 {
		c.WebSocket.PingInterval = DefaultPingInterval
	}
	if c.WebSocket.PongTimeout == 0 {
		c.WebSocket.PongTimeout = DefaultPongTimeout
	}
	if c.WebSocket.ReadLimit == 0 {
		c.WebSocket.ReadLimit = DefaultReadLimit
	}
	if c.WebSocket.ReadBufferSize == 0 {
		c.WebSocket.ReadBufferSize = DefaultWSBufferSize
	}
	if c.WebSocket.WriteBufferSize == 0 {
		c.WebSocket.WriteBufferSize = DefaultWSBufferSize
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	if c.I18n.DefaultLanguage == "" {
		c.I18n.DefaultLanguage = DefaultLanguage
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
