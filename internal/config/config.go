package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the root configuration for the OHS backend server.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Database  DBConfig        `yaml:"database"`
	Relay     RelayConfig     `yaml:"relay"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
	I18n      I18nConfig      `yaml:"i18n"`
}

// Environment is the deployment environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// ParseEnvironment accepts the long names and their common abbreviations.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return EnvDevelopment, nil
	case "staging", "stage":
		return EnvStaging, nil
	case "production", "prod":
		return EnvProduction, nil
	default:
		return "", fmt.Errorf("unknown environment %q", s)
	}
}

// AppConfig identifies the application.
type AppConfig struct {
	Name        string      `yaml:"name"`
	Environment Environment `yaml:"environment"`
	StaticDir   string      `yaml:"static_dir"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// DBConfig holds the PostgreSQL connection. URL, when set, wins over the
// individual fields.
type DBConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
	Migrate  bool   `yaml:"migrate"` // Apply the embedded schema at startup
}

// RelayConfig holds broadcast channel settings.
type RelayConfig struct {
	Capacity     int     `yaml:"capacity"`      // Messages retained for slow subscribers
	LagPolicy    string  `yaml:"lag_policy"`    // "resync" or "disconnect"
	InboundRate  float64 `yaml:"inbound_rate"`  // Per-client messages/second (0 = unlimited)
	InboundBurst int     `yaml:"inbound_burst"` // Burst for inbound_rate
}

// WebSocketConfig holds per-connection transport settings.
type WebSocketConfig struct {
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	PingInterval    time.Duration `yaml:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout"`
	ReadLimit       int64         `yaml:"read_limit"`
	ReadBufferSize  int           `yaml:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// I18nConfig holds localisation settings.
type I18nConfig struct {
	DefaultLanguage string `yaml:"default_language"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// IsDevelopment reports whether the app runs in development.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}
