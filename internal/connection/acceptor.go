package connection

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// Acceptor upgrades inbound HTTP requests to WebSocket connections.
type Acceptor struct {
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewAcceptor creates an Acceptor for the given configuration.
func NewAcceptor(cfg Config, logger *slog.Logger) *Acceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Acceptor{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
	}
}

// Accept performs the upgrade handshake. On failure the upgrader has already
// written an HTTP error response.
func (a *Acceptor) Accept(w http.ResponseWriter, r *http.Request) (*Conn, error) {
	ws, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket upgrade: %w", err)
	}
	return New(ws, a.cfg, a.logger), nil
}

// originChecker returns a CheckOrigin func accepting the listed origins.
// An empty list accepts everything; requests without Origin (non-browser
// clients) are always accepted.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[strings.ToLower(strings.TrimRight(origin, "/"))] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}
