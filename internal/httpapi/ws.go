package httpapi

import (
	"errors"
	"net/http"

	"github.com/emre-yildiz-dev/ohs-backend/internal/session"
)

// handleWebSocket upgrades the request and runs a relay session on it until
// either side closes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.acceptor.Accept(w, r)
	if err != nil {
		// The upgrader has already written the HTTP error.
		s.logger.Debug("websocket upgrade failed",
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		return
	}

	err = s.hub.Serve(r.Context(), conn)
	if errors.Is(err, session.ErrHubStopped) {
		s.logger.Debug("websocket rejected, relay stopped", "remote_addr", r.RemoteAddr)
	}
}
