package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/emre-yildiz-dev/ohs-backend/internal/version"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   version.Get().Version,
		Services:  make(map[string]string),
	}

	// Check database
	if s.db == nil {
		health.Services["database"] = "not_configured"
	} else if err := s.db.Ping(ctx); err != nil {
		s.logger.Info("database health check failed", "error", err)
		health.Status = "unhealthy"
		health.Services["database"] = "unhealthy"
	} else {
		health.Services["database"] = "healthy"
	}

	// Check relay
	if s.hub.Stats().Relay.Closed {
		health.Status = "unhealthy"
		health.Services["relay"] = "stopped"
	} else {
		health.Services["relay"] = "healthy"
	}

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func (s *Server) handleDebugRelay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"hub":      s.hub.Stats(),
		"sessions": s.hub.Sessions(),
	})
}
