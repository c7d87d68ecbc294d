package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/emre-yildiz-dev/ohs-backend/internal/i18n"
	"github.com/emre-yildiz-dev/ohs-backend/internal/model"
	"github.com/emre-yildiz-dev/ohs-backend/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// classify maps an error to a status code and a message key.
func classify(err error) (int, string) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "error-invalid-input"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "error-not-found"
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict, "error-duplicate"
	case errors.Is(err, repository.ErrInvalidCredentials):
		return http.StatusUnauthorized, "login-failed"
	case errors.Is(err, errAdminRequired):
		return http.StatusUnauthorized, "admin-required"
	default:
		return http.StatusInternalServerError, "error-internal"
	}
}

// writeError renders err as {"error": {"message", "details"}} in the request
// language. Server errors are logged and their details withheld.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, key := classify(err)

	detail := errorDetail{
		Message: s.localizer.T(i18n.FromContext(r.Context()), key),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
	} else {
		detail.Details = err.Error()
	}

	writeJSON(w, status, errorBody{Error: detail})
}
