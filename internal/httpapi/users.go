package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/emre-yildiz-dev/ohs-backend/internal/model"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, &model.ValidationError{Field: "id", Message: "is not a valid uuid"})
		return
	}

	u, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleFindUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		s.writeError(w, r, &model.ValidationError{Field: "email", Message: "query parameter is required"})
		return
	}

	u, err := s.users.GetByEmail(r.Context(), email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var n model.NewUser
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&n); err != nil {
		s.writeError(w, r, &model.ValidationError{Field: "body", Message: fmt.Sprintf("malformed json: %v", err)})
		return
	}
	// Self-registration never grants privileges; roles are raised by an
	// administrator afterwards.
	n.Role = model.RoleEmployee

	u, err := s.users.Create(r.Context(), n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/users/"+u.ID.String())
	writeJSON(w, http.StatusCreated, u)
}
