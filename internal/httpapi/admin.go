package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/emre-yildiz-dev/ohs-backend/internal/i18n"
	"github.com/emre-yildiz-dev/ohs-backend/internal/repository"
	"github.com/emre-yildiz-dev/ohs-backend/internal/session"
)

// maxBroadcastLen bounds admin announcements.
const maxBroadcastLen = 4096

// pageData is passed to every admin template.
type pageData struct {
	Lang     string
	T        func(key string, args ...any) string
	Sessions []session.Info
	Stats    session.HubStats
	Message  string
	IsError  bool
}

func (s *Server) page(r *http.Request) pageData {
	lang := i18n.FromContext(r.Context())
	return pageData{
		Lang: lang.Code(),
		T: func(key string, args ...any) string {
			return s.localizer.T(lang, key, args...)
		},
	}
}

// render executes a template into a buffer first so a failure can still
// produce a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.adminFromRequest(r); !ok {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	data := s.page(r)
	data.Stats = s.hub.Stats()
	data.Sessions = s.hub.Sessions()
	s.render(w, http.StatusOK, "dashboard.html", data)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", s.page(r))
}

// handleAdminLoginSubmit checks credentials and answers with an HTMX fragment.
func (s *Server) handleAdminLoginSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.page(r)

	if err := r.ParseForm(); err != nil {
		data.Message, data.IsError = data.T("error-invalid-input"), true
		s.render(w, http.StatusBadRequest, "flash.html", data)
		return
	}

	u, err := s.users.Authenticate(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	switch {
	case errors.Is(err, repository.ErrInvalidCredentials):
		data.Message, data.IsError = data.T("login-failed"), true
		s.render(w, http.StatusUnauthorized, "flash.html", data)
	case err != nil:
		s.logger.Error("admin login failed", "error", err)
		data.Message, data.IsError = data.T("error-generic"), true
		s.render(w, http.StatusInternalServerError, "flash.html", data)
	case !u.Role.IsAdmin():
		s.logger.Warn("admin login refused", "user_id", u.ID, "role", u.Role)
		data.Message, data.IsError = data.T("admin-required"), true
		s.render(w, http.StatusForbidden, "flash.html", data)
	default:
		token, expires := s.admins.create(u)
		s.setAdminCookie(w, r, token, expires)
		s.logger.Info("admin login", "user_id", u.ID, "role", u.Role)

		w.Header().Set("HX-Redirect", "/admin/")
		data.Message = data.T("welcome-user", u.FullName())
		s.render(w, http.StatusOK, "flash.html", data)
	}
}

// handleAdminLogout ends the caller's admin session.
func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(adminCookieName); err == nil {
		s.admins.revoke(c.Value)
	}
	clearAdminCookie(w)

	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/admin/login")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// handleAdminSessions renders the live session table polled by the dashboard.
func (s *Server) handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	data := s.page(r)
	data.Stats = s.hub.Stats()
	data.Sessions = s.hub.Sessions()
	s.render(w, http.StatusOK, "sessions.html", data)
}

// handleAdminBroadcast publishes an announcement to every connected client.
func (s *Server) handleAdminBroadcast(w http.ResponseWriter, r *http.Request) {
	data := s.page(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		data.Message, data.IsError = data.T("error-invalid-input"), true
		s.render(w, http.StatusBadRequest, "flash.html", data)
		return
	}

	msg := strings.TrimSpace(r.PostForm.Get("message"))
	if msg == "" || len(msg) > maxBroadcastLen {
		data.Message, data.IsError = data.T("error-invalid-input"), true
		s.render(w, http.StatusBadRequest, "flash.html", data)
		return
	}

	s.hub.Publish(msg)
	admin, _ := s.adminFromRequest(r)
	s.logger.Info("admin broadcast", "user_id", admin.userID, "length", len(msg))

	data.Message = data.T("broadcast-sent")
	s.render(w, http.StatusOK, "flash.html", data)
}
