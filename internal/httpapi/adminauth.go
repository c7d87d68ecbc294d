package httpapi

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emre-yildiz-dev/ohs-backend/internal/model"
)

const (
	adminCookieName = "ohs_admin"
	adminSessionTTL = 8 * time.Hour
)

// errAdminRequired is returned to callers without a valid admin session.
var errAdminRequired = errors.New("admin session required")

type adminSession struct {
	userID    uuid.UUID
	role      model.UserRole
	expiresAt time.Time
}

// adminSessions maps opaque cookie tokens to logged-in administrators.
// Sessions live in memory and do not survive a restart.
type adminSessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]adminSession
}

func newAdminSessions(ttl time.Duration) *adminSessions {
	return &adminSessions{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]adminSession),
	}
}

// create starts a session for u and returns its token.
func (a *adminSessions) create(u *model.User) (string, time.Time) {
	token := uuid.NewString()
	expires := a.now().Add(a.ttl)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.sweep()
	a.sessions[token] = adminSession{userID: u.ID, role: u.Role, expiresAt: expires}
	return token, expires
}

// lookup returns the live session for token.
func (a *adminSessions) lookup(token string) (adminSession, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sess, ok := a.sessions[token]
	if !ok {
		return adminSession{}, false
	}
	if !a.now().Before(sess.expiresAt) {
		delete(a.sessions, token)
		return adminSession{}, false
	}
	return sess, true
}

func (a *adminSessions) revoke(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, token)
}

// sweep drops expired sessions. Must be called with lock held.
func (a *adminSessions) sweep() {
	now := a.now()
	for token, sess := range a.sessions {
		if !now.Before(sess.expiresAt) {
			delete(a.sessions, token)
		}
	}
}

// adminFromRequest reports whether r carries a live admin session cookie.
func (s *Server) adminFromRequest(r *http.Request) (adminSession, bool) {
	c, err := r.Cookie(adminCookieName)
	if err != nil || c.Value == "" {
		return adminSession{}, false
	}
	return s.admins.lookup(c.Value)
}

func (s *Server) setAdminCookie(w http.ResponseWriter, r *http.Request, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// requireAdminFragment guards HTMX endpoints; anonymous callers get a
// localized error fragment.
func (s *Server) requireAdminFragment(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.adminFromRequest(r); !ok {
			data := s.page(r)
			data.Message, data.IsError = data.T("admin-required"), true
			s.render(w, http.StatusUnauthorized, "flash.html", data)
			return
		}
		next(w, r)
	}
}

// requireAdminJSON guards JSON endpoints.
func (s *Server) requireAdminJSON(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.adminFromRequest(r); !ok {
			s.writeError(w, r, errAdminRequired)
			return
		}
		next(w, r)
	}
}
