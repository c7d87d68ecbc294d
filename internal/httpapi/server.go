package httpapi

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/emre-yildiz-dev/ohs-backend/internal/connection"
	"github.com/emre-yildiz-dev/ohs-backend/internal/i18n"
	"github.com/emre-yildiz-dev/ohs-backend/internal/model"
	"github.com/emre-yildiz-dev/ohs-backend/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UserStore is the user persistence the API needs.
type UserStore interface {
	Create(ctx context.Context, n model.NewUser) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

// Deps are the collaborators a Server routes to.
type Deps struct {
	Hub       *session.Hub
	Acceptor  *connection.Acceptor
	Localizer *i18n.Localizer
	Users     UserStore
	DB        Pinger // nil reports the database as not configured
	StaticDir string // "" disables /static/
	Logger    *slog.Logger
}

// Server holds the HTTP handlers.
type Server struct {
	hub       *session.Hub
	acceptor  *connection.Acceptor
	localizer *i18n.Localizer
	users     UserStore
	db        Pinger
	staticDir string
	logger    *slog.Logger
	templates *template.Template
	admins    *adminSessions
}

// New validates deps and parses the admin templates.
func New(d Deps) (*Server, error) {
	if d.Hub == nil {
		return nil, errors.New("httpapi: hub is required")
	}
	if d.Acceptor == nil {
		return nil, errors.New("httpapi: acceptor is required")
	}
	if d.Localizer == nil {
		return nil, errors.New("httpapi: localizer is required")
	}
	if d.Users == nil {
		return nil, errors.New("httpapi: user store is required")
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		hub:       d.Hub,
		acceptor:  d.Acceptor,
		localizer: d.Localizer,
		users:     d.Users,
		db:        d.DB,
		staticDir: d.StaticDir,
		logger:    logger,
		templates: tmpl,
		admins:    newAdminSessions(adminSessionTTL),
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHello)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /debug/relay", s.requireAdminJSON(s.handleDebugRelay))

	mux.HandleFunc("GET /i18n/languages", s.handleLanguages)
	mux.HandleFunc("GET /i18n/translations", s.handleTranslations)
	mux.HandleFunc("GET /i18n/current-language", s.handleCurrentLanguage)

	mux.HandleFunc("GET /admin/{$}", s.handleAdminDashboard)
	mux.HandleFunc("GET /admin/login", s.handleAdminLogin)
	mux.HandleFunc("POST /admin/login", s.handleAdminLoginSubmit)
	mux.HandleFunc("POST /admin/logout", s.handleAdminLogout)
	mux.HandleFunc("GET /admin/sessions", s.requireAdminFragment(s.handleAdminSessions))
	mux.HandleFunc("POST /admin/broadcast", s.requireAdminFragment(s.handleAdminBroadcast))

	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("GET /api/users", s.handleFindUser)
	mux.HandleFunc("POST /api/users", s.handleCreateUser)

	if s.staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	}

	var h http.Handler = mux
	h = i18n.Middleware(s.localizer.Fallback())(h)
	h = accessLog(s.logger)(h)
	h = requestID(h)
	return h
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "OHS Backend says hello!\n")
}
