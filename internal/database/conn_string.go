package database

import (
	"net"
	"net/url"
	"strconv"

	"github.com/emre-yildiz-dev/ohs-backend/internal/config"
)

// BuildConnString builds a PostgreSQL connection URL from config.
// cfg.URL is returned unchanged when set.
func BuildConnString(cfg config.DBConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	// url.URL escapes userinfo and brackets IPv6 hosts for us.
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
