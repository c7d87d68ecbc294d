package httpapi

import (
	"net/http"
	"strings"

	"github.com/emre-yildiz-dev/ohs-backend/internal/i18n"
)

// defaultTranslationKeys are returned when the client names none.
var defaultTranslationKeys = []string{
	"app-name", "welcome", "login", "logout", "email", "password",
	"save", "cancel", "create", "edit", "delete", "loading",
	"error-generic", "success-saved",
}

type languageInfo struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

func (s *Server) languageInfo(lang i18n.Language) languageInfo {
	return languageInfo{
		Code:      lang.Code(),
		Name:      lang.Name(),
		IsDefault: lang == s.localizer.Fallback(),
	}
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	all := i18n.All()
	languages := make([]languageInfo, 0, len(all))
	for _, lang := range all {
		languages = append(languages, s.languageInfo(lang))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"languages":        languages,
		"default_language": s.localizer.Fallback().Code(),
	})
}

// handleTranslations serves ?keys=a,b&language=en. An absent or unknown
// language uses the detected request language.
func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	lang := i18n.FromContext(r.Context())
	if v := r.URL.Query().Get("language"); v != "" {
		if parsed, err := i18n.Parse(v); err == nil {
			lang = parsed
		}
	}

	keys := defaultTranslationKeys
	if v := r.URL.Query().Get("keys"); v != "" {
		keys = nil
		for _, key := range strings.Split(v, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"translations":   s.localizer.Translations(lang, keys),
		"language":       lang.Code(),
		"requested_keys": keys,
	})
}

func (s *Server) handleCurrentLanguage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.languageInfo(i18n.FromContext(r.Context())))
}
