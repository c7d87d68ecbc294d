package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

// HeaderLanguage overrides Accept-Language when set.
const HeaderLanguage = "X-Language"

var matcher = language.NewMatcher([]language.Tag{
	Turkish.Tag(),
	English.Tag(),
})

// Detect picks the request language: X-Language first, then the best
// Accept-Language match, then fallback.
func Detect(r *http.Request, fallback Language) Language {
	if v := r.Header.Get(HeaderLanguage); v != "" {
		if lang, err := Parse(v); err == nil {
			return lang
		}
	}

	if v := r.Header.Get("Accept-Language"); v != "" {
		if lang, ok := matchAcceptLanguage(v); ok {
			return lang
		}
	}

	return fallback
}

// matchAcceptLanguage honours q-weights. Malformed headers and headers with
// no supported language report false.
func matchAcceptLanguage(header string) (Language, bool) {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "", false
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return "", false
	}
	return All()[index], true
}

type contextKey struct{}

// WithLanguage returns a copy of ctx carrying lang.
func WithLanguage(ctx context.Context, lang Language) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

// FromContext returns the request language, or Default.
func FromContext(ctx context.Context) Language {
	if lang, ok := ctx.Value(contextKey{}).(Language); ok {
		return lang
	}
	return Default
}

// Middleware stores the detected language in the request context and echoes
// it in the Content-Language response header.
func Middleware(fallback Language) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := Detect(r, fallback)
			w.Header().Set("Content-Language", lang.Code())
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), lang)))
		})
	}
}
