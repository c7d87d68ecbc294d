package i18n

import (
	"embed"
	"fmt"
	"sort"

	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Localizer renders messages in any supported language.
type Localizer struct {
	fallback Language
	messages map[Language]map[string]string
	printers map[Language]*message.Printer
}

// NewLocalizer loads the embedded locale files. Missing keys fall back to
// the fallback language, then to the key itself.
func NewLocalizer(fallback Language) (*Localizer, error) {
	l := &Localizer{
		fallback: fallback,
		messages: make(map[Language]map[string]string),
		printers: make(map[Language]*message.Printer),
	}

	for _, lang := range All() {
		data, err := localeFS.ReadFile("locales/" + lang.Code() + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read %s locale: %w", lang, err)
		}
		if err := l.add(lang, data); err != nil {
			return nil, err
		}
	}

	if _, ok := l.messages[fallback]; !ok {
		return nil, fmt.Errorf("no messages for fallback language %q", fallback)
	}
	return l, nil
}

// add registers a YAML key/value document for lang.
func (l *Localizer) add(lang Language, data []byte) error {
	var msgs map[string]string
	if err := yaml.Unmarshal(data, &msgs); err != nil {
		return fmt.Errorf("parse %s locale: %w", lang, err)
	}

	b := catalog.NewBuilder(catalog.Fallback(lang.Tag()))
	for key, msg := range msgs {
		if err := b.SetString(lang.Tag(), key, msg); err != nil {
			return fmt.Errorf("%s locale key %q: %w", lang, key, err)
		}
	}

	l.messages[lang] = msgs
	l.printers[lang] = message.NewPrinter(lang.Tag(), message.Catalog(b))
	return nil
}

// T renders key in lang with printf-style args.
func (l *Localizer) T(lang Language, key string, args ...any) string {
	_, from, ok := l.lookup(lang, key)
	if !ok {
		return key
	}
	return l.printers[from].Sprintf(key, args...)
}

// lookup returns the raw message for key and the language it came from.
func (l *Localizer) lookup(lang Language, key string) (string, Language, bool) {
	if msg, ok := l.messages[lang][key]; ok {
		return msg, lang, true
	}
	if msg, ok := l.messages[l.fallback][key]; ok {
		return msg, l.fallback, true
	}
	return "", "", false
}

// Has reports whether lang defines key.
func (l *Localizer) Has(lang Language, key string) bool {
	_, ok := l.messages[lang][key]
	return ok
}

// Translations returns the unformatted messages for keys, for clients that
// format on their side. Unknown keys map to themselves.
func (l *Localizer) Translations(lang Language, keys []string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if msg, _, ok := l.lookup(lang, key); ok {
			out[key] = msg
		} else {
			out[key] = key
		}
	}
	return out
}

// Keys returns every key defined for lang, sorted.
func (l *Localizer) Keys(lang Language) []string {
	keys := make([]string, 0, len(l.messages[lang]))
	for key := range l.messages[lang] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Fallback returns the language used for missing keys.
func (l *Localizer) Fallback() Language {
	return l.fallback
}
