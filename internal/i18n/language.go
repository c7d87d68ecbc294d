package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is a supported UI language.
type Language string

const (
	Turkish Language = "tr"
	English Language = "en"
)

// Default is used when nothing better can be detected.
const Default = Turkish

// All returns every supported language, default first.
func All() []Language {
	return []Language{Turkish, English}
}

// Parse accepts language codes and names.
func Parse(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tr", "tr-tr", "turkish", "türkçe":
		return Turkish, nil
	case "en", "en-us", "english":
		return English, nil
	default:
		return "", fmt.Errorf("unsupported language: %s", s)
	}
}

// Code returns the short language code.
func (l Language) Code() string {
	return string(l)
}

// Name returns the language's own name for itself.
func (l Language) Name() string {
	switch l {
	case Turkish:
		return "Türkçe"
	case English:
		return "English"
	default:
		return string(l)
	}
}

// Tag returns the BCP 47 tag used for formatting.
func (l Language) Tag() language.Tag {
	switch l {
	case English:
		return language.AmericanEnglish
	default:
		return language.Turkish
	}
}

func (l Language) String() string {
	return string(l)
}
