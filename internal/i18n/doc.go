// Package i18n provides language detection and message localisation.
//
// Turkish is the default language; English is the only other supported one.
// Messages live in embedded YAML files (locales/<code>.yaml), one flat
// key/value map per language. Values are printf-style formats rendered
// through golang.org/x/text/message, so numbers follow the locale's
// conventions.
package i18n
