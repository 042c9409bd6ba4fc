// Package i18n resolves translation keys for admin labels and validation
// messages, falling back to the built-in English strings when no translator is
// configured or a key is missing.
package i18n

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingTranslator is reported to MissingHandler when no Translator was
// supplied.
var ErrMissingTranslator = errors.New("i18n: translator is not configured")

// Translator resolves a key for locale. Implementations may interpolate args.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingHandler decides what to return when a key cannot be translated.
type MissingHandler func(locale, key, fallback string, err error) string

// Catalog is an in-memory Translator keyed by locale then key. Values are
// fmt format strings.
type Catalog map[string]map[string]string

// Translate looks key up in locale, then in the locale's base language
// ("pt" for "pt-BR").
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		messages, ok := c[candidate]
		if !ok {
			continue
		}
		if msg, ok := messages[key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("i18n: missing %q for locale %q", key, locale)
}

// Localizer binds a translator to a locale.
type Localizer struct {
	Translator Translator
	Locale     string
	OnMissing  MissingHandler
}

// T translates key, returning fallback (or the key itself when fallback is
// empty) when the translation is unavailable.
func (l Localizer) T(key, fallback string, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}

	if l.Translator == nil {
		return l.missing(key, fallback, ErrMissingTranslator)
	}

	result, err := l.Translator.Translate(l.Locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return l.missing(key, fallback, err)
}

func (l Localizer) missing(key, fallback string, err error) string {
	if l.OnMissing != nil {
		return l.OnMissing(l.Locale, key, fallback, err)
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

func localeChain(locale string) []string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil
	}
	chain := []string{locale}
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		chain = append(chain, locale[:idx])
	}
	return chain
}
