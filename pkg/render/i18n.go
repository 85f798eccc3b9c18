package render

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLocale is used when no locale is requested.
const DefaultLocale = "en"

// ErrMissingTranslation is returned by a Translator that has no entry.
var ErrMissingTranslation = errors.New("render: missing translation")

// Translator resolves a UI string key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Catalog is a Translator over in-memory message tables. Messages are
// fmt format strings.
type Catalog map[string]map[string]string

// Translate implements Translator. A regional locale such as es-AR falls
// back to its base language.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	for _, candidate := range localeChain(locale) {
		if msg, ok := c[candidate][key]; ok {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

// Locales lists the catalog's locales.
func (c Catalog) Locales() []string {
	out := make([]string, 0, len(c))
	for locale := range c {
		out = append(out, locale)
	}
	return out
}

// DefaultCatalog holds the built-in UI strings.
var DefaultCatalog = Catalog{
	"en": {
		"status.ready":        "Ready",
		"status.missing_base": "Missing base URL",
		"status.invalid_base": "Invalid base URL",
		"status.copied":       "Copied",
		"params.count":        "%d parameters",
		"switch.on":           "On",
		"switch.off":          "Off",
		"base.label":          "Base URL",
		"url.label":           "Generated URL",
		"action.copy":         "Copy",
		"action.open":         "Open",
		"action.reset":        "Reset",
		"action.refresh":      "Refresh preview",
		"action.quit":         "Quit",
		"live.label":          "Live preview",
		"preview.title":       "Preview",
		"schema.reloaded":     "Schema changed. Reload to apply.",
	},
	"es": {
		"status.ready":        "Listo",
		"status.missing_base": "Falta URL base",
		"status.invalid_base": "URL base inválida",
		"status.copied":       "Copiado",
		"params.count":        "%d parametros",
		"switch.on":           "Activado",
		"switch.off":          "Desactivado",
		"base.label":          "URL base",
		"url.label":           "URL generada",
		"action.copy":         "Copiar",
		"action.open":         "Abrir",
		"action.reset":        "Restablecer",
		"action.refresh":      "Actualizar vista previa",
		"action.quit":         "Salir",
		"live.label":          "Vista previa en vivo",
		"preview.title":       "Vista previa",
		"schema.reloaded":     "El esquema cambió. Recarga para aplicarlo.",
	},
}

// Translate resolves key through t, then DefaultCatalog, then the key
// itself.
func Translate(t Translator, locale, key string, args ...any) string {
	if strings.TrimSpace(locale) == "" {
		locale = DefaultLocale
	}
	if t != nil {
		if msg, err := t.Translate(locale, key, args...); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if msg, err := DefaultCatalog.Translate(locale, key, args...); err == nil {
		return msg
	}
	if msg, err := DefaultCatalog.Translate(DefaultLocale, key, args...); err == nil {
		return msg
	}
	return key
}

// StatusKey maps a compiler status string onto its catalog key.
func StatusKey(status string) string {
	return "status." + status
}

func localeChain(locale string) []string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return []string{DefaultLocale}
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if base, _, ok := strings.Cut(locale, "-"); ok {
		return []string{locale, base}
	}
	return []string{locale}
}
