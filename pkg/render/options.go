package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-urlform/pkg/controller"
)

// RenderOptions describe per-request presentation choices that do not touch
// the controller state.
type RenderOptions struct {
	// Locale selects the UI string catalog. Empty means DefaultLocale.
	Locale string
	// Translator resolves UI strings. Nil falls back to the built-in
	// catalogs.
	Translator Translator
	// Theme carries resolved tokens, CSS variables and asset URLs.
	Theme *theme.RendererConfig
	// AssetPrefix is the URL prefix the page loads its own scripts and styles
	// from.
	AssetPrefix string
}

// T translates key for the options' locale.
func (o RenderOptions) T(key string, args ...any) string {
	return Translate(o.Translator, o.Locale, key, args...)
}

// StatusText is the localized status indicator text for frame.
func (o RenderOptions) StatusText(frame controller.Frame) string {
	return o.T(StatusKey(frame.Result.Status.String()))
}

// CountText is the localized parameter count text for frame.
func (o RenderOptions) CountText(frame controller.Frame) string {
	return o.T("params.count", frame.Result.ParamCount)
}
