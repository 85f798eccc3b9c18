package server

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-urlform/pkg/render"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry replaces the page renderers. The registry fallback serves
// GET / when no format is requested.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.renderers = registry
		}
	}
}

// WithThemes sets the theme catalog and the default selection.
func WithThemes(themes *render.ThemeSet, name, variant string) Option {
	return func(s *Server) {
		if themes != nil {
			s.themes = themes
		}
		s.themeName, s.themeVariant = name, variant
	}
}

// WithLocale sets the locale used when the request names none.
func WithLocale(locale string) Option {
	return func(s *Server) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithTranslator overrides the built-in UI string catalogs.
func WithTranslator(translator render.Translator) Option {
	return func(s *Server) {
		s.translator = translator
	}
}

// WithMaxSessions caps live sessions. The least recently used session is
// evicted when the cap is reached.
func WithMaxSessions(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithLivePreview sets the initial live preview state of new sessions.
func WithLivePreview(enabled bool) Option {
	return func(s *Server) {
		s.livePreview = enabled
	}
}

// WithPageAddress is used to resolve relative base URLs when the request
// address cannot be determined.
func WithPageAddress(address string) Option {
	return func(s *Server) {
		if address != "" {
			s.pageAddress = address
		}
	}
}

// WithRequestTimeout bounds API handlers. The event stream is exempt.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.requestTimeout = timeout
		}
	}
}
