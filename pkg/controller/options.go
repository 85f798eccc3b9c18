package controller

import (
	"log/slog"

	"github.com/goliatone/go-urlform/internal/logging"
)

// Surface receives every frame. Apply runs while the controller holds its
// lock, so implementations must not call back into the controller.
type Surface interface {
	Apply(Frame)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Frame)

// Apply calls f.
func (f SurfaceFunc) Apply(frame Frame) { f(frame) }

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	Copy(text string) error
}

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// Option customizes a Controller.
type Option func(*Controller)

// WithSurface sets the display surface.
func WithSurface(surface Surface) Option {
	return func(c *Controller) {
		c.surface = surface
	}
}

// WithPageAddress sets the address relative base URLs resolve against.
func WithPageAddress(address string) Option {
	return func(c *Controller) {
		c.pageAddress = address
	}
}

// WithLivePreview sets the initial state of the live preview toggle.
func WithLivePreview(enabled bool) Option {
	return func(c *Controller) {
		c.live = enabled
	}
}

// WithBaseURL overrides the schema's default base URL.
func WithBaseURL(base string) Option {
	return func(c *Controller) {
		c.base = base
		c.baseSet = true
	}
}

// WithLogger sets the logger. Nil keeps the discarding default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logging.OrDiscard(logger)
	}
}

// WithClipboard sets the copy action.
func WithClipboard(clipboard Clipboard) Option {
	return func(c *Controller) {
		c.clipboard = clipboard
	}
}

// WithOpener sets the open action.
func WithOpener(opener Opener) Option {
	return func(c *Controller) {
		c.opener = opener
	}
}
