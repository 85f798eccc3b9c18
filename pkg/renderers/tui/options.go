package tui

import (
	"io"

	"github.com/goliatone/go-urlform/pkg/render"
)

// Option configures the editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithOutput sets where frames are printed.
func WithOutput(out io.Writer) Option {
	return func(e *Editor) {
		if out != nil {
			e.out = out
		}
	}
}

// WithStyles sets the terminal palette.
func WithStyles(styles Styles) Option {
	return func(e *Editor) {
		e.text = NewTextRenderer(styles)
	}
}

// WithRenderOptions sets locale and translator for UI strings.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(e *Editor) {
		e.opts = opts
	}
}
