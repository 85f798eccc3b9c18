// Package jsonframe renders a page as the JSON payload the HTTP API and the
// browser script exchange.
package jsonframe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/render"
)

// Payload is the wire shape of one frame.
type Payload struct {
	SessionID  string           `json:"sessionId,omitempty"`
	Frame      controller.Frame `json:"frame"`
	StatusText string           `json:"statusText"`
	CountText  string           `json:"countText"`
}

// NewPayload localizes the frame's status and count.
func NewPayload(page render.Page, opts render.RenderOptions) Payload {
	return Payload{
		SessionID:  page.SessionID,
		Frame:      page.Frame,
		StatusText: opts.StatusText(page.Frame),
		CountText:  opts.CountText(page.Frame),
	}
}

// Renderer writes Payload as JSON.
type Renderer struct {
	indent bool
}

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty-prints the output.
func WithIndent(indent bool) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(_ context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	payload := NewPayload(page, opts)
	var (
		out []byte
		err error
	)
	if r.indent {
		out, err = json.MarshalIndent(payload, "", "  ")
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonframe renderer: encode: %w", err)
	}
	return out, nil
}
