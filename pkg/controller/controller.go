// Package controller is the single orchestration point for the edit,
// compile and display cycle. Every mutating entry point funnels through one
// pipeline so the displayed URL always reflects the current state.
package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-urlform/internal/logging"
	"github.com/goliatone/go-urlform/pkg/codec"
	"github.com/goliatone/go-urlform/pkg/compiler"
	"github.com/goliatone/go-urlform/pkg/schema"
	"github.com/goliatone/go-urlform/pkg/state"
)

var (
	// ErrNoSchema is returned by New when no schema was loaded.
	ErrNoSchema = errors.New("controller: schema is required")
	// ErrNoAction is returned by Copy or Open when no action was configured.
	ErrNoAction = errors.New("controller: action not configured")
)

// Controller owns the state store and the most recent compile result. Its
// methods are safe for concurrent use; pipelines run one at a time.
type Controller struct {
	mu sync.Mutex

	schema *schema.Schema
	store  *state.Store

	base    string
	baseSet bool
	live    bool
	result  compiler.Result
	preview string

	pageAddress string
	surface     Surface
	clipboard   Clipboard
	opener      Opener
	logger      *slog.Logger
}

// New builds a controller and runs the startup pipeline: state from
// defaults, full render, compile, forced preview. Live preview starts
// enabled.
func New(sch *schema.Schema, opts ...Option) (*Controller, error) {
	if sch == nil {
		return nil, ErrNoSchema
	}
	c := &Controller{
		schema: sch,
		live:   true,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if !c.baseSet {
		c.base = sch.Base.Default
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = state.New(sch)
	c.run(OpStart, "", true, true)
	return c, nil
}

// EditField normalizes raw through the codec, stores it and reruns the
// pipeline. Rejected input leaves state untouched.
func (c *Controller) EditField(id, raw string) (Frame, error) {
	return c.edit(id, func(field schema.Field) (schema.Value, error) {
		return codec.Normalize(field, raw)
	})
}

// EditFieldValue is EditField for already-typed input such as decoded JSON.
func (c *Controller) EditFieldValue(id string, raw any) (Frame, error) {
	return c.edit(id, func(field schema.Field) (schema.Value, error) {
		return codec.Coerce(field, raw)
	})
}

func (c *Controller) edit(id string, normalize func(schema.Field) (schema.Value, error)) (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	field, ok := c.schema.Field(id)
	if !ok {
		err := fmt.Errorf("%w %q", state.ErrUnknownField, id)
		c.logger.Warn("edit rejected", "field", id, "error", err)
		return c.frame(OpField, id, false, false), err
	}
	value, err := normalize(field)
	if err != nil {
		c.logger.Warn("edit rejected", "field", id, "error", err)
		return c.frame(OpField, id, false, false), err
	}
	if err := c.store.Set(id, value); err != nil {
		c.logger.Warn("edit rejected", "field", id, "error", err)
		return c.frame(OpField, id, false, false), err
	}
	return c.run(OpField, id, false, false), nil
}

// EditBaseURL replaces the base URL text and reruns the pipeline.
func (c *Controller) EditBaseURL(text string) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = text
	return c.run(OpBase, "", false, false)
}

// Reset restores every field to its default, re-renders all controls and
// forces a preview refresh.
func (c *Controller) Reset() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Initialize(c.schema)
	return c.run(OpReset, "", true, true)
}

// RefreshPreview recompiles and refreshes the preview regardless of the
// live toggle.
func (c *Controller) RefreshPreview() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run(OpPreview, "", false, true)
}

// SetLivePreview flips the live preview gate without recompiling.
func (c *Controller) SetLivePreview(enabled bool) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = enabled
	frame := c.frame(OpLive, "", false, false)
	c.apply(frame)
	return frame
}

// Copy places the compiled URL on the clipboard. It reports false without
// error when there is no URL to copy.
func (c *Controller) Copy() (bool, error) {
	c.mu.Lock()
	url, clipboard := c.result.URL, c.clipboard
	c.mu.Unlock()

	if url == "" {
		return false, nil
	}
	if clipboard == nil {
		return false, ErrNoAction
	}
	if err := clipboard.Copy(url); err != nil {
		c.logger.Warn("copy failed", "error", err)
		return false, fmt.Errorf("controller: copy: %w", err)
	}
	return true, nil
}

// Open opens the compiled URL. It reports false without error when there
// is no URL to open.
func (c *Controller) Open() (bool, error) {
	c.mu.Lock()
	url, opener := c.result.URL, c.opener
	c.mu.Unlock()

	if url == "" {
		return false, nil
	}
	if opener == nil {
		return false, ErrNoAction
	}
	if err := opener.Open(url); err != nil {
		c.logger.Warn("open failed", "error", err)
		return false, fmt.Errorf("controller: open: %w", err)
	}
	return true, nil
}

// Frame returns the current display state with a full field list.
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame("", "", true, false)
}

// Schema returns the schema the controller was built with.
func (c *Controller) Schema() *schema.Schema {
	return c.schema
}

// Result returns the most recent compile result.
func (c *Controller) Result() compiler.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Snapshot returns a copy of the current state values.
func (c *Controller) Snapshot() map[string]schema.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Snapshot()
}

// run is the pipeline every mutation goes through: compile, gate and apply
// the preview, then hand the frame to the surface. Callers hold c.mu.
func (c *Controller) run(op Op, changed string, rerender, force bool) Frame {
	c.result = compiler.Compile(c.base, c.schema, c.store, compiler.WithPageAddress(c.pageAddress))

	updated := false
	if c.live || force {
		if target := compiler.PreviewURL(c.result); target != "" {
			c.preview = target
			updated = true
		}
	}

	frame := c.frame(op, changed, rerender, updated)
	c.logger.Debug("pipeline",
		"op", op,
		"field", changed,
		"status", c.result.Status.String(),
		"params", c.result.ParamCount,
		"preview", updated,
	)
	c.apply(frame)
	return frame
}

func (c *Controller) frame(op Op, changed string, rerender, previewUpdated bool) Frame {
	frame := Frame{
		Op:             op,
		Changed:        changed,
		Rerender:       rerender,
		Fields:         fieldViews(c.schema, c.store),
		BaseURL:        c.base,
		Result:         c.result,
		StatusLabel:    c.result.Status.Label(),
		PreviewURL:     c.preview,
		PreviewUpdated: previewUpdated,
		LivePreview:    c.live,
	}
	if c.result.Err != nil {
		frame.Error = c.result.Err.Error()
	}
	return frame
}

func (c *Controller) apply(frame Frame) {
	if c.surface != nil {
		c.surface.Apply(frame)
	}
}
