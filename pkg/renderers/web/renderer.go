// Package web renders the interactive HTML page: the form controls, the
// compiled URL outputs and the preview frame. The embedded script drives the
// session API; copy and open happen in the browser.
package web

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/goliatone/go-urlform/pkg/codec"
	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/render"
	rendertemplate "github.com/goliatone/go-urlform/pkg/render/template"
	"github.com/goliatone/go-urlform/pkg/render/template/pongo"
	"github.com/goliatone/go-urlform/pkg/renderers/jsonframe"
	"github.com/goliatone/go-urlform/pkg/schema"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	apiPrefix        string
	eventsPath       string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		if dir == "" {
			return
		}
		cfg.templateFS = os.DirFS(dir)
	}
}

// WithTemplateRenderer injects a template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAPIPrefix sets where session endpoints live (default /api/sessions).
func WithAPIPrefix(prefix string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimRight(strings.TrimSpace(prefix), "/"); trimmed != "" {
			cfg.apiPrefix = trimmed
		}
	}
}

// WithEventsPath sets the schema reload stream endpoint (default /events).
func WithEventsPath(p string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cfg.eventsPath = trimmed
		}
	}
}

// Renderer produces the full HTML page.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	apiPrefix  string
	eventsPath string
}

// New constructs the renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		apiPrefix:  "/api/sessions",
		eventsPath: "/events",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithName("urlform-web"),
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("web renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer, apiPrefix: cfg.apiPrefix, eventsPath: cfg.eventsPath}, nil
}

func (r *Renderer) Name() string {
	return "web"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("web renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate("page", r.view(page, opts))
	if err != nil {
		return nil, fmt.Errorf("web renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) view(page render.Page, opts render.RenderOptions) map[string]any {
	payload := jsonframe.NewPayload(page, opts)
	frame := page.Frame

	sections := make([]any, 0, len(page.Sections))
	for _, section := range page.Sections {
		fields := make([]any, 0, len(section.Fields))
		for _, view := range section.Fields {
			fields = append(fields, fieldView(view, opts))
		}
		sections = append(sections, map[string]any{
			"title":       section.Title,
			"description": section.Description,
			"fields":      fields,
		})
	}

	locale := opts.Locale
	if locale == "" {
		locale = render.DefaultLocale
	}
	strs := uiStrings(opts)

	return map[string]any{
		"locale": locale,
		"api":    path.Join(r.apiPrefix, page.SessionID),
		"events": r.eventsPath,
		"page": map[string]any{
			"title":           page.Title,
			"subtitle":        page.Subtitle,
			"basePlaceholder": page.BasePlaceholder,
			"sessionId":       page.SessionID,
			"events":          page.Events,
		},
		"frame": map[string]any{
			"baseUrl":     frame.BaseURL,
			"url":         frame.Result.URL,
			"status":      frame.Result.Status.String(),
			"statusText":  payload.StatusText,
			"countText":   payload.CountText,
			"previewUrl":  frame.PreviewURL,
			"livePreview": frame.LivePreview,
		},
		"sections":    sections,
		"strings":     strs,
		"stringsJSON": strs,
		"theme":       themeView(opts),
		"assets": map[string]any{
			"stylesheet": assetURL(opts, "stylesheet", StylesheetName),
			"script":     assetURL(opts, "script", ScriptName),
		},
	}
}

func fieldView(view controller.FieldView, opts render.RenderOptions) map[string]any {
	display := view.Display
	if view.Type == schema.FieldSwitch {
		if view.Value.Flag() {
			display = opts.T("switch.on")
		} else {
			display = opts.T("switch.off")
		}
	}
	return map[string]any{
		"id":          view.ID,
		"type":        string(view.Type),
		"param":       view.Param,
		"label":       view.Label,
		"value":       view.Encoded,
		"display":     display,
		"checked":     view.Type == schema.FieldSwitch && view.Value.Flag(),
		"min":         optionalNumber(view.Min),
		"max":         optionalNumber(view.Max),
		"step":        codec.FormatNumber(view.Step),
		"suffix":      view.Suffix,
		"placeholder": view.Placeholder,
	}
}

func optionalNumber(n *float64) string {
	if n == nil {
		return ""
	}
	return codec.FormatNumber(*n)
}

func uiStrings(opts render.RenderOptions) map[string]any {
	out := make(map[string]any)
	for key, msg := range render.DefaultCatalog[render.DefaultLocale] {
		if strings.Contains(msg, "%") {
			continue
		}
		out[strings.ReplaceAll(key, ".", "_")] = opts.T(key)
	}
	return out
}

func themeView(opts render.RenderOptions) map[string]any {
	if opts.Theme == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    opts.Theme.Theme,
		"variant": opts.Theme.Variant,
		"style":   render.CSSVarsStyle(opts.Theme.CSSVars),
	}
}

func assetURL(opts render.RenderOptions, key, file string) string {
	if opts.Theme != nil && opts.Theme.AssetURL != nil {
		if url := opts.Theme.AssetURL(key); url != "" {
			return url
		}
	}
	prefix := opts.AssetPrefix
	if prefix == "" {
		prefix = "/assets"
	}
	return path.Join(prefix, file)
}
