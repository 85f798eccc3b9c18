package render

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// manifestRegistry is the registration side of a go-theme provider.
type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

// ThemeSet selects page themes from registered go-theme manifests.
type ThemeSet struct {
	mu             sync.RWMutex
	registry       manifestRegistry
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ThemeSet)(nil)

// NewThemeSet returns a set holding DefaultTheme.
func NewThemeSet() *ThemeSet {
	set := &ThemeSet{
		registry:     theme.NewRegistry(),
		manifests:    make(map[string]*theme.Manifest),
		defaultTheme: DefaultTheme().Name,
	}
	_ = set.Register(DefaultTheme())
	return set
}

// DefaultTheme is the built-in light theme with a dark variant.
func DefaultTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    "urlform",
		Version: "1.0.0",
		Tokens: map[string]string{
			"bg":     "#f6f7fb",
			"panel":  "#ffffff",
			"text":   "#1c2233",
			"muted":  "#6b7285",
			"accent": "#3b5bdb",
			"border": "#dfe3ee",
			"ok":     "#2b8a3e",
			"warn":   "#e67700",
			"radius": "12px",
			"font":   "system-ui, -apple-system, Segoe UI, sans-serif",
			"mono":   "ui-monospace, SFMono-Regular, Menlo, monospace",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "app.css",
				"script":     "app.js",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"bg":     "#12151e",
					"panel":  "#1b2030",
					"text":   "#e7e9f0",
					"muted":  "#9aa1b5",
					"border": "#2c3347",
				},
			},
		},
	}
}

// Register adds a manifest. Names are unique.
func (s *ThemeSet) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("render: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("render: theme %q already registered", manifest.Name)
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
	}
	s.manifests[manifest.Name] = manifest
	return nil
}

// SetDefault picks the theme and variant used for blank selections.
func (s *ThemeSet) SetDefault(name, variant string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return fmt.Errorf("render: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	s.defaultTheme, s.defaultVariant = name, variant
	return nil
}

// Names lists the registered themes.
func (s *ThemeSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements theme.ThemeSelector. Blank arguments take the
// defaults; an unknown variant is an error.
func (s *ThemeSet) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(name) == "" {
		name = s.defaultTheme
		if variant == "" {
			variant = s.defaultVariant
		}
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig merges a selection's base and variant layers into the
// config templates consume. Tokens become --name CSS variables.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	tokens := mergeStrings(manifest.Tokens, nil)
	partials := mergeStrings(manifest.Templates, nil)
	files := mergeStrings(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

// CSSVarsStyle renders CSS variables as a sorted declaration list.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %s; ", key, vars[key])
	}
	return strings.TrimSpace(b.String())
}

func mergeStrings(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		out[key] = value
	}
	return out
}
