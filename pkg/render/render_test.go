package render_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/render"
	"github.com/goliatone/go-urlform/pkg/testsupport"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, render.Page, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry_LookupFallsBackToFirst(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("web"))
	registry.MustRegister(namedRenderer("JSON"))

	if err := registry.Register(namedRenderer("json")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if diff := cmp.Diff([]string{"json", "web"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	got, err := registry.Lookup("")
	if err != nil || got.Name() != "web" {
		t.Fatalf("expected web fallback, got %v %v", got, err)
	}
	if err := registry.SetFallback("json"); err != nil {
		t.Fatalf("set fallback: %v", err)
	}
	got, _ = registry.Lookup(" ")
	if got.Name() != "JSON" {
		t.Fatalf("expected json fallback, got %s", got.Name())
	}
	if _, err := registry.Lookup("pdf"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}

func TestSanitizeHTML(t *testing.T) {
	got := render.SanitizeHTML(`Build the <strong>URL</strong><script>alert(1)</script> <a href="javascript:x">x</a>`)
	if strings.Contains(got, "script") || strings.Contains(got, "javascript") {
		t.Fatalf("unsafe markup survived: %q", got)
	}
	if !strings.Contains(got, "<strong>URL</strong>") {
		t.Fatalf("inline markup dropped: %q", got)
	}
	if got := render.StripHTML("Fish &amp; <em>chips</em>"); got != "Fish & chips" {
		t.Fatalf("unexpected stripped text %q", got)
	}
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		locale, key string
		args        []any
		want        string
	}{
		{"", "status.ready", nil, "Ready"},
		{"es", "status.missing_base", nil, "Falta URL base"},
		{"es-AR", "params.count", []any{3}, "3 parametros"},
		{"fr", "action.copy", nil, "Copy"},
		{"en", "unknown.key", nil, "unknown.key"},
	}
	for _, tc := range cases {
		if got := render.Translate(nil, tc.locale, tc.key, tc.args...); got != tc.want {
			t.Fatalf("translate %s/%s: want %q got %q", tc.locale, tc.key, tc.want, got)
		}
	}

	custom := render.Catalog{"en": {"action.copy": "Copy link"}}
	if got := render.Translate(custom, "en", "action.copy"); got != "Copy link" {
		t.Fatalf("custom catalog ignored: %q", got)
	}
	if got := render.Translate(custom, "en", "action.open"); got != "Open" {
		t.Fatalf("expected default catalog fallback, got %q", got)
	}
}

func TestThemeSet_SelectAndConfig(t *testing.T) {
	set := render.NewThemeSet()
	if err := set.Register(&theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"accent": "#123456"},
		Assets: theme.Assets{Prefix: "/assets/themes/acme", Files: map[string]string{"stylesheet": "acme.css"}},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"accent": "#654321"}},
		},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	selection, err := set.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := render.RendererConfig(selection)
	if cfg.CSSVars["--accent"] != "#654321" {
		t.Fatalf("variant token not applied: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/acme.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if _, err := set.Select("acme", "sepia"); err == nil {
		t.Fatalf("expected unknown variant error")
	}

	if err := set.SetDefault("urlform", "dark"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	selection, err = set.Select("", "")
	if err != nil || selection.Theme != "urlform" || selection.Variant != "dark" {
		t.Fatalf("unexpected default selection %+v %v", selection, err)
	}
	if style := render.CSSVarsStyle(map[string]string{"--b": "2", "--a": "1"}); style != "--a: 1; --b: 2;" {
		t.Fatalf("unexpected style %q", style)
	}
}

func TestNewPage_GroupsFieldViewsBySection(t *testing.T) {
	sch := testsupport.MustLoadSchema(t, "widget.json")
	ctrl, err := controller.New(sch)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	page := render.NewPage(sch, ctrl.Frame(), "sid-1")

	var got [][]string
	for _, section := range page.Sections {
		var ids []string
		for _, view := range section.Fields {
			ids = append(ids, view.ID)
		}
		got = append(got, ids)
	}
	want := [][]string{{"title", "limit"}, {"dark", "accent", "radius"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("section layout mismatch (-want +got):\n%s", diff)
	}
	if page.Title != "Widget configurator" || page.SessionID != "sid-1" {
		t.Fatalf("unexpected page chrome: %+v", page)
	}
}
