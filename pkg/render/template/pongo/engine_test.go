package pongo_test

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-urlform/pkg/render/template/pongo"
	"github.com/goliatone/go-urlform/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.html":      {Data: []byte("Hello {{ name }}!")},
		"use-global.html": {Data: []byte("env={{ settings.env }}")},
		"escape.html":     {Data: []byte("{{ raw }}|{{ raw|safe }}")},
		"call.html":       {Data: []byte(`{{ t("greeting", name) }}`)},
		"json.html":       {Data: []byte(`{{ payload|tojson }}`)},
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateWritesToOutputs(t *testing.T) {
	engine := newEngine(t)
	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada!" || written != result {
		t.Fatalf("unexpected output %q / %q", result, written)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))
	got, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_AutoescapesUnlessSafe(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderTemplate("escape", map[string]any{"raw": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "&lt;b&gt;x&lt;/b&gt;|<b>x</b>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_FuncsAreCallable(t *testing.T) {
	engine := newEngine(t, pongo.WithFuncs(map[string]any{
		"t": func(key string, args ...any) string {
			return fmt.Sprintf("%s:%v", key, args)
		},
	}))
	got, err := engine.RenderTemplate("call", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "greeting:[Ada]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_StructDataUsesJSONNames(t *testing.T) {
	engine := newEngine(t)
	payload := struct {
		URL string `json:"url"`
	}{URL: "https://x.test/?a=1&b=<2>"}
	got, err := engine.RenderTemplate("json", map[string]any{"payload": payload})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, `"url":"https://x.test/?a=1\u0026b=\u003c2\u003e"`) {
		t.Fatalf("unexpected json output %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("urlform_shout", func(input any, _ any) (any, error) {
		return strings.ToUpper(fmt.Sprint(input)) + "!", nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	got, err := engine.RenderString("{{ name|urlform_shout }}", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "ADA!" {
		t.Fatalf("unexpected output %q", got)
	}
	if err := engine.RegisterFilter("urlform_shout", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}
