package urlform_test

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-urlform"
	"github.com/goliatone/go-urlform/pkg/codec"
	"github.com/goliatone/go-urlform/pkg/schema"
	"github.com/goliatone/go-urlform/pkg/state"
	"github.com/goliatone/go-urlform/pkg/testsupport"
)

func TestLoadSchema_JSONAndYAML(t *testing.T) {
	ctx := context.Background()
	fromJSON, err := urlform.LoadSchema(ctx, testsupport.FixturePath("widget.json"))
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	fromYAML, err := urlform.LoadSchema(ctx, testsupport.FixturePath("widget.yaml"))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if diff := cmp.Diff([]string{"title", "limit", "dark", "accent", "radius"}, fromJSON.FieldIDs()); diff != "" {
		t.Fatalf("json field ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title", "limit", "dark", "radius"}, fromYAML.FieldIDs()); diff != "" {
		t.Fatalf("yaml field ids mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSchema_MissingFile(t *testing.T) {
	_, err := urlform.LoadSchema(context.Background(), "testdata/does-not-exist.json")
	if !schema.IsLoadError(err) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	_, err = urlform.LoadSchema(context.Background(), "  ")
	if !schema.IsLoadError(err) {
		t.Fatalf("expected LoadError for blank location, got %v", err)
	}
}

func TestCompile(t *testing.T) {
	sch := testsupport.MustLoadSchema(t, "widget.json")

	got, err := urlform.Compile(sch, "", map[string]string{"dark": "yes", "radius": "31"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	want := "https://widgets.example.test/embed?t=Hello+world&limit=5&theme=true&accent=%23ff8800&r=32"
	if got.URL != want {
		t.Fatalf("url mismatch\nwant %s\ngot  %s", want, got.URL)
	}

	got, err = urlform.Compile(sch, "https://other.test/x?t=keep&z=1", nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got.URL != "https://other.test/x?t=Hello+world&z=1&limit=5&theme=false&accent=%23ff8800&r=8" {
		t.Fatalf("base override mismatch: %s", got.URL)
	}

	if _, err := urlform.Compile(sch, "", map[string]string{"limit": "many"}); !errors.Is(err, codec.ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
	if _, err := urlform.Compile(sch, "", map[string]string{"nope": "1"}); !errors.Is(err, state.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestImportOpenAPI(t *testing.T) {
	sch, err := urlform.ImportOpenAPI(context.Background(), testsupport.FixturePath("widgets.openapi.yaml"), "getEmbed")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	res, err := urlform.Compile(sch, "", nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.HasPrefix(res.URL, "https://eu.widgets.example.test/v1/embed?") {
		t.Fatalf("unexpected url %s", res.URL)
	}
}

func TestNewController(t *testing.T) {
	ctrl, err := urlform.NewController(testsupport.MustLoadSchema(t, "widget.json"))
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	if ctrl.Result().ParamCount != 5 {
		t.Fatalf("unexpected param count %d", ctrl.Result().ParamCount)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.ReadFile(urlform.EmbeddedTemplates(), "page.html"); err != nil {
		t.Fatalf("expected page template: %v", err)
	}
	data, err := fs.ReadFile(urlform.AssetsFS(), "app.js")
	if err != nil {
		t.Fatalf("expected app script: %v", err)
	}
	if !strings.Contains(string(data), "EventSource") {
		t.Fatalf("expected the script to subscribe to schema reloads")
	}
}
