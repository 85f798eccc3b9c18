package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-urlform/internal/schema/loader"
	"github.com/goliatone/go-urlform/pkg/schema"
)

const minimalDoc = `{"sections":[{"title":"S","fields":[{"id":"a","type":"text","param":"a","default":"x"}]}]}`

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(minimalDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := loader.New(schema.NewLoaderOptions())
	doc, err := l.Load(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != minimalDoc {
		t.Fatalf("unexpected payload: %s", doc.Raw())
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{"config/config.json": {Data: []byte(minimalDoc)}}
	l := loader.New(schema.NewLoaderOptions(schema.WithFileSystem(files)))

	parsed, err := schema.Load(context.Background(), l, schema.SourceFromFS("config/config.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ids := parsed.FieldIDs(); len(ids) != 1 || ids[0] != "a" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/config.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(minimalDoc))
	}))
	defer srv.Close()

	l := loader.New(schema.NewLoaderOptions(schema.WithHTTPClient(srv.Client())))
	if _, err := l.Load(context.Background(), schema.SourceFromURL(srv.URL+"/config.json")); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err := l.Load(context.Background(), schema.SourceFromURL(srv.URL+"/missing.json"))
	if err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoader_HTTPDisabledByDefault(t *testing.T) {
	l := loader.New(schema.NewLoaderOptions())
	_, err := l.Load(context.Background(), schema.SourceFromURL("https://example.test/config.json"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := loader.New(schema.NewLoaderOptions())
	if _, err := l.Load(ctx, schema.SourceFromFile("whatever.json")); err == nil {
		t.Fatalf("expected context error")
	}
}
