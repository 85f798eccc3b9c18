package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-urlform/pkg/schema"
)

// FixturePath resolves a file under pkg/testsupport/testdata regardless of
// the calling package's working directory.
func FixturePath(name string) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return filepath.Join("testdata", name)
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

// MustLoadSchema parses a fixture schema, failing the test on error.
func MustLoadSchema(t *testing.T, name string) *schema.Schema {
	t.Helper()

	path := FixturePath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read schema fixture: %v", err)
	}
	parsed, err := schema.Parse(schema.MustNewDocument(schema.SourceFromFile(path), data))
	if err != nil {
		t.Fatalf("parse schema fixture: %v", err)
	}
	return parsed
}

// MustSchema builds a single-section schema from fields, failing the test on
// validation errors.
func MustSchema(t *testing.T, base string, fields ...schema.Field) *schema.Schema {
	t.Helper()

	parsed, err := schema.New(
		schema.AppInfo{Title: "Test"},
		schema.BaseConfig{Default: base},
		[]schema.Section{{Title: "Fields", Fields: fields}},
	)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return parsed
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
