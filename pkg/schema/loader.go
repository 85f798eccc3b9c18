package schema

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches schema documents from the filesystem, an fs.FS, or HTTP.
// The implementation lives under internal/schema/loader.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures how a Loader resolves sources. HTTP stays off
// unless a client is injected or the fallback is enabled.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS lookups.
	FileSystem fs.FS

	// HTTPClient enables URL sources with caller-controlled transport.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources with a default client.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS for SourceKindFS documents.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// WithHTTPClient injects a custom HTTP client for remote documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables HTTP loading with a default client and timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// NewLoaderOptions applies options over the zero configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// LoadError reports that a schema could not be fetched, decoded, or
// validated. The session cannot start without a schema, so callers treat it
// as fatal.
type LoadError struct {
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	if e.Location == "" {
		return "schema load: " + e.Err.Error()
	}
	return "schema load " + e.Location + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err carries a LoadError.
func IsLoadError(err error) bool {
	var target *LoadError
	return errors.As(err, &target)
}

// Load fetches and parses the schema at src. Any failure is wrapped in a
// *LoadError.
func Load(ctx context.Context, loader Loader, src Source) (*Schema, error) {
	location := ""
	if src != nil {
		location = src.Location()
	}
	if loader == nil {
		return nil, &LoadError{Location: location, Err: errors.New("schema: loader is nil")}
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, &LoadError{Location: location, Err: err}
	}
	parsed, err := Parse(doc)
	if err != nil {
		return nil, &LoadError{Location: location, Err: err}
	}
	return parsed, nil
}
