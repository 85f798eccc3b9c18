// Package urlform is the top-level entry point: load a form schema, drive it
// with a controller, or compile a URL in one call.
package urlform

import (
	"context"
	"fmt"

	internalParser "github.com/goliatone/go-urlform/internal/openapi/parser"
	internalLoader "github.com/goliatone/go-urlform/internal/schema/loader"
	"github.com/goliatone/go-urlform/pkg/compiler"
	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/openapi"
	"github.com/goliatone/go-urlform/pkg/schema"
	"github.com/goliatone/go-urlform/pkg/state"
)

// Result aliases compiler.Result for callers that only use the facade.
type Result = compiler.Result

// NewLoader constructs a schema loader while keeping the concrete type
// hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return internalLoader.New(schema.NewLoaderOptions(options...))
}

// NewParser constructs an OpenAPI parser backed by kin-openapi.
func NewParser(options ...openapi.ParserOption) openapi.Parser {
	return internalParser.New(openapi.NewParserOptions(options...))
}

// NewImporter wires the default loader and parser into an OpenAPI importer.
func NewImporter(options ...schema.LoaderOption) *openapi.Importer {
	return openapi.NewImporter(NewLoader(options...), NewParser())
}

// LoadSchema reads the schema document at location, a file path or an
// http(s) URL. URL sources need WithHTTPFallback or WithHTTPClient.
func LoadSchema(ctx context.Context, location string, options ...schema.LoaderOption) (*schema.Schema, error) {
	src, err := schema.ParseSource(location)
	if err != nil {
		return nil, &schema.LoadError{Location: location, Err: err}
	}
	return schema.Load(ctx, NewLoader(options...), src)
}

// ImportOpenAPI derives a schema from the query parameters of one
// operation in the OpenAPI document at location.
func ImportOpenAPI(ctx context.Context, location, operationID string, options ...schema.LoaderOption) (*schema.Schema, error) {
	src, err := schema.ParseSource(location)
	if err != nil {
		return nil, &schema.LoadError{Location: location, Err: err}
	}
	return NewImporter(options...).Import(ctx, src, operationID)
}

// NewController starts a controller over sch with defaults applied.
func NewController(sch *schema.Schema, options ...controller.Option) (*controller.Controller, error) {
	return controller.New(sch, options...)
}

// Compile builds the URL for sch from its defaults, with overrides keyed by
// field id and given as raw control text. A blank base falls back to the
// schema default.
func Compile(sch *schema.Schema, base string, overrides map[string]string, options ...compiler.Option) (Result, error) {
	if sch == nil {
		return Result{}, controller.ErrNoSchema
	}
	values, err := state.FromOverrides(sch, overrides, nil)
	if err != nil {
		return Result{}, fmt.Errorf("urlform: %w", err)
	}
	if base == "" {
		base = sch.Base.Default
	}
	return compiler.Compile(base, sch, values, options...), nil
}
