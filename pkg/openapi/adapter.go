package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-urlform/pkg/schema"
)

// ErrUnknownOperation is returned when the requested operationId is absent.
var ErrUnknownOperation = errors.New("openapi: unknown operation")

// Importer loads an OpenAPI document through a schema.Loader and builds a
// schema from one of its operations.
type Importer struct {
	loader schema.Loader
	parser Parser
}

// NewImporter wires a loader and a parser.
func NewImporter(loader schema.Loader, parser Parser) *Importer {
	return &Importer{loader: loader, parser: parser}
}

// Operations lists the operation ids in src, sorted.
func (i *Importer) Operations(ctx context.Context, src schema.Source) ([]string, error) {
	ops, err := i.operations(ctx, src)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Import builds the schema for operationID. Failures are wrapped in a
// *schema.LoadError so callers treat them like any other schema source.
func (i *Importer) Import(ctx context.Context, src schema.Source, operationID string) (*schema.Schema, error) {
	location := ""
	if src != nil {
		location = src.Location()
	}
	ops, err := i.operations(ctx, src)
	if err != nil {
		return nil, &schema.LoadError{Location: location, Err: err}
	}
	op, ok := ops[operationID]
	if !ok {
		return nil, &schema.LoadError{Location: location, Err: fmt.Errorf("%w %q", ErrUnknownOperation, operationID)}
	}
	sch, err := BuildSchema(op)
	if err != nil {
		return nil, &schema.LoadError{Location: location, Err: err}
	}
	return sch, nil
}

func (i *Importer) operations(ctx context.Context, src schema.Source) (map[string]Operation, error) {
	if i == nil || i.loader == nil {
		return nil, errors.New("openapi importer: loader is nil")
	}
	if i.parser == nil {
		return nil, errors.New("openapi importer: parser is nil")
	}
	doc, err := i.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return i.parser.Operations(ctx, doc)
}
