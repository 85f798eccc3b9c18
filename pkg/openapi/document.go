package openapi

import (
	"errors"
	"fmt"
)

// Operation is the subset of an OpenAPI operation needed to build a form.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string

	// Servers lists candidate base URLs, most specific first.
	Servers    []string
	Parameters []Parameter
}

// NewOperation validates the identifying fields.
func NewOperation(id, method, path string) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}
	return Operation{ID: id, Method: method, Path: path}, nil
}

// QueryParameters returns the parameters located in the query string, in
// declaration order.
func (op Operation) QueryParameters() []Parameter {
	out := make([]Parameter, 0, len(op.Parameters))
	for _, param := range op.Parameters {
		if param.In == LocationQuery {
			out = append(out, param)
		}
	}
	return out
}

// Parameter locations.
const (
	LocationQuery  = "query"
	LocationPath   = "path"
	LocationHeader = "header"
	LocationCookie = "cookie"
)

// Parameter is one operation parameter.
type Parameter struct {
	Name        string
	In          string
	Description string
	Required    bool
	Example     any
	Schema      Schema
}

// Schema keeps the scalar constraints the form mapping reads.
type Schema struct {
	Type        string
	Format      string
	Title       string
	Description string
	Default     any
	Enum        []any
	Minimum     *float64
	Maximum     *float64
	MultipleOf  *float64
}

// DebugString summarises the schema for log output.
func (s Schema) DebugString() string {
	summary := fmt.Sprintf("type=%s", s.Type)
	if s.Format != "" {
		summary += ",format=" + s.Format
	}
	if s.Minimum != nil {
		summary += fmt.Sprintf(",min=%v", *s.Minimum)
	}
	if s.Maximum != nil {
		summary += fmt.Sprintf(",max=%v", *s.Maximum)
	}
	if len(s.Enum) > 0 {
		summary += fmt.Sprintf(",enum=%d", len(s.Enum))
	}
	return summary
}
