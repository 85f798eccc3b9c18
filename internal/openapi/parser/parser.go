package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-urlform/pkg/openapi"
	"github.com/goliatone/go-urlform/pkg/schema"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) *Parser {
	return &Parser{options: options}
}

// Operations converts a document into operations keyed by operationId.
// Operations without an id are keyed as "method:path".
func (p *Parser) Operations(ctx context.Context, doc schema.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	rootServers := serverURLs(spec.Servers)
	operations := make(map[string]pkgopenapi.Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, method := range []string{
			http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete,
			http.MethodPatch, http.MethodHead, http.MethodOptions, http.MethodTrace,
		} {
			operation := item.GetOperation(method)
			if operation == nil {
				continue
			}
			op, err := convertOperation(method, path, item, operation, rootServers)
			if err != nil {
				continue
			}
			operations[op.ID] = op
		}
	}
	if len(operations) == 0 {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return operations, nil
}

func convertOperation(method, path string, item *openapi3.PathItem, operation *openapi3.Operation, rootServers []string) (pkgopenapi.Operation, error) {
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	op, err := pkgopenapi.NewOperation(id, method, path)
	if err != nil {
		return pkgopenapi.Operation{}, err
	}
	op.Summary = operation.Summary
	op.Description = operation.Description

	switch {
	case operation.Servers != nil && len(*operation.Servers) > 0:
		op.Servers = serverURLs(*operation.Servers)
	case len(item.Servers) > 0:
		op.Servers = serverURLs(item.Servers)
	default:
		op.Servers = rootServers
	}

	op.Parameters = mergeParameters(item.Parameters, operation.Parameters)
	return op, nil
}

// mergeParameters applies operation parameters over path-level ones,
// matching on name and location.
func mergeParameters(pathLevel, opLevel openapi3.Parameters) []pkgopenapi.Parameter {
	out := make([]pkgopenapi.Parameter, 0, len(pathLevel)+len(opLevel))
	index := make(map[string]int)
	add := func(refs openapi3.Parameters) {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				continue
			}
			param := convertParameter(ref.Value)
			key := param.In + "\x00" + param.Name
			if at, ok := index[key]; ok {
				out[at] = param
				continue
			}
			index[key] = len(out)
			out = append(out, param)
		}
	}
	add(pathLevel)
	add(opLevel)
	return out
}

func convertParameter(src *openapi3.Parameter) pkgopenapi.Parameter {
	param := pkgopenapi.Parameter{
		Name:        src.Name,
		In:          src.In,
		Description: src.Description,
		Required:    src.Required,
		Example:     src.Example,
	}
	if src.Schema != nil && src.Schema.Value != nil {
		param.Schema = convertSchema(src.Schema.Value)
	}
	if param.Schema.Description == "" {
		param.Schema.Description = src.Description
	}
	return param
}

func convertSchema(src *openapi3.Schema) pkgopenapi.Schema {
	out := pkgopenapi.Schema{
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if src.Min != nil {
		value := *src.Min
		out.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		out.Maximum = &value
	}
	if src.MultipleOf != nil {
		value := *src.MultipleOf
		out.MultipleOf = &value
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

// serverURLs expands server variables to their defaults.
func serverURLs(servers openapi3.Servers) []string {
	out := make([]string, 0, len(servers))
	for _, server := range servers {
		if server == nil || strings.TrimSpace(server.URL) == "" {
			continue
		}
		url := server.URL
		for name, variable := range server.Variables {
			if variable == nil {
				continue
			}
			url = strings.ReplaceAll(url, "{"+name+"}", variable.Default)
		}
		out = append(out, url)
	}
	return out
}
