package openapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-urlform/pkg/schema"
)

// SectionTitle names the single section an imported operation produces.
const SectionTitle = "Parameters"

// ErrNoQueryParameters is returned when the operation has nothing to map.
var ErrNoQueryParameters = errors.New("openapi: operation has no query parameters")

// BuildSchema maps op's query parameters onto a schema.
func BuildSchema(op Operation) (*schema.Schema, error) {
	params := op.QueryParameters()
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQueryParameters, op.ID)
	}

	fields := make([]schema.Field, 0, len(params))
	for _, param := range params {
		fields = append(fields, FieldFor(param))
	}

	app := schema.AppInfo{Title: op.Summary, Subtitle: op.Description}
	if strings.TrimSpace(app.Title) == "" {
		app.Title = op.ID
	}
	base := schema.BaseConfig{Default: BaseURL(op)}
	if base.Default != "" {
		base.Placeholder = base.Default
	}

	sch, err := schema.New(app, base, []schema.Section{{
		Title:  SectionTitle,
		Fields: fields,
	}})
	if err != nil {
		return nil, fmt.Errorf("openapi: build %s: %w", op.ID, err)
	}
	return sch, nil
}

// BaseURL joins the first server with the operation path.
func BaseURL(op Operation) string {
	server := ""
	if len(op.Servers) > 0 {
		server = strings.TrimRight(op.Servers[0], "/")
	}
	if server == "" && op.Path == "" {
		return ""
	}
	return server + op.Path
}

// FieldFor maps one parameter onto a field. Booleans become switches,
// bounded numbers become ranges and color-formatted strings become color
// fields. Everything else is text or number.
func FieldFor(param Parameter) schema.Field {
	s := param.Schema
	field := schema.Field{
		ID:    param.Name,
		Param: param.Name,
		Label: s.Title,
		Type:  schema.FieldText,
	}
	if strings.TrimSpace(field.Label) == "" {
		field.Label = param.Name
	}

	switch s.Type {
	case "boolean":
		field.Type = schema.FieldSwitch
	case "integer", "number":
		field.Type = schema.FieldNumber
		field.Min, field.Max = s.Minimum, s.Maximum
		if s.Minimum != nil && s.Maximum != nil {
			field.Type = schema.FieldRange
			step := 1.0
			if s.MultipleOf != nil && *s.MultipleOf > 0 {
				step = *s.MultipleOf
			}
			field.Step = &step
		} else if s.MultipleOf != nil && *s.MultipleOf > 0 {
			step := *s.MultipleOf
			field.Step = &step
		}
	case "string":
		if strings.EqualFold(s.Format, "color") {
			field.Type = schema.FieldColor
		}
	}

	if s.Default != nil {
		if value, err := schema.ValueFor(field.Type, s.Default); err == nil {
			field.Default = value
		}
	}
	if field.Type == schema.FieldText || field.Type == schema.FieldNumber {
		field.Placeholder = placeholder(param)
	}
	return field
}

func placeholder(param Parameter) string {
	if param.Example != nil {
		return fmt.Sprint(param.Example)
	}
	if len(param.Schema.Enum) > 0 {
		options := make([]string, 0, len(param.Schema.Enum))
		for _, option := range param.Schema.Enum {
			options = append(options, fmt.Sprint(option))
		}
		return strings.Join(options, " | ")
	}
	return ""
}
