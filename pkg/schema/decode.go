package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	App      AppInfo       `json:"app" yaml:"app"`
	Base     BaseConfig    `json:"base" yaml:"base"`
	Sections []sectionFile `json:"sections" yaml:"sections"`
}

type sectionFile struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	ID          string   `json:"id" yaml:"id"`
	Type        string   `json:"type" yaml:"type"`
	Param       string   `json:"param" yaml:"param"`
	Label       string   `json:"label" yaml:"label"`
	Default     any      `json:"default" yaml:"default"`
	Min         *float64 `json:"min" yaml:"min"`
	Max         *float64 `json:"max" yaml:"max"`
	Step        *float64 `json:"step" yaml:"step"`
	Suffix      string   `json:"suffix" yaml:"suffix"`
	Placeholder string   `json:"placeholder" yaml:"placeholder"`
}

// Parse decodes a JSON or YAML schema document and validates it.
func Parse(doc Document) (*Schema, error) {
	return ParseBytes(doc.raw, doc.Location())
}

// ParseBytes decodes raw JSON or YAML. The location is only used in error
// messages.
func ParseBytes(raw []byte, location string) (*Schema, error) {
	file, err := decodeDocument(raw, location)
	if err != nil {
		return nil, err
	}

	sections := make([]Section, 0, len(file.Sections))
	for si, rawSection := range file.Sections {
		section := Section{
			Title:       rawSection.Title,
			Description: rawSection.Description,
			Fields:      make([]Field, 0, len(rawSection.Fields)),
		}
		for fi, rawField := range rawSection.Fields {
			fieldType := FieldType(strings.TrimSpace(rawField.Type))
			if !fieldType.Valid() {
				return nil, fmt.Errorf("schema: %s: sections[%d].fields[%d]: unknown type %q", location, si, fi, rawField.Type)
			}
			// An absent default stays invalid so New applies the per-type one.
			var def Value
			if rawField.Default != nil {
				if def, err = ValueFor(fieldType, rawField.Default); err != nil {
					return nil, fmt.Errorf("schema: %s: field %q: %w", location, rawField.ID, err)
				}
			}
			section.Fields = append(section.Fields, Field{
				ID:          strings.TrimSpace(rawField.ID),
				Type:        fieldType,
				Param:       rawField.Param,
				Label:       rawField.Label,
				Default:     def,
				Min:         rawField.Min,
				Max:         rawField.Max,
				Step:        rawField.Step,
				Suffix:      rawField.Suffix,
				Placeholder: rawField.Placeholder,
			})
		}
		sections = append(sections, section)
	}

	return New(file.App, file.Base, sections)
}

// New validates sections and returns an indexed, read-only Schema. Range
// fields without an explicit default start at their lower bound.
func New(app AppInfo, base BaseConfig, sections []Section) (*Schema, error) {
	s := &Schema{
		App:      app,
		Base:     base,
		Sections: make([]Section, 0, len(sections)),
		index:    make(map[string]int),
		flat:     make([]Field, 0),
	}

	for si, section := range sections {
		copied := Section{
			Title:       section.Title,
			Description: section.Description,
			Fields:      make([]Field, 0, len(section.Fields)),
		}
		for _, field := range section.Fields {
			if err := validateField(field); err != nil {
				return nil, fmt.Errorf("schema: sections[%d]: %w", si, err)
			}
			if _, exists := s.index[field.ID]; exists {
				return nil, fmt.Errorf("schema: duplicate field id %q", field.ID)
			}
			if !field.Default.IsValid() {
				field.Default = field.Type.Zero()
				if field.Type == FieldRange {
					lo, _ := field.Bounds()
					field.Default = Number(*lo)
				}
			}
			s.index[field.ID] = len(s.flat)
			s.flat = append(s.flat, field)
			copied.Fields = append(copied.Fields, field)
		}
		s.Sections = append(s.Sections, copied)
	}

	return s, nil
}

func validateField(field Field) error {
	if strings.TrimSpace(field.ID) == "" {
		return errors.New("field id is required")
	}
	if !field.Type.Valid() {
		return fmt.Errorf("field %q: unknown type %q", field.ID, field.Type)
	}
	if strings.TrimSpace(field.Param) == "" {
		return fmt.Errorf("field %q: param is required", field.ID)
	}
	if field.Default.IsValid() && field.Default.Kind() != field.Type.ValueKind() {
		return fmt.Errorf("field %q: default is a %s, %s fields hold a %s", field.ID, field.Default.Kind(), field.Type, field.Type.ValueKind())
	}
	if field.Step != nil && *field.Step <= 0 {
		return fmt.Errorf("field %q: step must be positive", field.ID)
	}
	if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
		return fmt.Errorf("field %q: min %v exceeds max %v", field.ID, *field.Min, *field.Max)
	}
	return nil
}

func decodeDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if blank(data) {
		return documentFile{}, fmt.Errorf("schema: %s is empty", source)
	}
	trimmed := bytes.TrimSpace(data)

	jsonErr := json.Unmarshal(trimmed, &doc)
	if jsonErr == nil {
		return doc, nil
	}
	if looksJSON(trimmed) {
		return documentFile{}, fmt.Errorf("schema: parse %s: %w", source, jsonErr)
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return documentFile{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return doc, nil
}
