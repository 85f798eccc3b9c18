package schema

import (
	"fmt"
	"strings"
)

// FieldType enumerates the closed set of field kinds a schema may declare.
// Every switch over FieldType in this module is exhaustive; adding a kind
// means visiting each of them.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldSwitch FieldType = "switch"
	FieldColor  FieldType = "color"
	FieldRange  FieldType = "range"
)

// FieldTypes lists the supported kinds in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{FieldText, FieldNumber, FieldSwitch, FieldColor, FieldRange}
}

// Valid reports whether t is one of the supported kinds.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldNumber, FieldSwitch, FieldColor, FieldRange:
		return true
	default:
		return false
	}
}

// ValueKind returns the Value kind stored for fields of this type.
func (t FieldType) ValueKind() ValueKind {
	switch t {
	case FieldNumber, FieldRange:
		return KindNumber
	case FieldSwitch:
		return KindBool
	case FieldText, FieldColor:
		return KindString
	default:
		return KindInvalid
	}
}

// Zero returns the zero-equivalent value for the field type.
func (t FieldType) Zero() Value {
	switch t {
	case FieldNumber, FieldRange:
		return Number(0)
	case FieldSwitch:
		return Bool(false)
	case FieldColor:
		return String(DefaultColor)
	case FieldText:
		return String("")
	default:
		return Value{}
	}
}

// DefaultColor is what a native color control reports when it holds no value.
const DefaultColor = "#000000"

// Range control bounds applied when a range field omits min or max.
const (
	DefaultRangeMin = 0
	DefaultRangeMax = 100
)

// Schema is the immutable description of the form. It is built once by
// Parse and only read afterwards.
type Schema struct {
	App      AppInfo    `json:"app" yaml:"app"`
	Base     BaseConfig `json:"base" yaml:"base"`
	Sections []Section  `json:"sections" yaml:"sections"`

	index map[string]int
	flat  []Field
}

// AppInfo carries presentation-only titles.
type AppInfo struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
}

// BaseConfig describes the base URL input.
type BaseConfig struct {
	Default     string `json:"defaultBaseUrl,omitempty" yaml:"defaultBaseUrl,omitempty"`
	Placeholder string `json:"baseUrlPlaceholder,omitempty" yaml:"baseUrlPlaceholder,omitempty"`
}

// Section groups fields for display. Order does not affect the compiled URL
// beyond the last-write-wins rule for shared params.
type Section struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Field is one configurable value.
type Field struct {
	ID          string    `json:"id" yaml:"id"`
	Type        FieldType `json:"type" yaml:"type"`
	Param       string    `json:"param" yaml:"param"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Default     Value     `json:"default" yaml:"default"`
	Min         *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Step        *float64  `json:"step,omitempty" yaml:"step,omitempty"`
	Suffix      string    `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// StepOrDefault returns the declared step or 1.
func (f Field) StepOrDefault() float64 {
	if f.Step != nil && *f.Step > 0 {
		return *f.Step
	}
	return 1
}

// Bounds returns the effective min/max pair for range controls. Number
// fields report only what they declare.
func (f Field) Bounds() (lo, hi *float64) {
	lo, hi = f.Min, f.Max
	if f.Type != FieldRange {
		return lo, hi
	}
	if lo == nil {
		v := float64(DefaultRangeMin)
		lo = &v
	}
	if hi == nil {
		v := float64(DefaultRangeMax)
		hi = &v
	}
	return lo, hi
}

// DisplayLabel falls back to the id when the label is empty.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.ID
}

// Fields returns every field in section, then field, declaration order.
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	if s.flat != nil {
		return append([]Field(nil), s.flat...)
	}
	return flatten(s.Sections)
}

// Field looks a field up by id.
func (s *Schema) Field(id string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	if s.index != nil {
		pos, ok := s.index[id]
		if !ok {
			return Field{}, false
		}
		return s.flat[pos], true
	}
	for _, field := range flatten(s.Sections) {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// FieldIDs returns the ids in declaration order.
func (s *Schema) FieldIDs() []string {
	fields := s.Fields()
	ids := make([]string, 0, len(fields))
	for _, field := range fields {
		ids = append(ids, field.ID)
	}
	return ids
}

// Title returns the app title or a generic fallback.
func (s *Schema) Title() string {
	if s == nil || strings.TrimSpace(s.App.Title) == "" {
		return "Configuration"
	}
	return s.App.Title
}

// BasePlaceholder returns the base input placeholder or a generic fallback.
func (s *Schema) BasePlaceholder() string {
	if s == nil || strings.TrimSpace(s.Base.Placeholder) == "" {
		return "Base URL…"
	}
	return s.Base.Placeholder
}

func flatten(sections []Section) []Field {
	out := make([]Field, 0)
	for _, section := range sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Warning is a non-fatal schema observation.
type Warning struct {
	FieldID string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.FieldID, w.Message)
}

// PreviewParam is the marker parameter added to preview URLs.
const PreviewParam = "preview"

// Lint reports params shared by several fields (the later field wins) and
// fields whose param collides with the preview marker.
func (s *Schema) Lint() []Warning {
	var warnings []Warning
	owners := make(map[string]string)
	for _, field := range s.Fields() {
		if prev, ok := owners[field.Param]; ok {
			warnings = append(warnings, Warning{
				FieldID: field.ID,
				Message: fmt.Sprintf("param %q also used by %q; %q wins", field.Param, prev, field.ID),
			})
		}
		owners[field.Param] = field.ID
		if field.Param == PreviewParam {
			warnings = append(warnings, Warning{
				FieldID: field.ID,
				Message: fmt.Sprintf("param %q is overwritten in preview URLs", PreviewParam),
			})
		}
	}
	return warnings
}
