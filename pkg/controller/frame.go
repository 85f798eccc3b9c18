package controller

import (
	"github.com/goliatone/go-urlform/pkg/codec"
	"github.com/goliatone/go-urlform/pkg/compiler"
	"github.com/goliatone/go-urlform/pkg/schema"
)

// Op names the entry point that produced a frame.
type Op string

const (
	OpStart   Op = "start"
	OpField   Op = "field"
	OpBase    Op = "base"
	OpReset   Op = "reset"
	OpPreview Op = "preview"
	OpLive    Op = "live"
)

// FieldView is what a surface needs to draw one control.
type FieldView struct {
	Section     int              `json:"section"`
	ID          string           `json:"id"`
	Type        schema.FieldType `json:"type"`
	Param       string           `json:"param"`
	Label       string           `json:"label"`
	Value       schema.Value     `json:"value"`
	Encoded     string           `json:"encoded"`
	Display     string           `json:"display"`
	Min         *float64         `json:"min,omitempty"`
	Max         *float64         `json:"max,omitempty"`
	Step        float64          `json:"step"`
	Suffix      string           `json:"suffix,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
}

// Frame is the display update produced by one pipeline run. Rerender asks
// the surface to rebuild every control from Fields; otherwise only the
// Changed control and the URL outputs need refreshing. PreviewURL is the
// last applied preview target and stays stale when PreviewUpdated is false.
type Frame struct {
	Op             Op              `json:"op"`
	Changed        string          `json:"changed,omitempty"`
	Rerender       bool            `json:"rerender"`
	Fields         []FieldView     `json:"fields"`
	BaseURL        string          `json:"baseUrl"`
	Result         compiler.Result `json:"result"`
	StatusLabel    string          `json:"statusLabel"`
	Error          string          `json:"error,omitempty"`
	PreviewURL     string          `json:"previewUrl,omitempty"`
	PreviewUpdated bool            `json:"previewUpdated"`
	LivePreview    bool            `json:"livePreview"`
}

// Field returns the view for id.
func (f Frame) Field(id string) (FieldView, bool) {
	for _, view := range f.Fields {
		if view.ID == id {
			return view, true
		}
	}
	return FieldView{}, false
}

func fieldViews(sch *schema.Schema, values compiler.Values) []FieldView {
	views := make([]FieldView, 0)
	for si, section := range sch.Sections {
		for _, field := range section.Fields {
			value := values.Get(field.ID)
			if value.Kind() != field.Type.ValueKind() {
				value = field.Type.Zero()
			}
			lo, hi := field.Bounds()
			views = append(views, FieldView{
				Section:     si,
				ID:          field.ID,
				Type:        field.Type,
				Param:       field.Param,
				Label:       field.DisplayLabel(),
				Value:       value,
				Encoded:     codec.Encode(field, value),
				Display:     codec.Display(field, value),
				Min:         lo,
				Max:         hi,
				Step:        field.StepOrDefault(),
				Suffix:      field.Suffix,
				Placeholder: field.Placeholder,
			})
		}
	}
	return views
}
