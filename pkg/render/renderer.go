package render

import (
	"context"

	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/schema"
)

// Renderer converts a Page into a byte representation (HTML, JSON, text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, options RenderOptions) ([]byte, error)
}

// Page is everything a surface needs to draw the form once: schema chrome,
// the current frame and the session it belongs to.
type Page struct {
	Title           string
	Subtitle        string
	BasePlaceholder string
	Sections        []SectionView
	Frame           controller.Frame
	SessionID       string
	// Events enables the schema reload notifications stream.
	Events bool
}

// SectionView groups field views for display. Description is sanitized
// HTML.
type SectionView struct {
	Title       string
	Description string
	Fields      []controller.FieldView
}

// NewPage pairs the schema layout with frame values. Subtitle and section
// descriptions pass through SanitizeHTML.
func NewPage(sch *schema.Schema, frame controller.Frame, sessionID string) Page {
	page := Page{
		Title:           sch.Title(),
		Subtitle:        SanitizeHTML(sch.App.Subtitle),
		BasePlaceholder: sch.BasePlaceholder(),
		Frame:           frame,
		SessionID:       sessionID,
	}
	views := make(map[string]controller.FieldView, len(frame.Fields))
	for _, view := range frame.Fields {
		views[view.ID] = view
	}
	for _, section := range sch.Sections {
		sv := SectionView{
			Title:       section.Title,
			Description: SanitizeHTML(section.Description),
			Fields:      make([]controller.FieldView, 0, len(section.Fields)),
		}
		for _, field := range section.Fields {
			if view, ok := views[field.ID]; ok {
				sv.Fields = append(sv.Fields, view)
			}
		}
		page.Sections = append(page.Sections, sv)
	}
	return page
}
