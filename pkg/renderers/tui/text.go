package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-urlform/pkg/compiler"
	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/render"
	"github.com/goliatone/go-urlform/pkg/schema"
)

// TextRenderer writes a page as a terminal summary.
type TextRenderer struct {
	styles Styles
	// Compact prints only the URL block.
	Compact bool
}

// NewTextRenderer returns a renderer using styles.
func NewTextRenderer(styles Styles) *TextRenderer {
	return &TextRenderer{styles: styles}
}

func (r *TextRenderer) Name() string {
	return "text"
}

func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *TextRenderer) Render(_ context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	var b strings.Builder
	if !r.Compact {
		b.WriteString(r.styles.Title.Render(page.Title))
		b.WriteByte('\n')
		if sub := render.StripHTML(page.Subtitle); sub != "" {
			b.WriteString(r.styles.Muted.Render(sub))
			b.WriteByte('\n')
		}
		for _, section := range page.Sections {
			b.WriteByte('\n')
			b.WriteString(r.styles.Section.Render(section.Title))
			b.WriteByte('\n')
			for _, view := range section.Fields {
				fmt.Fprintf(&b, "  %s %s = %s\n",
					r.styles.Label.Render(view.Label),
					r.styles.Muted.Render("("+view.Param+")"),
					r.display(view, opts),
				)
			}
		}
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%s: %s\n", opts.T("base.label"), page.Frame.BaseURL)
	}
	r.writeResult(&b, page.Frame, opts)
	return []byte(b.String()), nil
}

func (r *TextRenderer) writeResult(b *strings.Builder, frame controller.Frame, opts render.RenderOptions) {
	status := opts.StatusText(frame)
	switch frame.Result.Status {
	case compiler.StatusReady:
		status = r.styles.OK.Render(status)
	case compiler.StatusMissingBase:
		status = r.styles.Warn.Render(status)
	case compiler.StatusInvalidBase:
		status = r.styles.Error.Render(status)
	}
	fmt.Fprintf(b, "[%s] [%s]", status, opts.CountText(frame))
	if frame.LivePreview {
		fmt.Fprintf(b, " [%s]", opts.T("live.label"))
	}
	b.WriteByte('\n')
	if frame.Error != "" {
		b.WriteString(r.styles.Error.Render(frame.Error))
		b.WriteByte('\n')
	}
	if frame.Result.URL != "" {
		b.WriteString(r.styles.URL.Render(frame.Result.URL))
		b.WriteByte('\n')
	}
	if frame.PreviewUpdated && frame.PreviewURL != "" {
		fmt.Fprintf(b, "%s: %s\n", opts.T("preview.title"), r.styles.Muted.Render(frame.PreviewURL))
	}
}

func (r *TextRenderer) display(view controller.FieldView, opts render.RenderOptions) string {
	if view.Type == schema.FieldSwitch {
		if view.Value.Flag() {
			return opts.T("switch.on")
		}
		return opts.T("switch.off")
	}
	if view.Display == "" {
		return `""`
	}
	return view.Display
}

// Result renders only the status, count and URL lines for frame.
func (r *TextRenderer) Result(frame controller.Frame, opts render.RenderOptions) string {
	var b strings.Builder
	r.writeResult(&b, frame, opts)
	return b.String()
}
