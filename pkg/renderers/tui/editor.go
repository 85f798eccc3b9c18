// Package tui is the terminal surface: an interactive menu loop over a
// controller, built on survey prompts and lipgloss styling.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goliatone/go-urlform/pkg/codec"
	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/render"
	"github.com/goliatone/go-urlform/pkg/schema"
)

type action int

const (
	actionField action = iota
	actionBase
	actionLive
	actionPreview
	actionReset
	actionCopy
	actionOpen
	actionQuit
)

type menuEntry struct {
	label   string
	action  action
	fieldID string
}

// Editor runs the interactive edit loop. Every choice goes through the
// controller, and the resulting frame is printed before the next prompt.
type Editor struct {
	ctrl   *controller.Controller
	driver PromptDriver
	out    io.Writer
	text   *TextRenderer
	opts   render.RenderOptions
}

// NewEditor builds an editor over ctrl.
func NewEditor(ctrl *controller.Controller, options ...Option) (*Editor, error) {
	if ctrl == nil {
		return nil, ErrNoController
	}
	e := &Editor{
		ctrl: ctrl,
		out:  os.Stdout,
		text: NewTextRenderer(DefaultStyles()),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(e.out)
	}
	return e, nil
}

// Run prints the form and loops until the user quits. Ctrl+C returns
// ErrAborted.
func (e *Editor) Run(ctx context.Context) error {
	if err := e.printPage(ctx, e.ctrl.Frame()); err != nil {
		return err
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries := e.menu()
		labels := make([]string, len(entries))
		for i, entry := range entries {
			labels[i] = entry.label
		}
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:  e.ctrl.Schema().Title(),
			Options:  labels,
			PageSize: 15,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(entries) {
			continue
		}
		entry := entries[idx]
		if entry.action == actionQuit {
			return nil
		}
		if err := e.handle(ctx, entry); err != nil {
			return err
		}
	}
}

func (e *Editor) handle(ctx context.Context, entry menuEntry) error {
	switch entry.action {
	case actionField:
		return e.editField(ctx, entry.fieldID)
	case actionBase:
		frame := e.ctrl.Frame()
		text, err := e.driver.Input(ctx, InputConfig{
			Message: e.opts.T("base.label"),
			Default: frame.BaseURL,
			Help:    e.ctrl.Schema().BasePlaceholder(),
		})
		if err != nil {
			return err
		}
		return e.printResult(e.ctrl.EditBaseURL(text))
	case actionLive:
		return e.printResult(e.ctrl.SetLivePreview(!e.ctrl.Frame().LivePreview))
	case actionPreview:
		return e.printResult(e.ctrl.RefreshPreview())
	case actionReset:
		return e.printPage(ctx, e.ctrl.Reset())
	case actionCopy:
		ok, err := e.ctrl.Copy()
		return e.report(ctx, ok, err, e.opts.T("status.copied"))
	case actionOpen:
		ok, err := e.ctrl.Open()
		return e.report(ctx, ok, err, e.opts.T("action.open"))
	default:
		return nil
	}
}

func (e *Editor) editField(ctx context.Context, id string) error {
	field, ok := e.ctrl.Schema().Field(id)
	if !ok {
		return fmt.Errorf("tui: unknown field %q", id)
	}
	view, _ := e.ctrl.Frame().Field(id)

	var raw string
	switch field.Type {
	case schema.FieldSwitch:
		on, err := e.driver.Confirm(ctx, ConfirmConfig{
			Message: field.DisplayLabel(),
			Default: view.Value.Flag(),
			Help:    field.Param,
		})
		if err != nil {
			return err
		}
		raw = strconv.FormatBool(on)
	case schema.FieldText, schema.FieldNumber, schema.FieldColor, schema.FieldRange:
		text, err := e.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s (%s)", field.DisplayLabel(), field.Param),
			Default: view.Encoded,
			Help:    fieldHelp(field),
			Validator: func(s string) error {
				_, err := codec.Normalize(field, s)
				return err
			},
		})
		if err != nil {
			return err
		}
		raw = text
	}

	frame, err := e.ctrl.EditField(id, raw)
	if err != nil {
		return e.driver.Info(ctx, e.text.styles.Error.Render(err.Error()))
	}
	return e.printResult(frame)
}

func (e *Editor) report(ctx context.Context, ok bool, err error, success string) error {
	switch {
	case err != nil && !errors.Is(err, controller.ErrNoAction):
		return e.driver.Info(ctx, e.text.styles.Error.Render(err.Error()))
	case err != nil:
		return e.driver.Info(ctx, e.text.styles.Muted.Render(err.Error()))
	case !ok:
		return e.driver.Info(ctx, e.text.styles.Warn.Render(e.opts.StatusText(e.ctrl.Frame())))
	default:
		return e.driver.Info(ctx, e.text.styles.OK.Render(success))
	}
}

func (e *Editor) menu() []menuEntry {
	frame := e.ctrl.Frame()
	entries := make([]menuEntry, 0, len(frame.Fields)+7)
	for _, view := range frame.Fields {
		display := view.Display
		if view.Type == schema.FieldSwitch {
			display = e.opts.T("switch.off")
			if view.Value.Flag() {
				display = e.opts.T("switch.on")
			}
		}
		entries = append(entries, menuEntry{
			label:   fmt.Sprintf("%s [%s] = %s", view.Label, view.Param, display),
			action:  actionField,
			fieldID: view.ID,
		})
	}
	live := e.opts.T("switch.off")
	if frame.LivePreview {
		live = e.opts.T("switch.on")
	}
	entries = append(entries,
		menuEntry{label: fmt.Sprintf("%s = %s", e.opts.T("base.label"), frame.BaseURL), action: actionBase},
		menuEntry{label: fmt.Sprintf("%s = %s", e.opts.T("live.label"), live), action: actionLive},
		menuEntry{label: e.opts.T("action.refresh"), action: actionPreview},
		menuEntry{label: e.opts.T("action.reset"), action: actionReset},
		menuEntry{label: e.opts.T("action.copy"), action: actionCopy},
		menuEntry{label: e.opts.T("action.open"), action: actionOpen},
		menuEntry{label: e.opts.T("action.quit"), action: actionQuit},
	)
	return entries
}

func (e *Editor) printPage(ctx context.Context, frame controller.Frame) error {
	page := render.NewPage(e.ctrl.Schema(), frame, "")
	out, err := e.text.Render(ctx, page, e.opts)
	if err != nil {
		return err
	}
	_, err = e.out.Write(out)
	return err
}

func (e *Editor) printResult(frame controller.Frame) error {
	_, err := io.WriteString(e.out, e.text.Result(frame, e.opts))
	return err
}

func fieldHelp(field schema.Field) string {
	switch field.Type {
	case schema.FieldRange:
		lo, hi := field.Bounds()
		return fmt.Sprintf("%s..%s step %s", codec.FormatNumber(*lo), codec.FormatNumber(*hi), codec.FormatNumber(field.StepOrDefault()))
	case schema.FieldNumber:
		return field.Placeholder
	case schema.FieldColor:
		return "#rrggbb"
	case schema.FieldText, schema.FieldSwitch:
		return field.Placeholder
	default:
		return ""
	}
}
