package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-urlform/pkg/actions"
	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/render"
	"github.com/goliatone/go-urlform/pkg/renderers/tui"
)

func newEditCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the form interactively in the terminal",
		Long: `Walk the form in the terminal. Pick a field to change it; the URL is
recompiled after every edit. Copy and open use the system clipboard and
browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sch, err := a.loadSchema(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			live := a.cfg.LivePreview
			if noLive, _ := flags.GetBool("no-live"); noLive {
				live = false
			}
			options := []controller.Option{
				controller.WithLogger(a.logger),
				controller.WithLivePreview(live),
				controller.WithPageAddress(a.cfg.PageAddress),
				controller.WithClipboard(actions.NewClipboard()),
				controller.WithOpener(actions.NewOpener()),
			}
			if flags.Changed("base") {
				base, _ := flags.GetString("base")
				options = append(options, controller.WithBaseURL(base))
			}
			ctrl, err := controller.New(sch, options...)
			if err != nil {
				return err
			}

			editor, err := tui.NewEditor(ctrl,
				tui.WithOutput(a.out),
				tui.WithStyles(a.styles()),
				tui.WithRenderOptions(render.RenderOptions{Locale: a.cfg.Locale}),
			)
			if err != nil {
				return err
			}
			if err := editor.Run(ctx); err != nil && !errors.Is(err, tui.ErrAborted) {
				return err
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("base", "", "start from this base URL instead of the schema default")
	flags.Bool("no-live", false, "start with live preview off")
	return cmd
}
