package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-urlform"
	"github.com/goliatone/go-urlform/pkg/compiler"
	"github.com/goliatone/go-urlform/pkg/controller"
	"github.com/goliatone/go-urlform/pkg/render"
)

type compileOutput struct {
	urlform.Result
	StatusText string `json:"statusText"`
	CountText  string `json:"countText"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newCompileCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the URL once from schema defaults and overrides",
		Long: `Compile the target URL without any interaction. Overrides are given as
id=value pairs in the same text a control would hold.

Examples:
  urlform compile -s widget.json --set dark=true --set radius=12
  urlform compile -s widget.json --base https://staging.example.test/embed --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			base, _ := flags.GetString("base")
			pairs, _ := flags.GetStringArray("set")
			preview, _ := flags.GetBool("preview")
			asJSON, _ := flags.GetBool("json")

			overrides, err := parseOverrides(pairs)
			if err != nil {
				return err
			}
			sch, err := a.loadSchema(cmd.Context())
			if err != nil {
				return err
			}
			result, err := urlform.Compile(sch, base, overrides, compiler.WithPageAddress(a.cfg.PageAddress))
			if err != nil {
				return err
			}

			opts := render.RenderOptions{Locale: a.cfg.Locale}
			frame := controller.Frame{Result: result}
			out := compileOutput{
				Result:     result,
				StatusText: opts.StatusText(frame),
				CountText:  opts.CountText(frame),
			}
			if result.Err != nil {
				out.Error = result.Err.Error()
			}
			if preview {
				out.PreviewURL = compiler.PreviewURL(result)
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			if !result.Ready() {
				if out.Error != "" {
					return fmt.Errorf("%s: %s", out.StatusText, out.Error)
				}
				return fmt.Errorf("%s", out.StatusText)
			}
			url := result.URL
			if preview {
				url = out.PreviewURL
			}
			fmt.Fprintln(a.out, url)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("base", "", "base URL (default: the schema's)")
	flags.StringArray("set", nil, "override a field as id=value; repeatable")
	flags.Bool("preview", false, "print the preview variant of the URL")
	flags.Bool("json", false, "print the full result as JSON")
	return cmd
}

func parseOverrides(pairs []string) (map[string]string, error) {
	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		id, value, ok := strings.Cut(pair, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --set %q: want id=value", pair)
		}
		overrides[id] = value
	}
	return overrides, nil
}
