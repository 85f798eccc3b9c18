package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-urlform"
	"github.com/goliatone/go-urlform/internal/config"
	"github.com/goliatone/go-urlform/internal/logging"
	"github.com/goliatone/go-urlform/pkg/renderers/tui"
	"github.com/goliatone/go-urlform/pkg/schema"
)

// annotationSchemaArg marks commands whose first positional argument
// replaces --schema.
const annotationSchemaArg = "urlform/schema-arg"

var errNoSchema = errors.New("no schema: pass --schema or set schema in the config file")

// app carries what every subcommand shares once the root pre-run has
// resolved configuration.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	plain      bool
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, cfg: config.Default(), logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "urlform",
		Short: "Build configurable URLs from a form schema",
		Long: `urlform turns a schema of typed fields into a form whose state is
compiled into a target URL's query string.

Examples:
  # Serve the form page on the configured address
  urlform serve --schema widget.json --watch

  # Edit interactively in the terminal
  urlform edit --schema widget.json

  # Compile once with overrides
  urlform compile --schema widget.json --set dark=true --set radius=12`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, args)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringP("schema", "s", "", "schema document path or http(s) URL")
	flags.String("operation", "", "treat the schema as OpenAPI and use this operation")
	flags.String("locale", "", "locale for status text (en, es)")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "text or json")
	flags.BoolVar(&a.plain, "plain", false, "disable colours in terminal output")

	root.AddCommand(
		newServeCommand(a),
		newEditCommand(a),
		newCompileCommand(a),
		newValidateCommand(a),
		newImportCommand(a),
	)

	return root
}

// setup loads the config file, applies explicitly set flags over it and
// builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, target *string) {
		if flags.Changed(name) {
			value, _ := flags.GetString(name)
			*target = value
		}
	}
	override("schema", &cfg.Schema)
	override("operation", &cfg.OpenAPIOperation)
	override("locale", &cfg.Locale)
	override("log-level", &cfg.LogLevel)
	override("log-format", &cfg.LogFormat)
	if cmd.Annotations[annotationSchemaArg] == "true" && len(args) > 0 {
		cfg.Schema = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	level, format, err := cfg.Logging()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(a.errOut, level, format)
	return nil
}

func (a *app) styles() tui.Styles {
	if a.plain {
		return tui.PlainStyles()
	}
	return tui.DefaultStyles()
}

// loadSchema reads the configured schema, importing it from OpenAPI when an
// operation is set.
func (a *app) loadSchema(ctx context.Context) (*schema.Schema, error) {
	location := strings.TrimSpace(a.cfg.Schema)
	if location == "" {
		return nil, errNoSchema
	}
	options := []schema.LoaderOption{schema.WithHTTPFallback(a.cfg.RequestTimeout)}

	var (
		sch *schema.Schema
		err error
	)
	if a.cfg.OpenAPIOperation != "" {
		sch, err = urlform.ImportOpenAPI(ctx, location, a.cfg.OpenAPIOperation, options...)
	} else {
		sch, err = urlform.LoadSchema(ctx, location, options...)
	}
	if err != nil {
		return nil, err
	}
	a.logger.Debug("schema loaded", "location", location, "fields", len(sch.Fields()))
	for _, warning := range sch.Lint() {
		a.logger.Warn("schema lint", "warning", warning.String())
	}
	return sch, nil
}
