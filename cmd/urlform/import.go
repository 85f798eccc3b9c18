package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-urlform"
	"github.com/goliatone/go-urlform/pkg/schema"
)

func newImportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-openapi [document]",
		Short: "Derive a schema from an OpenAPI operation's query parameters",
		Long: `Read an OpenAPI 3 document and write a schema built from one operation's
query parameters. The document defaults to --schema. Without --operation
the available operations are listed; operations lacking an id are named
method:path.

Examples:
  urlform import-openapi api.yaml
  urlform import-openapi api.yaml --operation getEmbed --format json -o embed.json`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationSchemaArg: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			format, _ := flags.GetString("format")
			output, _ := flags.GetString("output")
			ctx := cmd.Context()

			if strings.TrimSpace(a.cfg.OpenAPIOperation) == "" {
				src, err := schema.ParseSource(a.cfg.Schema)
				if err != nil {
					return err
				}
				importer := urlform.NewImporter(schema.WithHTTPFallback(a.cfg.RequestTimeout))
				ids, err := importer.Operations(ctx, src)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(a.out, id)
				}
				return nil
			}

			sch, err := a.loadSchema(ctx)
			if err != nil {
				return err
			}
			data, err := encodeSchema(sch, format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = a.out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			a.logger.Info("schema written", "path", output, "fields", len(sch.Fields()))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("format", "yaml", "output format: yaml or json")
	flags.StringP("output", "o", "", "write to this file instead of stdout")
	return cmd
}

func encodeSchema(sch *schema.Schema, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		data, err := json.MarshalIndent(sch, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml", "":
		var b strings.Builder
		enc := yaml.NewEncoder(&b)
		enc.SetIndent(2)
		if err := enc.Encode(sch); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	default:
		return nil, errors.New("format must be yaml or json")
	}
}
