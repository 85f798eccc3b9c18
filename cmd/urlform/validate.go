package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the schema and report problems",
		Long: `Load and validate the schema. Fatal problems exit non-zero; shared
params and preview collisions are listed as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sch, err := a.loadSchema(cmd.Context())
			if err != nil {
				return err
			}
			styles := a.styles()
			fields := sch.Fields()
			params := make(map[string]struct{}, len(fields))
			for _, field := range fields {
				params[field.Param] = struct{}{}
			}

			fmt.Fprintf(a.out, "%s %s\n", styles.OK.Render("ok"), styles.Title.Render(sch.Title()))
			fmt.Fprintf(a.out, "  %d sections, %d fields, %d params\n", len(sch.Sections), len(fields), len(params))
			if sch.Base.Default != "" {
				fmt.Fprintf(a.out, "  base %s\n", styles.URL.Render(sch.Base.Default))
			}
			for _, section := range sch.Sections {
				ids := make([]string, 0, len(section.Fields))
				for _, field := range section.Fields {
					ids = append(ids, field.ID)
				}
				fmt.Fprintf(a.out, "  %s: %s\n", styles.Section.Render(section.Title), strings.Join(ids, ", "))
			}
			for _, warning := range sch.Lint() {
				fmt.Fprintf(a.out, "%s %s\n", styles.Warn.Render("warning"), warning.String())
			}
			return nil
		},
	}
}
