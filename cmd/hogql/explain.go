package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmilicic/posthog/parser"
)

func (a *app) explainCommand() *cobra.Command {
	var expr bool
	cmd := &cobra.Command{
		Use:   "explain [file...]",
		Short: "Print the syntax tree of the input",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd, args)
			if err != nil {
				return err
			}

			rejected := false
			for _, src := range sources {
				if expr {
					e, err := parser.NewWithConfig(strings.NewReader(src.text), a.parser).ParseExpr()
					if err != nil {
						report(cmd.ErrOrStderr(), src, err)
						rejected = true
						continue
					}
					fmt.Fprint(cmd.OutOrStdout(), parser.Explain(e))
					continue
				}

				stmts, err := parser.ParseWithConfig(cmd.Context(), strings.NewReader(src.text), a.parser)
				if err != nil {
					report(cmd.ErrOrStderr(), src, err)
					rejected = true
					continue
				}
				for _, stmt := range stmts {
					fmt.Fprint(cmd.OutOrStdout(), parser.Explain(stmt))
				}
			}
			if rejected {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&expr, "expr", false, "treat the input as a single expression")
	return cmd
}
