package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmilicic/posthog/parser"
)

func (a *app) fmtCommand() *cobra.Command {
	var (
		write bool
		expr  bool
	)
	cmd := &cobra.Command{
		Use:   "fmt [file...]",
		Short: "Print the input in canonical form",
		Long: `Fmt prints every statement on one line with upper-case keywords and
fully parenthesized expressions. The output parses back to the same tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd, args)
			if err != nil {
				return err
			}

			rejected := false
			for _, src := range sources {
				var out string
				if expr {
					e, err := parser.NewWithConfig(strings.NewReader(src.text), a.parser).ParseExpr()
					if err != nil {
						report(cmd.ErrOrStderr(), src, err)
						rejected = true
						continue
					}
					out = parser.FormatExpr(e)
				} else {
					stmts, err := parser.ParseWithConfig(cmd.Context(), strings.NewReader(src.text), a.parser)
					if err != nil {
						report(cmd.ErrOrStderr(), src, err)
						rejected = true
						continue
					}
					out = parser.Format(stmts)
				}

				if write && src.name != "<stdin>" {
					if err := os.WriteFile(src.name, []byte(out+"\n"), 0o644); err != nil {
						return fmt.Errorf("write %s: %w", src.name, err)
					}
					a.log.Debug().Str("file", src.name).Msg("formatted")
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			if rejected {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to the source file")
	cmd.Flags().BoolVar(&expr, "expr", false, "treat the input as a single expression")
	return cmd
}
