package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/diag"
	"github.com/tmilicic/posthog/parser"
)

type parseResult struct {
	File        string          `json:"file"`
	Statements  []ast.Statement `json:"statements"`
	Diagnostics diag.List       `json:"diagnostics,omitempty"`
}

func (a *app) parseCommand() *cobra.Command {
	var (
		asJSON bool
		jobs   int
	)
	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Parse scripts and report every statement that fails",
		Long: `Parse checks HogQL scripts. After an error it skips to the next
semicolon, so all broken statements of a script are reported at once.
Files are parsed concurrently.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1, got %d", jobs)
			}
			sources, err := readSources(cmd, args)
			if err != nil {
				return err
			}

			results := make([]parseResult, len(sources))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, src := range sources {
				i, src := i, src
				g.Go(func() error {
					stmts, errs := parser.ParseScript(ctx, strings.NewReader(src.text), a.parser)
					results[i] = parseResult{File: src.name, Statements: stmts, Diagnostics: errs}
					return ctx.Err()
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			rejected := false
			enc := json.NewEncoder(cmd.OutOrStdout())
			for i, res := range results {
				if len(res.Diagnostics) > 0 {
					rejected = true
				}
				if asJSON {
					if err := enc.Encode(res); err != nil {
						return err
					}
					continue
				}
				for _, e := range res.Diagnostics {
					fmt.Fprintln(cmd.ErrOrStderr(), renderDiagnostic(res.File, sources[i].text, e))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d statements, %d errors\n",
					res.File, len(res.Statements), len(res.Diagnostics))
			}
			if rejected {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the syntax trees as JSON")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of files parsed at once")
	return cmd
}
