package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmilicic/posthog/internal/normalize"
)

func (a *app) fingerprintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint [file...]",
		Short: "Print the normalized form of each input and its hash",
		Long: `Fingerprint replaces literal values with ? and normalizes keyword case
and whitespace, so queries that differ only in their constants share a hash.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd, args)
			if err != nil {
				return err
			}

			rejected := false
			for _, src := range sources {
				fp, err := normalize.Fingerprint(src.text, a.parser.Config)
				if err != nil {
					report(cmd.ErrOrStderr(), src, err)
					rejected = true
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", normalize.Hash(fp), fp)
			}
			if rejected {
				return errRejected
			}
			return nil
		},
	}
}
