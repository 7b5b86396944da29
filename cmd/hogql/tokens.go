package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tmilicic/posthog/lexer"
	"github.com/tmilicic/posthog/token"
)

func (a *app) tokensCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tokens [file...]",
		Short: "Print the token stream of the input",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd, args)
			if err != nil {
				return err
			}

			rejected := false
			for _, src := range sources {
				items, err := lexer.TokenizeWithConfig(strings.NewReader(src.text), a.parser.Config)
				if err != nil {
					report(cmd.ErrOrStderr(), src, err)
					rejected = true
					continue
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					if err := enc.Encode(items); err != nil {
						return err
					}
					continue
				}

				fmt.Fprintln(cmd.OutOrStdout(), tokenTable(items))
			}
			if rejected {
				return errRejected
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tokens as JSON")
	return cmd
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	keywordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA")).Bold(true).Padding(0, 1)
	literalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")).Padding(0, 1)
	operatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Padding(0, 1)
	plainStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func tokenStyle(tok token.Token) lipgloss.Style {
	switch {
	case tok.IsKeyword():
		return keywordStyle
	case tok.IsLiteral():
		return literalStyle
	case tok.IsOperator():
		return operatorStyle
	}
	return plainStyle
}

// tokenTable renders one row per token: position, kind and exact lexeme.
func tokenTable(items []lexer.Item) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(locationStyle).
		Headers("POS", "TOKEN", "RAW").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return locationStyle.Padding(0, 1)
			case col == 1 && row >= 0 && row < len(items):
				return tokenStyle(items[row].Token)
			}
			return sourceStyle.Padding(0, 1)
		})
	for _, item := range items {
		t.Row(item.Pos.String(), item.Token.String(), strconv.Quote(item.Raw))
	}
	return t.String()
}
