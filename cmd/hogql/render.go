package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tmilicic/posthog/diag"
)

var (
	locationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8FAFC"))
	caretStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")).Italic(true)
)

// renderDiagnostic formats e against the source it was found in:
//
//	query.sql:1:8: ParseError: unexpected FROM
//	  SELECT FROM t
//	         ^
//	  expected an expression
//
// Styles are dropped when the output is not a terminal.
func renderDiagnostic(name, src string, e *diag.Error) string {
	s := diag.SnippetAt(src, e.Pos)
	lines := []string{
		locationStyle.Render(fmt.Sprintf("%s:%s:", name, e.Pos)) + " " +
			kindStyle.Render(e.Kind.String()+":") + " " + e.Msg,
		"  " + sourceStyle.Render(s.Text),
		"  " + s.Gutter + caretStyle.Render("^"),
	}
	if len(e.Expected) > 0 {
		lines = append(lines, "  "+hintStyle.Render("expected "+strings.Join(e.Expected, ", ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// report writes every diagnostic in errs to w. Errors that did not come
// from the lexer or parser are written plainly.
func report(w io.Writer, src source, errs ...error) {
	for _, err := range errs {
		var e *diag.Error
		if errors.As(err, &e) {
			fmt.Fprintln(w, renderDiagnostic(src.name, src.text, e))
			continue
		}
		fmt.Fprintf(w, "%s: %v\n", src.name, err)
	}
}
