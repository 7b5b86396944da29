package diag

import (
	"strings"

	"github.com/tmilicic/posthog/token"
)

// Snippet is the source line an error points into.
type Snippet struct {
	Line   int    // zero-based line number
	Text   string // line contents without the newline
	Column int    // zero-based rune column of the error
	Gutter string // whitespace that lines a caret up under Column
}

// SnippetAt cuts the line containing pos out of src.
func SnippetAt(src string, pos token.Position) Snippet {
	lines := strings.Split(src, "\n")
	line := pos.Line
	if line < 0 {
		line = 0
	}
	if line >= len(lines) {
		line = len(lines) - 1
	}
	text := strings.TrimSuffix(lines[line], "\r")

	var gutter strings.Builder
	col := 0
	for _, r := range text {
		if col >= pos.Column {
			break
		}
		if r == '\t' {
			gutter.WriteRune('\t')
		} else {
			gutter.WriteRune(' ')
		}
		col++
	}
	for ; col < pos.Column; col++ {
		gutter.WriteRune(' ')
	}
	return Snippet{Line: line, Text: text, Column: pos.Column, Gutter: gutter.String()}
}

// Render formats e as a plain-text diagnostic with the offending source
// line and a caret under the error position.
func Render(src string, e *Error) string {
	s := SnippetAt(src, e.Pos)
	var sb strings.Builder
	sb.WriteString(e.Error())
	sb.WriteString("\n  ")
	sb.WriteString(s.Text)
	sb.WriteString("\n  ")
	sb.WriteString(s.Gutter)
	sb.WriteString("^")
	return sb.String()
}
