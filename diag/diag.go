// Package diag defines the errors reported by the HogQL lexer and parser
// and helpers to present them against the source text.
package diag

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tmilicic/posthog/token"
)

// Kind tells which stage rejected the input.
type Kind int

const (
	// Lex errors are malformed character sequences: unterminated literals
	// or comments, invalid escapes, characters outside the language.
	Lex Kind = iota
	// Parse errors are token sequences no grammar rule accepts,
	// including premature end of input.
	Parse
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "LexError"
	case Parse:
		return "ParseError"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets Kind render as its name in JSON diagnostics.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ErrMaxDepth is wrapped by the parse error raised when nesting goes past
// the configured maximum depth.
var ErrMaxDepth = errors.New("maximum nesting depth exceeded")

// Error is the single error type produced by the lexer and parser.
// Line and column in Pos are zero-based.
type Error struct {
	Kind     Kind           `json:"kind"`
	Pos      token.Position `json:"position"`
	Msg      string         `json:"message"`
	Expected []string       `json:"expected,omitempty"`
	Found    string         `json:"found,omitempty"`

	cause error
}

// Line returns the zero-based line of the error.
func (e *Error) Line() int { return e.Pos.Line }

// Column returns the zero-based column of the error.
func (e *Error) Column() int { return e.Pos.Column }

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at %s: %s", e.Kind, e.Pos, e.Msg)
	if len(e.Expected) > 0 {
		sb.WriteString(" (expected ")
		sb.WriteString(joinExpected(e.Expected))
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.cause }

// NewLex builds a lexer error.
func NewLex(pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: Lex, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// NewParse builds a parser error. found is the offending token text and
// expected the alternatives the grammar would have accepted.
func NewParse(pos token.Position, found string, expected []string, format string, args ...any) *Error {
	return &Error{
		Kind:     Parse,
		Pos:      pos,
		Msg:      fmt.Sprintf(format, args...),
		Found:    found,
		Expected: normalizeExpected(expected),
	}
}

// NewDepth builds the parse error for nesting beyond max levels.
func NewDepth(pos token.Position, found string, max int) *Error {
	return &Error{
		Kind:  Parse,
		Pos:   pos,
		Msg:   fmt.Sprintf("%s (limit %d)", ErrMaxDepth, max),
		Found: found,
		cause: ErrMaxDepth,
	}
}

// IsLex reports whether err is, wraps or lists a lexer error.
func IsLex(err error) bool {
	return hasKind(err, Lex)
}

// IsParse reports whether err is, wraps or lists a parser error.
func IsParse(err error) bool {
	return hasKind(err, Parse)
}

// hasKind walks the whole error tree. errors.As would stop at the first
// *Error of a List.
func hasKind(err error, kind Kind) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *Error:
		return e.Kind == kind
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if hasKind(inner, kind) {
				return true
			}
		}
		return false
	}
	return hasKind(errors.Unwrap(err), kind)
}

func normalizeExpected(expected []string) []string {
	if len(expected) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(expected))
	out := make([]string, 0, len(expected))
	for _, s := range expected {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func joinExpected(expected []string) string {
	switch len(expected) {
	case 1:
		return expected[0]
	case 2:
		return expected[0] + " or " + expected[1]
	}
	return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
}
