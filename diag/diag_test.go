package diag

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmilicic/posthog/token"
)

func TestErrorString(t *testing.T) {
	e := NewParse(token.Position{Offset: 7, Column: 7}, "FROM", []string{"identifier", "'('", "identifier"},
		"unexpected %s", "FROM")
	assert.Equal(t, "ParseError at 1:8: unexpected FROM (expected '(' or identifier)", e.Error())
	assert.Equal(t, []string{"'('", "identifier"}, e.Expected)
	assert.Equal(t, 0, e.Line())
	assert.Equal(t, 7, e.Column())

	lex := NewLex(token.Position{Line: 2, Column: 4}, "unterminated string literal")
	assert.Equal(t, "LexError at 3:5: unterminated string literal", lex.Error())
}

func TestJoinExpected(t *testing.T) {
	assert.Equal(t, "a", joinExpected([]string{"a"}))
	assert.Equal(t, "a or b", joinExpected([]string{"a", "b"}))
	assert.Equal(t, "a, b or c", joinExpected([]string{"a", "b", "c"}))
}

func TestKinds(t *testing.T) {
	lex := NewLex(token.Position{}, "bad")
	parse := NewParse(token.Position{}, "", nil, "bad")
	wrapped := fmt.Errorf("query 3: %w", lex)

	assert.True(t, IsLex(wrapped))
	assert.False(t, IsParse(wrapped))
	assert.True(t, IsParse(parse))
	assert.False(t, IsLex(errors.New("other")))
}

func TestDepthError(t *testing.T) {
	e := NewDepth(token.Position{Offset: 512, Column: 512}, "'('", 512)
	assert.True(t, errors.Is(e, ErrMaxDepth))
	assert.Equal(t, Parse, e.Kind)
	assert.Contains(t, e.Msg, "limit 512")
}

func TestJSON(t *testing.T) {
	e := NewParse(token.Position{Offset: 3, Line: 0, Column: 3}, "end of input", []string{"identifier"}, "expected identifier")
	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "ParseError",
		"position": {"offset": 3, "line": 0, "column": 3},
		"message": "expected identifier",
		"expected": ["identifier"],
		"found": "end of input"
	}`, string(b))
}

func TestList(t *testing.T) {
	var l List
	assert.NoError(t, l.Err())

	second := NewParse(token.Position{Offset: 20}, "", nil, "second")
	first := NewLex(token.Position{Offset: 5}, "first")
	l.Add(second)
	l.Add(fmt.Errorf("wrapped: %w", first))
	l.Add(errors.New("not a diagnostic"))
	require.Len(t, l, 2)

	l.Sort()
	assert.Same(t, first, l[0])
	assert.Same(t, second, l[1])

	err := l.Err()
	require.Error(t, err)
	assert.True(t, IsLex(err))
	assert.True(t, IsParse(err))
	assert.Contains(t, err.Error(), "2 errors:")

	wrapped := fmt.Errorf("script.sql: %w", err)
	assert.True(t, IsLex(wrapped))
	assert.True(t, IsParse(wrapped))
}

func TestKindOfList(t *testing.T) {
	parseOnly := List{
		NewParse(token.Position{}, "", nil, "a"),
		NewParse(token.Position{Offset: 3}, "", nil, "b"),
	}
	assert.True(t, IsParse(parseOnly))
	assert.False(t, IsLex(parseOnly))

	lexOnly := List{NewLex(token.Position{}, "a")}
	assert.True(t, IsLex(lexOnly))
	assert.False(t, IsParse(lexOnly))

	assert.False(t, IsLex(nil))
	assert.False(t, IsParse(errors.New("plain")))
}

func TestSnippet(t *testing.T) {
	src := "SELECT a\n\tFROM  t WHERE\r\nx"
	s := SnippetAt(src, token.Position{Line: 1, Column: 3})
	assert.Equal(t, 1, s.Line)
	assert.Equal(t, "\tFROM  t WHERE", s.Text)
	assert.Equal(t, "\t  ", s.Gutter)

	// Positions past the end clamp to the last line.
	s = SnippetAt(src, token.Position{Line: 9, Column: 2})
	assert.Equal(t, 2, s.Line)
	assert.Equal(t, "  ", s.Gutter)
}

func TestRender(t *testing.T) {
	src := "SELECT 'abc"
	e := NewLex(token.Position{Offset: 7, Column: 7}, "unterminated string literal")
	assert.Equal(t,
		"LexError at 1:8: unterminated string literal\n  SELECT 'abc\n         ^",
		Render(src, e))
}
