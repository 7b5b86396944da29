package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmilicic/posthog/diag"
	"github.com/tmilicic/posthog/token"
)

func tokens(items []Item) []token.Token {
	out := make([]token.Token, len(items))
	for i, item := range items {
		out[i] = item.Token
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Token
	}{
		{
			name:  "simple select",
			input: "SELECT a FROM t",
			want:  []token.Token{token.SELECT, token.IDENT, token.FROM, token.IDENT, token.EOF},
		},
		{
			name:  "keywords are case insensitive",
			input: "select Distinct",
			want:  []token.Token{token.SELECT, token.DISTINCT, token.EOF},
		},
		{
			name:  "operators",
			input: "= == != <> < <= > >= || -> :: ?? ? =~ =~* !~ !~* ~ ~*",
			want: []token.Token{
				token.EQ, token.EQ, token.NEQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE,
				token.CONCAT, token.ARROW, token.COLONCOLON, token.NULLISH, token.QUESTION,
				token.REGEX, token.IREGEX, token.NOT_REGEX, token.NOT_IREGEX, token.REGEX, token.IREGEX,
				token.EOF,
			},
		},
		{
			name:  "numbers",
			input: ".5 42 0755 0xFF 1.5 1e10 1.5e-3 1.",
			want: []token.Token{
				token.FLOAT, token.DECIMAL, token.OCTAL, token.HEX, token.FLOAT, token.FLOAT,
				token.FLOAT, token.FLOAT, token.EOF,
			},
		},
		{
			name:  "leading zero with non-octal digits is decimal",
			input: "08 019 0777 00",
			want:  []token.Token{token.DECIMAL, token.DECIMAL, token.OCTAL, token.OCTAL, token.EOF},
		},
		{
			name:  "whitespace",
			input: " \t\r\n1\r\n",
			want:  []token.Token{token.DECIMAL, token.EOF},
		},
		{
			name:  "tuple access is not a float",
			input: "t.1.2",
			want:  []token.Token{token.IDENT, token.DOT, token.DECIMAL, token.DOT, token.DECIMAL, token.EOF},
		},
		{
			name:  "placeholder",
			input: "{ id } {a",
			want:  []token.Token{token.PLACEHOLDER, token.LBRACE, token.IDENT, token.EOF},
		},
		{
			name:  "comments",
			input: "SELECT -- trailing\n/* block\n comment */ 1",
			want:  []token.Token{token.SELECT, token.DECIMAL, token.EOF},
		},
		{
			name:  "byte order mark",
			input: "\uFEFFSELECT",
			want:  []token.Token{token.SELECT, token.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Tokenize(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, tokens(items))
		})
	}
}

func TestItemText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		value  string
		raw    string
		quoted bool
	}{
		{"string", `'it''s'`, "it's", `'it''s'`, false},
		{"escapes", `'a\tb\n'`, "a\tb\n", `'a\tb\n'`, false},
		{"hex escape", `'\x41'`, "A", `'\x41'`, false},
		{"unknown escape kept", `'\d+'`, `\d+`, `'\d+'`, false},
		{"backtick identifier", "`select`", "select", "`select`", true},
		{"double quoted identifier", `"my col"`, "my col", `"my col"`, true},
		{"placeholder", "{user_id}", "user_id", "{user_id}", false},
		{"identifier keeps case", "Event", "Event", "Event", false},
		{"unicode identifier", "città", "città", "città", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Tokenize(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, tt.value, items[0].Value)
			assert.Equal(t, tt.raw, items[0].Raw)
			assert.Equal(t, tt.quoted, items[0].Quoted)
		})
	}
}

func TestPositions(t *testing.T) {
	items, err := Tokenize(strings.NewReader("SELECT\n  città,\tx"))
	require.NoError(t, err)
	require.Len(t, items, 5)

	assert.Equal(t, token.Position{Offset: 0, Line: 0, Column: 0}, items[0].Pos)
	assert.Equal(t, token.Position{Offset: 9, Line: 1, Column: 2}, items[1].Pos)
	// Columns count runes, offsets count bytes.
	assert.Equal(t, token.Position{Offset: 15, Line: 1, Column: 7}, items[2].Pos)
	assert.Equal(t, token.Position{Offset: 17, Line: 1, Column: 9}, items[3].Pos)
	assert.Equal(t, 6, items[1].Len())
}

func TestTabWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TabWidth = 4
	items, err := TokenizeWithConfig(strings.NewReader("\tx"), cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, items[0].Pos.Column)
}

func TestConfig(t *testing.T) {
	t.Run("case sensitive keywords", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CaseSensitiveKeywords = true
		items, err := TokenizeWithConfig(strings.NewReader("select SELECT"), cfg)
		require.NoError(t, err)
		assert.Equal(t, []token.Token{token.IDENT, token.SELECT, token.EOF}, tokens(items))
	})

	t.Run("double quotes delimit strings", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.IdentifierQuotes = "`"
		items, err := TokenizeWithConfig(strings.NewReader(`"abc"`), cfg)
		require.NoError(t, err)
		assert.Equal(t, token.STRING, items[0].Token)
		assert.Equal(t, "abc", items[0].Value)
	})

	t.Run("placeholders disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Placeholders = false
		items, err := TokenizeWithConfig(strings.NewReader("{a}"), cfg)
		require.NoError(t, err)
		assert.Equal(t, []token.Token{token.LBRACE, token.IDENT, token.RBRACE, token.EOF}, tokens(items))
	})

	t.Run("escapes disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EscapeChar = 0
		items, err := TokenizeWithConfig(strings.NewReader(`'a\n'`), cfg)
		require.NoError(t, err)
		assert.Equal(t, `a\n`, items[0].Value)
	})
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		pos   token.Position
		msg   string
	}{
		{"unterminated string", "SELECT 'abc", token.Position{Offset: 7, Column: 7}, "unterminated string literal"},
		{"unterminated identifier", "`abc", token.Position{}, "unterminated quoted identifier"},
		{"empty identifier", "``", token.Position{}, "empty quoted identifier"},
		{"unterminated comment", "1 /* x", token.Position{Offset: 2, Column: 2}, "unterminated multi-line comment"},
		{"bad hex escape", `'\xZZ'`, token.Position{Offset: 1, Column: 1}, "invalid escape sequence"},
		{"vertical tab", "a\vb", token.Position{Offset: 1, Column: 1}, "unexpected character"},
		{"form feed", "a\fb", token.Position{Offset: 1, Column: 1}, "unexpected character"},
		{"no-break space", "a\u00a0b", token.Position{Offset: 1, Column: 1}, "unexpected character"},
		{"bad exponent", "1e+", token.Position{}, "malformed exponent"},
		{"bad hex", "0x", token.Position{}, "malformed hexadecimal literal"},
		{"number suffix", "12abc", token.Position{}, `invalid suffix "abc"`},
		{"stray bang", "a ! b", token.Position{Offset: 2, Column: 2}, "unexpected character '!'"},
		{"stray pipe", "a | b", token.Position{Offset: 2, Column: 2}, "unexpected character '|'"},
		{"unknown character", "a # b", token.Position{Offset: 2, Column: 2}, "unexpected character '#'"},
		{"second line", "SELECT\n  @", token.Position{Offset: 9, Line: 1, Column: 2}, "unexpected character '@'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(strings.NewReader(tt.input))
			require.Error(t, err)

			var e *diag.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, diag.Lex, e.Kind)
			assert.Equal(t, tt.pos, e.Pos)
			assert.Contains(t, e.Msg, tt.msg)
		})
	}
}

func TestErrorIsSticky(t *testing.T) {
	l := New(strings.NewReader("'open"))
	_, err := l.NextToken()
	require.Error(t, err)
	item, again := l.NextToken()
	assert.Equal(t, err, again)
	assert.Equal(t, token.EOF, item.Token)
}

func TestStream(t *testing.T) {
	s := NewStream(New(strings.NewReader("a + b")))
	assert.Equal(t, token.IDENT, s.Current().Token)
	assert.Equal(t, token.PLUS, s.Peek(1).Token)
	assert.Equal(t, token.EOF, s.Peek(10).Token)

	m := s.Mark()
	s.Advance()
	s.Advance()
	assert.Equal(t, "b", s.Current().Value)
	s.Reset(m)
	assert.Equal(t, "a", s.Current().Value)

	for i := 0; i < 5; i++ {
		s.Advance()
	}
	assert.Equal(t, token.EOF, s.Current().Token)
	assert.NoError(t, s.Err())
}

func TestStreamDrain(t *testing.T) {
	s := NewStream(New(strings.NewReader("a b c 'open")))
	assert.Equal(t, "a", s.Current().Value)
	assert.NoError(t, s.Err())

	err := s.Drain()
	assert.True(t, diag.IsLex(err))
	assert.Equal(t, "a", s.Current().Value)
}

func BenchmarkLexer(b *testing.B) {
	query := `SELECT event, count() AS c, properties.$browser FROM events
		WHERE timestamp > now() - INTERVAL 7 DAY AND event IN ('a', 'b')
		GROUP BY event ORDER BY c DESC LIMIT 100`
	for i := 0; i < b.N; i++ {
		if _, err := Tokenize(strings.NewReader(query)); err != nil {
			b.Fatal(err)
		}
	}
}
