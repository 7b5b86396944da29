package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmilicic/posthog/lexer"
)

func TestWhitespace(t *testing.T) {
	assert.Equal(t, "SELECT a FROM t", Whitespace("  SELECT\ta\n  FROM   t \n"))
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"literals", "select  a, b FROM events where x = 1 and y = 'abc'", "SELECT a, b FROM events WHERE x = ? AND y = ?"},
		{"in list", "SELECT count() FROM t WHERE id IN (1, 2, 3)", "SELECT count() FROM t WHERE id IN (?)"},
		{"values", "INSERT INTO t VALUES (1, 'a'), (2, 'b');", "INSERT INTO t VALUES (?)"},
		{"keyword alias", "SELECT a FROM t ORDER BY a DESCENDING", "SELECT a FROM t ORDER BY a DESC"},
		{"comments", "SELECT /* hi */ 1 -- trailing", "SELECT ?"},
		{"array access", "SELECT arr[1], x::String FROM t", "SELECT arr[?], x::String FROM t"},
		{"quoted identifier", "SELECT `my col` FROM t", "SELECT `my col` FROM t"},
		{"booleans", "SELECT true, false, NULL", "SELECT ?, ?, NULL"},
		{"soft keywords as names", "select timestamp, events.id from events order by timestamp desc nulls first",
			"SELECT timestamp, events.id FROM events ORDER BY timestamp DESC NULLS FIRST"},
		{"soft keyword alias", "SELECT count() AS Total FROM t", "SELECT count() AS Total FROM t"},
		{"unparsed tail", "SELECT 1 FROM WHERE events", "SELECT ? FROM WHERE events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fingerprint(tt.in, lexer.DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFingerprintEquivalence(t *testing.T) {
	a, err := Fingerprint("SELECT event FROM events WHERE timestamp > '2024-01-01' LIMIT 10", lexer.DefaultConfig())
	require.NoError(t, err)
	b, err := Fingerprint("select event\nfrom events\nwhere timestamp > '2023-06-30'\nlimit 500", lexer.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, Hash(a), Hash(b))
	assert.Len(t, Hash(a), 16)
}

func TestFingerprintKeepsNameSpelling(t *testing.T) {
	lower, err := Fingerprint("SELECT id FROM events", lexer.DefaultConfig())
	require.NoError(t, err)
	upper, err := Fingerprint("SELECT ID FROM EVENTS", lexer.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "SELECT id FROM events", lower)
	assert.Equal(t, "SELECT ID FROM EVENTS", upper)
	assert.NotEqual(t, Hash(lower), Hash(upper))
}

func TestFingerprintLexError(t *testing.T) {
	_, err := Fingerprint("SELECT 'abc", lexer.DefaultConfig())
	assert.Error(t, err)
}
