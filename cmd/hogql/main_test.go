package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with stdin and returns what it wrote.
func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCommand()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestFmt(t *testing.T) {
	out, _, err := run(t, "select a, b from events where x = 1 order by a", "fmt")
	require.NoError(t, err)
	assert.Equal(t, "SELECT a, b FROM events WHERE (x = 1) ORDER BY a ASC;\n", out)
}

func TestFmtExpr(t *testing.T) {
	out, _, err := run(t, "1 + 2 * 3", "fmt", "--expr")
	require.NoError(t, err)
	assert.Equal(t, "(1 + (2 * 3))\n", out)
}

func TestFmtWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("select 1"), 0o644))

	out, _, err := run(t, "", "fmt", "-w", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\n", string(got))
}

func TestParseReportsAllErrors(t *testing.T) {
	out, errOut, err := run(t, "SELECT 1; SELECT FROM; SELECT 2; SELECT (", "parse")
	require.ErrorIs(t, err, errRejected)
	assert.Equal(t, "<stdin>: 2 statements, 2 errors\n", out)
	assert.Contains(t, errOut, "ParseError")
	assert.Contains(t, errOut, "^")
}

func TestParseManyFiles(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i, q := range []string{"SELECT 1", "SELECT 2; SELECT 3", "SELECT 4"} {
		path := filepath.Join(dir, string(rune('a'+i))+".sql")
		require.NoError(t, os.WriteFile(path, []byte(q), 0o644))
		files = append(files, path)
	}

	out, _, err := run(t, "", append([]string{"parse", "-j", "2"}, files...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, files[1]+": 2 statements, 0 errors", lines[1])
}

func TestExplainExpr(t *testing.T) {
	out, _, err := run(t, "-x", "explain", "--expr")
	require.NoError(t, err)
	assert.Equal(t, "UnaryExpr - (children 1)\n Field x\n", out)
}

func TestTokens(t *testing.T) {
	out, _, err := run(t, "SELECT a", "tokens")
	require.NoError(t, err)
	for _, want := range []string{"POS", "TOKEN", "RAW", "SELECT", "IDENT", `"a"`, "EOF"} {
		assert.Contains(t, out, want)
	}
}

func TestTokensLexError(t *testing.T) {
	_, errOut, err := run(t, "SELECT 'abc", "tokens")
	require.ErrorIs(t, err, errRejected)
	assert.Contains(t, errOut, "LexError")
}

func TestFingerprint(t *testing.T) {
	out, _, err := run(t, "select * from t where a = 'x'", "fingerprint")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "  SELECT * FROM t WHERE a = ?\n"), out)
}

func TestMissingFile(t *testing.T) {
	_, _, err := run(t, "", "parse", filepath.Join(t.TempDir(), "nope.sql"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errRejected)
}
