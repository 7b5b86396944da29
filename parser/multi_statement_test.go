package parser_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tmilicic/posthog/parser"
)

func TestMultiStatementParsing(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected int
	}{
		{
			name:     "two selects with semicolon",
			sql:      "SELECT 1; SELECT 2;",
			expected: 2,
		},
		{
			name:     "three selects",
			sql:      "SELECT 1; SELECT 2; SELECT 3;",
			expected: 3,
		},
		{
			name:     "mixed statements",
			sql:      "SELECT 1; CREATE TABLE t (a Int32); DROP TABLE t;",
			expected: 3,
		},
		{
			name:     "no trailing semicolon",
			sql:      "SELECT 1; SELECT 2",
			expected: 2,
		},
		{
			name:     "multiple semicolons between statements",
			sql:      "SELECT 1;; SELECT 2;;; SELECT 3",
			expected: 3,
		},
		{
			name:     "newlines between statements",
			sql:      "SELECT 1;\nSELECT 2;\nSELECT 3;",
			expected: 3,
		},
		{
			name:     "single statement",
			sql:      "SELECT 1;",
			expected: 1,
		},
		{
			name:     "ddl and hogql",
			sql:      "USE analytics; DROP TABLE IF EXISTS db.events SYNC; SELECT properties.$os FROM events WHERE team_id = {team_id}",
			expected: 3,
		},
		{
			name:     "semicolon inside a string",
			sql:      "SELECT 'a;b'; SELECT 2",
			expected: 2,
		},
		{
			name:     "only semicolons",
			sql:      ";;;",
			expected: 0,
		},
		{
			name:     "complex multi-statement",
			sql:      "SELECT a, b FROM t1 WHERE x > 10; INSERT INTO t2 VALUES (1, 'hello'); SELECT * FROM t3 ORDER BY id;",
			expected: 3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			stmts, err := parser.Parse(ctx, strings.NewReader(tc.sql))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if len(stmts) != tc.expected {
				t.Errorf("Expected %d statements, got %d", tc.expected, len(stmts))
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	sqlFile := filepath.Join(tmpDir, "test.sql")

	content := `-- This is a HogQL file with multiple statements
SELECT 1;

-- A more complex query
SELECT a, b, c
FROM my_table
WHERE x > 10;

/* Create a table */
CREATE TABLE test_table (
    id UInt32,
    name String
);

-- Insert some data
INSERT INTO test_table VALUES (1, 'hello');

-- Final select
SELECT * FROM test_table ORDER BY id;
`
	if err := os.WriteFile(sqlFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	f, err := os.Open(sqlFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f.Close()

	stmts, err := parser.Parse(context.Background(), f)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(stmts) != 5 {
		t.Errorf("Expected 5 statements, got %d", len(stmts))
	}
}

func TestStatementsMustBeSeparated(t *testing.T) {
	stmts, err := parser.Parse(context.Background(), strings.NewReader("SELECT 1; SELECT 2 SELECT 3"))
	if err == nil {
		t.Fatal("Expected an error for a missing semicolon")
	}
	if len(stmts) != 2 {
		t.Errorf("Expected the 2 statements before the error, got %d", len(stmts))
	}
}
