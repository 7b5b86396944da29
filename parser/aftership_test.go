package parser_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	aftership "github.com/AfterShip/clickhouse-sql-parser/parser"
	"github.com/stretchr/testify/assert"

	"github.com/tmilicic/posthog/parser"
)

// tryParseWithAfterShip attempts to parse a query with AfterShip parser, recovering from panics.
func tryParseWithAfterShip(query string) (stmts []aftership.Expr, parseErr error, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			parseErr = nil
			stmts = nil
		}
	}()
	p := aftership.NewParser(query)
	stmts, parseErr = p.ParseStmts()
	return stmts, parseErr, false
}

// TestAfterShipAgrees checks plain ClickHouse SQL, which both parsers
// must accept with the same number of statements.
func TestAfterShipAgrees(t *testing.T) {
	queries := []string{
		"SELECT a, b FROM t WHERE x = 1 ORDER BY a DESC LIMIT 10",
		"SELECT count() FROM events GROUP BY event",
		"SELECT 1; SELECT 2",
		"SELECT a FROM t1 LEFT JOIN t2 ON t1.id = t2.id",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			theirs, err, panicked := tryParseWithAfterShip(q)
			assert.False(t, panicked)
			assert.NoError(t, err)

			ours, err := parser.Parse(context.Background(), strings.NewReader(q))
			assert.NoError(t, err)
			assert.Len(t, ours, len(theirs))
		})
	}
}

// TestAfterShipParserSummary reports how much of the testdata corpus the
// AfterShip/clickhouse-sql-parser accepts. HogQL extends ClickHouse SQL
// with placeholders, property access and other syntax, so rejections are
// logged, not failed.
// Use with: go test ./parser -run TestAfterShipParserSummary -v
func TestAfterShipParserSummary(t *testing.T) {
	testdataDir := "testdata"

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("Failed to read testdata directory: %v", err)
	}

	var passed, failed, skipped, panics int
	var failedQueries []struct {
		name string
		err  string
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		testDir := filepath.Join(testdataDir, entry.Name())

		var metadata testMetadata
		if metadataBytes, err := os.ReadFile(filepath.Join(testDir, "metadata.json")); err == nil {
			if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
				t.Fatalf("Failed to parse metadata.json: %v", err)
			}
		}
		if metadata.ParseError {
			skipped++
			continue
		}

		queryBytes, err := os.ReadFile(filepath.Join(testDir, "query.sql"))
		if err != nil {
			t.Fatalf("Failed to read query.sql: %v", err)
		}

		stmts, parseErr, panicked := tryParseWithAfterShip(string(queryBytes))
		switch {
		case panicked:
			panics++
			failed++
			failedQueries = append(failedQueries, struct {
				name string
				err  string
			}{entry.Name(), "PANIC: parser crashed"})
		case parseErr != nil || len(stmts) == 0:
			failed++
			errMsg := "no statements returned"
			if parseErr != nil {
				errMsg = parseErr.Error()
			}
			failedQueries = append(failedQueries, struct {
				name string
				err  string
			}{entry.Name(), errMsg})
		default:
			passed++
		}
	}

	t.Logf("AfterShip/clickhouse-sql-parser: passed %d, failed %d (%d panics), skipped %d",
		passed, failed, panics, skipped)
	for i, fq := range failedQueries {
		if i >= 20 {
			t.Logf("  ... and %d more", len(failedQueries)-20)
			break
		}
		t.Logf("  %s: %s", fq.name, truncate(fq.err, 120))
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
