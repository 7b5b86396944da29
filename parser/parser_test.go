package parser_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmilicic/posthog/diag"
	"github.com/tmilicic/posthog/parser"
)

// testMetadata holds optional metadata for a test case
type testMetadata struct {
	ParseError bool `json:"parse_error,omitempty"`
}

// TestParser runs the cases under testdata. Each subdirectory holds:
//   - query.sql: the statements to parse
//   - explain.txt: the expected tree dump of every statement
//   - format.sql: the expected canonical text
//   - metadata.json (optional): parse_error marks input that must be rejected
//
// Regenerate the expectations with cmd/regenerate-explain.
func TestParser(t *testing.T) {
	testdataDir := "testdata"

	entries, err := os.ReadDir(testdataDir)
	require.NoError(t, err)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		testName := entry.Name()
		testDir := filepath.Join(testdataDir, testName)

		t.Run(testName, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			query, err := os.ReadFile(filepath.Join(testDir, "query.sql"))
			require.NoError(t, err)

			var metadata testMetadata
			if metadataBytes, err := os.ReadFile(filepath.Join(testDir, "metadata.json")); err == nil {
				require.NoError(t, json.Unmarshal(metadataBytes, &metadata))
			}

			stmts, err := parser.Parse(ctx, strings.NewReader(string(query)))
			if metadata.ParseError {
				require.Error(t, err, "query should have been rejected")
				var derr *diag.Error
				require.True(t, errors.As(err, &derr), "error %T is not a diagnostic", err)
				assert.LessOrEqual(t, derr.Pos.Offset, len(query), "error position is outside the query")
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, stmts)

			var explained strings.Builder
			for _, stmt := range stmts {
				explained.WriteString(parser.Explain(stmt))
			}
			wantExplain, err := os.ReadFile(filepath.Join(testDir, "explain.txt"))
			require.NoError(t, err)
			if diff := cmp.Diff(string(wantExplain), explained.String()); diff != "" {
				t.Errorf("explain mismatch (-want +got):\n%s", diff)
			}

			formatted := parser.Format(stmts)
			wantFormat, err := os.ReadFile(filepath.Join(testDir, "format.sql"))
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSuffix(string(wantFormat), "\n"), formatted)

			// The canonical text must parse back to the same trees.
			reparsed, err := parser.Parse(ctx, strings.NewReader(formatted))
			require.NoError(t, err, "formatted query: %s", formatted)
			if diff := cmp.Diff(stmts, reparsed, astOptions...); diff != "" {
				t.Errorf("round trip mismatch (-parsed +reparsed):\n%s", diff)
			}

			_, err = json.Marshal(stmts)
			require.NoError(t, err)
		})
	}
}

func TestParseTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stmts, err := parser.Parse(ctx, strings.NewReader("SELECT 1; SELECT 2"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stmts)
}

// BenchmarkParser benchmarks the parser performance using a complex query
func BenchmarkParser(b *testing.B) {
	query := `
		SELECT
			e.event,
			p.properties.$email AS email,
			count() AS c,
			quantile(0.95)(e.duration) AS p95
		FROM events e
		LEFT JOIN persons p ON e.person_id = p.id
		WHERE e.team_id = {team_id} AND e.timestamp > now() - INTERVAL 7 DAY
		GROUP BY e.event, email
		HAVING count() > 0
		ORDER BY c DESC NULLS LAST
		LIMIT 100
	`

	ctx := context.Background()
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, err := parser.Parse(ctx, strings.NewReader(query))
		if err != nil {
			b.Fatal(err)
		}
	}
}
