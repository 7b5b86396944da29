// Command regenerate-explain rewrites the expected outputs of the parser
// corpus from the current parser: explain.txt holds the tree dump of
// every statement in query.sql and format.sql its canonical text.
//
// Run it from the repository root after a deliberate change to the AST,
// the printer or the tree dump, and review the diff.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmilicic/posthog/internal/normalize"
	"github.com/tmilicic/posthog/parser"
)

type testMetadata struct {
	ParseError bool `json:"parse_error,omitempty"`
}

func main() {
	testName := flag.String("test", "", "Single test directory name to process (if empty, process all)")
	dryRun := flag.Bool("dry-run", false, "Print what would change without writing")
	flag.Parse()

	testdataDir := "parser/testdata"

	if *testName != "" {
		if _, err := processTest(filepath.Join(testdataDir, *testName), *dryRun); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", *testName, err)
			os.Exit(1)
		}
		return
	}

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading testdata: %v\n", err)
		os.Exit(1)
	}

	var errors []string
	var processed, skipped, changed int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		wrote, err := processTest(filepath.Join(testdataDir, entry.Name()), *dryRun)
		switch {
		case err == errSkipped:
			skipped++
		case err != nil:
			errors = append(errors, fmt.Sprintf("%s: %v", entry.Name(), err))
		default:
			processed++
			if wrote {
				changed++
			}
		}
	}

	fmt.Printf("\nProcessed: %d, Changed: %d, Skipped: %d, Errors: %d\n", processed, changed, skipped, len(errors))
	if len(errors) > 0 {
		fmt.Fprintf(os.Stderr, "\nErrors:\n")
		for _, e := range errors {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		os.Exit(1)
	}
}

var errSkipped = fmt.Errorf("skipped")

// processTest regenerates the outputs of one test case and reports
// whether any file content changed.
func processTest(testDir string, dryRun bool) (bool, error) {
	var metadata testMetadata
	if b, err := os.ReadFile(filepath.Join(testDir, "metadata.json")); err == nil {
		if err := json.Unmarshal(b, &metadata); err != nil {
			return false, fmt.Errorf("parsing metadata.json: %w", err)
		}
	}
	if metadata.ParseError {
		return false, errSkipped
	}

	queryBytes, err := os.ReadFile(filepath.Join(testDir, "query.sql"))
	if err != nil {
		return false, fmt.Errorf("reading query.sql: %w", err)
	}
	stmts, err := parser.Parse(context.Background(), strings.NewReader(string(queryBytes)))
	if err != nil {
		return false, err
	}

	var explain strings.Builder
	for _, stmt := range stmts {
		explain.WriteString(parser.Explain(stmt))
	}
	outputs := map[string]string{
		"explain.txt": explain.String(),
		"format.sql":  parser.Format(stmts) + "\n",
	}

	changed := false
	for _, name := range []string{"explain.txt", "format.sql"} {
		path := filepath.Join(testDir, name)
		if old, err := os.ReadFile(path); err == nil && string(old) == outputs[name] {
			continue
		}
		changed = true
		if dryRun {
			fmt.Printf("  %s/%s would change (%s)\n", filepath.Base(testDir), name, truncate(string(queryBytes), 60))
			continue
		}
		if err := os.WriteFile(path, []byte(outputs[name]), 0644); err != nil {
			return false, fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("  %s/%s updated\n", filepath.Base(testDir), name)
	}
	return changed, nil
}

func truncate(s string, n int) string {
	s = normalize.Whitespace(s)
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
