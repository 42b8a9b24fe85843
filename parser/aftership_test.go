package parser_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	aftership "github.com/AfterShip/clickhouse-sql-parser/parser"

	"github.com/amoghmargoor/aswa/parser"
)

// tryParseWithAfterShip parses a query with the AfterShip parser,
// recovering from panics.
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

// TestAfterShipAgreement checks queries in the subset shared with the
// ClickHouse grammar: both parsers must accept them.
func TestAfterShipAgreement(t *testing.T) {
	queries := []string{
		"SELECT a FROM foo",
		"SELECT a, b FROM t WHERE a > 1 AND b < 2",
		"SELECT count(*) FROM t GROUP BY a HAVING count(*) > 1",
		"SELECT a FROM t ORDER BY a DESC LIMIT 10",
		"SELECT a FROM t UNION ALL SELECT b FROM u",
		"DROP TABLE IF EXISTS t",
		"SELECT CASE WHEN a = 1 THEN 'one' ELSE 'other' END FROM t",
	}
	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			if _, err := parser.ParseStatement(q); err != nil {
				t.Errorf("parser rejected %q: %v", q, err)
			}
			stmts, err, panicked := tryParseWithAfterShip(q)
			if panicked || err != nil || len(stmts) == 0 {
				t.Errorf("AfterShip rejected %q: err=%v panicked=%v", q, err, panicked)
			}
		})
	}
}

// TestAfterShipParserSummary reports how many of the valid testdata
// queries the AfterShip parser also accepts. The dialects differ, so
// disagreement is logged rather than failed.
// Use with: go test ./parser -run TestAfterShipParserSummary -v
func TestAfterShipParserSummary(t *testing.T) {
	testdataDir := "testdata"

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("Failed to read testdata directory: %v", err)
	}

	var passed, failed, skipped, panics int
	var failedTests []string

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		testDir := filepath.Join(testdataDir, entry.Name())

		var metadata testMetadata
		if metadataBytes, err := os.ReadFile(filepath.Join(testDir, "metadata.json")); err == nil {
			if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
				t.Fatalf("%s: failed to parse metadata.json: %v", entry.Name(), err)
			}
		}
		if metadata.Skip || metadata.ParseError {
			skipped++
			continue
		}

		queryBytes, err := os.ReadFile(filepath.Join(testDir, "query.sql"))
		if err != nil {
			t.Fatalf("%s: failed to read query.sql: %v", entry.Name(), err)
		}
		query := strings.TrimSpace(string(queryBytes))

		stmts, parseErr, panicked := tryParseWithAfterShip(query)
		switch {
		case panicked:
			panics++
			failed++
			failedTests = append(failedTests, entry.Name()+": PANIC")
		case parseErr != nil || len(stmts) == 0:
			failed++
			failedTests = append(failedTests, entry.Name())
		default:
			passed++
		}
	}

	t.Logf("=== AfterShip Parser Results ===")
	t.Logf("Passed:  %d", passed)
	t.Logf("Failed:  %d (includes %d panics)", failed, panics)
	t.Logf("Skipped: %d", skipped)
	for _, name := range failedTests {
		t.Logf("  - %s", name)
	}
}
