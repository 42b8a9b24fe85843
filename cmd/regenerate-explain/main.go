// Command regenerate-explain rewrites parser/testdata/*/explain.txt from
// the current parser.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amoghmargoor/aswa/ast"
	"github.com/amoghmargoor/aswa/parser"
)

var errSkipped = errors.New("skipped")

type metadata struct {
	Skip       bool `json:"skip,omitempty"`
	ParseError bool `json:"parse_error,omitempty"`
}

func main() {
	testName := flag.String("test", "", "Single test directory name to process (if empty, process all)")
	testdataDir := flag.String("dir", "parser/testdata", "Testdata directory")
	dryRun := flag.Bool("dry-run", false, "Print explain output without writing files")
	flag.Parse()

	if *testName != "" {
		// Process single test
		if err := processTest(filepath.Join(*testdataDir, *testName), *dryRun); err != nil && !errors.Is(err, errSkipped) {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", *testName, err)
			os.Exit(1)
		}
		return
	}

	entries, err := os.ReadDir(*testdataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading testdata: %v\n", err)
		os.Exit(1)
	}

	var failures []string
	var processed, skipped int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		err := processTest(filepath.Join(*testdataDir, entry.Name()), *dryRun)
		switch {
		case errors.Is(err, errSkipped):
			skipped++
		case err != nil:
			failures = append(failures, fmt.Sprintf("%s: %v", entry.Name(), err))
		default:
			processed++
		}
	}

	fmt.Printf("\nProcessed: %d, Skipped: %d, Errors: %d\n", processed, skipped, len(failures))
	if len(failures) > 0 {
		fmt.Fprintf(os.Stderr, "\nErrors:\n")
		for _, e := range failures {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		os.Exit(1)
	}
}

func processTest(testDir string, dryRun bool) error {
	var meta metadata
	if data, err := os.ReadFile(filepath.Join(testDir, "metadata.json")); err == nil {
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("parsing metadata.json: %w", err)
		}
	}
	if meta.Skip || meta.ParseError {
		return errSkipped
	}

	queryBytes, err := os.ReadFile(filepath.Join(testDir, "query.sql"))
	if err != nil {
		return fmt.Errorf("reading query.sql: %w", err)
	}

	stmt, err := parser.ParseStatement(strings.TrimSpace(string(queryBytes)))
	if err != nil {
		return err
	}
	explain := ast.Explain(stmt)

	if dryRun {
		fmt.Printf("== %s\n%s", filepath.Base(testDir), explain)
		return nil
	}

	outputPath := filepath.Join(testDir, "explain.txt")
	if old, err := os.ReadFile(outputPath); err == nil && string(old) == explain {
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(explain), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	fmt.Printf("  %s -> %s\n", filepath.Base(testDir), filepath.Base(outputPath))
	return nil
}
