package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/amoghmargoor/aswa/internal/logging"
	"github.com/amoghmargoor/aswa/internal/reader"
	"github.com/amoghmargoor/aswa/parser"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func testConfig(mode string, files ...string) *Config {
	return &Config{
		Mode:      mode,
		MaxDepth:  parser.DefaultMaxDepth,
		LogLevel:  logging.LevelWarn,
		LogFormat: "text",
		Jobs:      2,
		Files:     files,
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runTool(t *testing.T, cfg *Config, in *reader.Reader) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), cfg, in, &out, &errOut)
	return code, ansiRegex.ReplaceAllString(out.String(), ""), ansiRegex.ReplaceAllString(errOut.String(), "")
}

func TestFormatFile(t *testing.T) {
	path := writeFile(t, "a.sql", "select A from T where x<>1;\n-- next\nuse s")
	code, stdout, stderr := runTool(t, testConfig(modeFormat, path), nil)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	want := "select A \n from T \n where x != 1;\nuse s;\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestExplainFile(t *testing.T) {
	path := writeFile(t, "a.sql", "USE a.b")
	code, stdout, _ := runTool(t, testConfig(modeExplain, path), nil)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	want := "Use (children 1)\n QualifiedName a.b\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestTokens(t *testing.T) {
	path := writeFile(t, "a.sql", "SELECT 1")
	code, stdout, _ := runTool(t, testConfig(modeTokens, path), nil)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	want := "1:1\tSELECT\t\"SELECT\"\n1:8\tNUMBER\t\"1\"\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestFileErrors(t *testing.T) {
	good := writeFile(t, "good.sql", "SELECT 1")
	bad := writeFile(t, "bad.sql", "SELECT 1 FROM WHERE 1")
	code, stdout, stderr := runTool(t, testConfig(modeFormat, good, bad), nil)
	if code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if want := "-- " + good + "\nselect 1;\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	for _, s := range []string{bad + ":", "SELECT 1 FROM WHERE 1", "^ unexpected keyword WHERE"} {
		if !strings.Contains(stderr, s) {
			t.Errorf("stderr missing %q:\n%s", s, stderr)
		}
	}

	code, _, stderr = runTool(t, testConfig(modeFormat, filepath.Join(t.TempDir(), "missing.sql")), nil)
	if code != 1 || !strings.Contains(stderr, "reading") {
		t.Errorf("missing file: exit %d, stderr %q", code, stderr)
	}
}

func TestFilesKeepOrder(t *testing.T) {
	var files []string
	var want strings.Builder
	for i, q := range []string{"SELECT 1", "USE a", "DROP TABLE t", "DELETE FROM t", "SELECT 2"} {
		path := writeFile(t, string(rune('a'+i))+".sql", q)
		files = append(files, path)
		stmt, err := parser.ParseStatement(q)
		if err != nil {
			t.Fatal(err)
		}
		want.WriteString("-- " + path + "\n" + stmt.String() + ";\n")
	}
	code, stdout, _ := runTool(t, testConfig(modeFormat, files...), nil)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if stdout != want.String() {
		t.Errorf("stdout = %q, want %q", stdout, want.String())
	}
}

func TestReaderInput(t *testing.T) {
	in := reader.NewNonInteractive(strings.NewReader("SELECT 1;\nSELECT FROM;\nUSE a"))
	code, stdout, stderr := runTool(t, testConfig(modeFormat), in)
	if code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if want := "select 1;\nuse a;\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	if !strings.Contains(stderr, "SELECT FROM\n       ^ unexpected keyword FROM") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCheckAndDiff(t *testing.T) {
	path := writeFile(t, "a.sql", "SELECT (1);\nselect 2;")
	cfg := testConfig(modeFormat, path)
	cfg.Check = true
	cfg.Diff = true
	cfg.LogLevel = logging.LevelInfo

	code, _, stderr := runTool(t, cfg, nil)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if strings.Count(stderr, "canonical text differs") != 1 {
		t.Errorf("want one difference logged, got:\n%s", stderr)
	}
	if !strings.Contains(stderr, "index=0") {
		t.Errorf("difference should be for the first statement:\n%s", stderr)
	}
}

func TestParserOptions(t *testing.T) {
	path := writeFile(t, "a.sql", "SELECT ((((((((((1))))))))))")

	cfg := testConfig(modeFormat, path)
	cfg.MaxDepth = 8
	code, _, stderr := runTool(t, cfg, nil)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr, "maximum nesting depth 8 exceeded") {
		t.Errorf("stderr = %q", stderr)
	}

	cfg = testConfig(modeFormat, path)
	cfg.Check = true
	cfg.LogLevel = logging.LevelDebug
	code, _, stderr = runTool(t, cfg, nil)
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stderr, "parsed statement") {
		t.Errorf("parser logger not wired, stderr:\n%s", stderr)
	}
}

func TestParseConfig(t *testing.T) {
	env := map[string]string{
		"ASWA_MODE":      "explain",
		"ASWA_MAX_DEPTH": "64",
		"ASWA_COLOR":     "false",
		"ASWA_LOG_LEVEL": "debug",
	}
	getenv := func(k string) string { return env[k] }

	var stderr bytes.Buffer
	cfg, err := parseConfig([]string{"-j", "3", "a.sql", "b.sql"}, getenv, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != modeExplain || cfg.MaxDepth != 64 || cfg.Color || cfg.LogLevel != logging.LevelDebug {
		t.Errorf("env fallbacks not applied: %+v", cfg)
	}
	if cfg.Jobs != 3 || len(cfg.Files) != 2 {
		t.Errorf("flags not applied: %+v", cfg)
	}

	cfg, err = parseConfig([]string{"-mode", "tokens"}, getenv, &stderr)
	if err != nil || cfg.Mode != modeTokens {
		t.Errorf("flag should override env: %+v, %v", cfg, err)
	}

	for _, args := range [][]string{
		{"-mode", "yaml"},
		{"-max-depth", "0"},
		{"-log-level", "loud"},
	} {
		if _, err := parseConfig(args, getenv, &stderr); err == nil {
			t.Errorf("parseConfig(%q) should fail", args)
		}
	}
}
