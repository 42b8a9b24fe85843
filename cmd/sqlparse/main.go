// Command sqlparse parses SQL and prints the syntax tree, the canonical
// SQL text or the token stream.
//
// Usage:
//
//	sqlparse [flags] [file.sql ...]
//
// With no files it reads statements from standard input, prompting for
// them when standard input is a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/amoghmargoor/aswa/ast"
	"github.com/amoghmargoor/aswa/internal/highlight"
	"github.com/amoghmargoor/aswa/internal/logging"
	"github.com/amoghmargoor/aswa/internal/normalize"
	"github.com/amoghmargoor/aswa/internal/reader"
	"github.com/amoghmargoor/aswa/lexer"
	"github.com/amoghmargoor/aswa/parser"
	"github.com/amoghmargoor/aswa/token"
)

func main() {
	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "sqlparse: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var in *reader.Reader
	if len(cfg.Files) == 0 {
		if isTerminal(os.Stdin) {
			in = reader.NewInteractive("sql> ", cfg.History)
		} else {
			in = reader.NewNonInteractive(os.Stdin)
		}
	}

	code := run(ctx, cfg, in, os.Stdout, os.Stderr)
	stop()
	if in != nil {
		in.Close()
	}
	os.Exit(code)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

type tool struct {
	cfg    *Config
	logger *slog.Logger
	opts   []parser.Option
	stdout io.Writer
	stderr io.Writer
	sqlOut *highlight.Highlighter // canonical SQL on stdout
	errOut *highlight.Highlighter // error carets on stderr
}

// run processes cfg.Files, or the statements of in when there are no
// files, and returns the exit code.
func run(ctx context.Context, cfg *Config, in *reader.Reader, stdout, stderr io.Writer) int {
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "sqlparse: %v\n", err)
		return 2
	}

	t := &tool{
		cfg:    cfg,
		logger: logger,
		opts:   []parser.Option{parser.WithMaxDepth(cfg.MaxDepth)},
		stdout: stdout,
		stderr: stderr,
	}
	if cfg.Color {
		t.sqlOut = highlight.New(lipgloss.NewRenderer(stdout))
		t.errOut = highlight.New(lipgloss.NewRenderer(stderr))
	} else {
		t.sqlOut = highlight.New(lipgloss.NewRenderer(io.Discard))
		t.errOut = t.sqlOut
	}

	if len(cfg.Files) > 0 {
		return t.runFiles(ctx)
	}
	if in == nil {
		fmt.Fprintln(stderr, "sqlparse: no input")
		return 2
	}
	return t.runReader(ctx, in)
}

type result struct {
	sql string
	out string
	err error
}

// runFiles parses the files in parallel and prints the results in the
// order the files were given.
func (t *tool) runFiles(ctx context.Context) int {
	results := make([]result, len(t.cfg.Files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Jobs)
	for i, name := range t.cfg.Files {
		g.Go(func() error {
			data, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			results[i].sql = string(data)
			results[i].out, results[i].err = t.process(ctx, name, string(data))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(t.stderr, "sqlparse: %v\n", err)
		return 1
	}

	code := 0
	for i, res := range results {
		name := t.cfg.Files[i]
		if res.err != nil {
			fmt.Fprintf(t.stderr, "%s:\n%s\n", name, t.errOut.Error(res.sql, res.err))
			code = 1
			continue
		}
		if len(results) > 1 {
			fmt.Fprintf(t.stdout, "-- %s\n", name)
		}
		fmt.Fprint(t.stdout, res.out)
	}
	t.logger.Info("done", "files", len(results), "failed", code != 0)
	return code
}

// runReader processes statements one at a time. A failed statement is
// reported and the next one is read.
func (t *tool) runReader(ctx context.Context, in *reader.Reader) int {
	code := 0
	for {
		stmt, err := in.Next()
		switch {
		case errors.Is(err, io.EOF):
			return code
		case errors.Is(err, reader.ErrAborted):
			continue
		case err != nil:
			fmt.Fprintf(t.stderr, "sqlparse: %v\n", err)
			return 1
		}
		if ctx.Err() != nil {
			return 1
		}

		out, err := t.process(ctx, "<stdin>", stmt)
		if err != nil {
			fmt.Fprintln(t.stderr, t.errOut.Error(stmt, err))
			code = 1
			continue
		}
		fmt.Fprint(t.stdout, out)
	}
}

// process parses sql and renders it in the configured mode.
func (t *tool) process(ctx context.Context, name, sql string) (string, error) {
	logger := logging.WithFile(t.logger, name)
	if t.cfg.Mode == modeTokens {
		return tokens(sql)
	}

	opts := append(slices.Clip(t.opts), parser.WithLogger(logger))
	stmts, err := parser.ParseString(ctx, sql, opts...)
	if err != nil {
		return "", err
	}
	if t.cfg.Check {
		for i, stmt := range stmts {
			if err := t.roundTrip(stmt); err != nil {
				return "", fmt.Errorf("statement %d: %w", i+1, err)
			}
		}
	}
	if t.cfg.Diff {
		t.diff(logger, sql, stmts)
	}

	var b strings.Builder
	switch t.cfg.Mode {
	case modeExplain:
		for i, stmt := range stmts {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(parser.Explain(stmt))
		}
	case modeFormat:
		if len(stmts) > 0 {
			b.WriteString(t.sqlOut.Highlight(parser.Format(stmts)))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// roundTrip checks that the canonical text of stmt parses back to the
// same tree. Errors from the reparse are not wrapped: their positions
// refer to the canonical text, not the input.
func (t *tool) roundTrip(stmt ast.Statement) error {
	text := ast.Format(stmt)
	again, err := parser.ParseStatement(text, t.opts...)
	if err != nil {
		return fmt.Errorf("canonical text %q does not parse: %v", text, err)
	}
	if !ast.Equal(stmt, again) {
		return fmt.Errorf("canonical text %q parses to a different tree", text)
	}
	return nil
}

// diff logs the statements whose canonical text differs from the input
// beyond spelling.
func (t *tool) diff(logger *slog.Logger, sql string, stmts []ast.Statement) {
	in := reader.NewNonInteractive(strings.NewReader(sql))
	defer in.Close()
	for i, stmt := range stmts {
		text, err := in.Next()
		if err != nil {
			logger.Warn("cannot split input into statements", "error", err)
			return
		}
		canonical := ast.Format(stmt)
		if normalize.ForFormat(text) != normalize.ForFormat(canonical) {
			logger.Info("canonical text differs",
				"index", i,
				"input", normalize.Whitespace(text),
				"canonical", normalize.Whitespace(canonical),
			)
		}
	}
}

// tokens lists the tokens of sql, one per line.
func tokens(sql string) (string, error) {
	var b strings.Builder
	for it, err := range lexer.New(sql, 0).All() {
		if err != nil {
			return "", err
		}
		if it.Token == token.EOF {
			break
		}
		fmt.Fprintf(&b, "%d:%d\t%s\t%q\n", it.Pos.Line, it.Pos.Column, it.Token, it.Value)
	}
	return b.String(), nil
}
