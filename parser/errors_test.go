package parser_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/amoghmargoor/aswa/lexer"
	"github.com/amoghmargoor/aswa/parser"
	"github.com/amoghmargoor/aswa/token"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   parser.ErrorKind
		offset int
		found  token.Token
	}{
		{"missing table name", "SELECT 1 FROM WHERE 1", parser.UnexpectedToken, 14, token.WHERE},
		{"bad blob", "SELECT X'a z'", parser.LexicalError, 10, token.ILLEGAL},
		{"bad number", "SELECT 123E", parser.LexicalError, 7, token.ILLEGAL},
		{"empty select", "SELECT", parser.UnexpectedEndOfInput, 6, token.EOF},
		{"subscript of case", "SELECT CASE WHEN a THEN 1 END[1]", parser.UnexpectedToken, 29, token.LBRACKET},
		{"dereference of literal", "SELECT 1 + 'a'.b", parser.UnexpectedToken, 14, token.DOT},
		{"unknown statement", "UPDATE t", parser.UnexpectedToken, 0, token.IDENT},
		{"trailing tokens", "SELECT 1 2", parser.UnexpectedToken, 9, token.NUMBER},
		{"unclosed paren", "SELECT (1", parser.UnexpectedEndOfInput, 9, token.EOF},
		{"case without when", "SELECT CASE END", parser.UnexpectedToken, 12, token.END},
		{"nulls without position", "SELECT a FROM t ORDER BY a NULLS", parser.UnexpectedEndOfInput, 32, token.EOF},
		{"reserved alias", "SELECT a AS from", parser.UnexpectedToken, 12, token.FROM},
		{"mixed create table list", "CREATE TABLE t (a, b int)", parser.UnexpectedToken, 21, token.IDENT},
		{"interval without field", "SELECT INTERVAL '1'", parser.UnexpectedEndOfInput, 19, token.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseStatement(tt.input)
			var perr *parser.Error
			if !errors.As(err, &perr) {
				t.Fatalf("ParseStatement(%q) error = %v, want *parser.Error", tt.input, err)
			}
			if perr.Kind != tt.kind {
				t.Errorf("kind = %s, want %s (%v)", perr.Kind, tt.kind, perr)
			}
			if perr.Pos.Offset != tt.offset {
				t.Errorf("offset = %d, want %d (%v)", perr.Pos.Offset, tt.offset, perr)
			}
			if perr.Found.Token != tt.found {
				t.Errorf("found = %s, want %s", perr.Found.Token, tt.found)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	_, err := parser.ParseStatement("SELECT 1 FROM WHERE 1")
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "unexpected keyword WHERE, expected identifier at line 1, column 15"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLexicalErrorUnwrap(t *testing.T) {
	_, err := parser.ParseExpression("X'a z'")
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error %v does not wrap a *lexer.Error", err)
	}
	if lexErr.Pos.Offset != 3 {
		t.Errorf("offset = %d, want 3", lexErr.Pos.Offset)
	}
}

func TestErrorPositionOnLaterLine(t *testing.T) {
	_, err := parser.ParseStatement("SELECT a\nFROM t\nWHERE")
	var perr *parser.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v", err)
	}
	if perr.Pos.Line != 3 || perr.Pos.Column != 6 {
		t.Errorf("position = %s, want line 3, column 6", perr.Pos)
	}
}

func TestRecursionLimit(t *testing.T) {
	nested := func(n int) string {
		return strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	}

	if _, err := parser.ParseExpression(nested(20)); err != nil {
		t.Fatalf("default depth rejected 20 levels: %v", err)
	}

	tests := []struct {
		name  string
		input string
		opts  []parser.Option
	}{
		{"parentheses over a small limit", nested(20), []parser.Option{parser.WithMaxDepth(10)}},
		{"parentheses over the default", nested(10000), nil},
		{"unary chain", strings.Repeat("-", 10000) + "1", nil},
		{"nested arrays", strings.Repeat("[", 10000) + strings.Repeat("]", 10000), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseExpression(tt.input, tt.opts...)
			var perr *parser.Error
			if !errors.As(err, &perr) || perr.Kind != parser.RecursionLimitExceeded {
				t.Errorf("error = %v, want RecursionLimitExceeded", err)
			}
		})
	}

	_, err := parser.ParseType(strings.Repeat("array<", 1000)+"int"+strings.Repeat(">", 1000), parser.WithMaxDepth(100))
	var perr *parser.Error
	if !errors.As(err, &perr) || perr.Kind != parser.RecursionLimitExceeded {
		t.Errorf("nested types: error = %v, want RecursionLimitExceeded", err)
	}

	_, err = parser.ParseStatement(strings.Repeat("(", 1000)+"SELECT 1"+strings.Repeat(")", 1000), parser.WithMaxDepth(100))
	if !errors.As(err, &perr) || perr.Kind != parser.RecursionLimitExceeded {
		t.Errorf("nested queries: error = %v, want RecursionLimitExceeded", err)
	}
}

func TestLoggerReceivesDebugRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := parser.ParseString(context.Background(), "SELECT 1; USE a", parser.WithLogger(logger)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "parsed statement") != 2 {
		t.Errorf("want two parsed statement records, got:\n%s", out)
	}
	if !strings.Contains(out, "kind=Use") {
		t.Errorf("missing kind=Use in:\n%s", out)
	}

	buf.Reset()
	if _, err := parser.ParseStatement("SELECT", parser.WithLogger(logger)); err == nil {
		t.Fatal("expected an error")
	}
	out = buf.String()
	if !strings.Contains(out, "parse statement failed") || !strings.Contains(out, "kind=UnexpectedEndOfInput") {
		t.Errorf("unexpected log output:\n%s", out)
	}
}
