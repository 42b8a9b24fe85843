package normalize

import "testing"

func TestWhitespace(t *testing.T) {
	if got := Whitespace("  select\n\t a  from t \n"); got != "select a from t" {
		t.Errorf("got %q", got)
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"select 1 -- one\nfrom t", "select 1 \nfrom t"},
		{"select /* a */ 1", "select   1"},
		{"select '-- not a comment'", "select '-- not a comment'"},
		{`select "/* col */" from t`, `select "/* col */" from t`},
		{"select 'it''s' -- x", "select 'it''s' "},
		{"select 1 /* unterminated", "select 1 "},
	}
	for _, tt := range tests {
		if got := StripComments(tt.input); got != tt.want {
			t.Errorf("StripComments(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLowerOutsideQuotes(t *testing.T) {
	got := LowerOutsideQuotes(`SELECT "MixedCase", 'KEEP', Ünïcode FROM T`)
	want := `select "MixedCase", 'KEEP', ünïcode from t`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		canon string
	}{
		{
			name:  "keyword case and spacing",
			input: "SELECT a,b FROM t WHERE a<>1;",
			canon: "select a, b \n from t \n where a != 1",
		},
		{
			name:  "default set quantifier",
			input: "select 1 union select 2",
			canon: "select 1 \n union distinct \n select 2",
		},
		{
			name:  "ascending order",
			input: "SELECT a FROM t ORDER BY a ASC",
			canon: "select a \n from t \n order by a",
		},
		{
			name:  "comments and backticks",
			input: "select `x` -- pick x\n from t /* done */",
			canon: `select "x" from t`,
		},
		{
			name:  "array and blob spelling",
			input: "SELECT ARRAY [1, 2], x'0A'",
			canon: "select array[1, 2], X'0a'",
		},
		{
			name:  "unary spacing",
			input: "select -1, a==b",
			canon: "select - 1, a = b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := ForFormat(tt.input), ForFormat(tt.canon)
			if a != b {
				t.Errorf("ForFormat mismatch:\n  %q\n  %q", a, b)
			}
		})
	}

	if ForFormat("select 'A'") == ForFormat("select 'a'") {
		t.Error("string literal case must be preserved")
	}
	if ForFormat("select a + b") == ForFormat("select a - b") {
		t.Error("different operators must not compare equal")
	}
}
