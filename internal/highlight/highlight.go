// Package highlight renders SQL with terminal colors and points at the
// position of parse errors.
package highlight

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amoghmargoor/aswa/lexer"
	"github.com/amoghmargoor/aswa/parser"
	"github.com/amoghmargoor/aswa/token"
)

// Highlighter styles SQL text token by token. Text between tokens is
// copied unchanged, so the output has the same layout as the input.
type Highlighter struct {
	keywordStyle  lipgloss.Style
	functionStyle lipgloss.Style
	stringStyle   lipgloss.Style
	numberStyle   lipgloss.Style
	operatorStyle lipgloss.Style
	commentStyle  lipgloss.Style
	errorStyle    lipgloss.Style
	plainStyle    lipgloss.Style
}

// New returns a Highlighter whose styles render through r. A renderer
// writing to something other than a terminal produces plain text.
func New(r *lipgloss.Renderer) *Highlighter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Highlighter{
		keywordStyle: base.
			Foreground(lipgloss.Color("#FF79C6")).
			Bold(true),
		functionStyle: base.
			Foreground(lipgloss.Color("#8BE9FD")),
		stringStyle: base.
			Foreground(lipgloss.Color("#F1FA8C")),
		numberStyle: base.
			Foreground(lipgloss.Color("#BD93F9")),
		operatorStyle: base.
			Foreground(lipgloss.Color("#FFB86C")),
		commentStyle: base.
			Foreground(lipgloss.Color("#6272A4")).
			Italic(true),
		errorStyle: base.
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true),
		plainStyle: base,
	}
}

// Highlight returns sql with every token styled. Input after a lexical
// error is rendered in the error style.
func (h *Highlighter) Highlight(sql string) string {
	var items []lexer.Item
	tail := len(sql)
	for it, err := range lexer.New(sql, 0).All() {
		if err != nil {
			var lexErr *lexer.Error
			if errors.As(err, &lexErr) {
				tail = lexErr.Pos.Offset
			}
			break
		}
		if it.Token == token.EOF {
			break
		}
		items = append(items, it)
	}

	var b strings.Builder
	last := 0
	for i, it := range items {
		b.WriteString(sql[last:it.Pos.Offset])
		// An identifier followed by ( names a function.
		fn := i+1 < len(items) && items[i+1].Token == token.LPAREN
		b.WriteString(render(h.style(it.Token, fn), sql[it.Pos.Offset:it.End.Offset]))
		last = it.End.Offset
	}
	if last < tail {
		b.WriteString(sql[last:tail])
	}
	if tail < len(sql) {
		b.WriteString(render(h.errorStyle, sql[tail:]))
	}
	return b.String()
}

// render styles s one line at a time so that multi-line tokens keep their
// layout.
func render(st lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = st.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

func (h *Highlighter) style(tok token.Token, fn bool) lipgloss.Style {
	switch {
	case tok == token.COMMENT:
		return h.commentStyle
	case tok == token.STRING || tok == token.BLOB:
		return h.stringStyle
	case tok == token.NUMBER:
		return h.numberStyle
	case fn && (tok == token.IDENT || (tok.IsKeyword() && !tok.IsReserved())):
		return h.functionStyle
	case tok.IsKeyword():
		return h.keywordStyle
	case tok == token.IDENT:
		return h.plainStyle
	}
	return h.operatorStyle
}

// Error renders err against the input it came from: the offending line,
// a caret under the error column and the message. Errors without a
// position are rendered as their message.
func (h *Highlighter) Error(sql string, err error) string {
	var pos token.Position
	var perr *parser.Error
	var lexErr *lexer.Error
	switch {
	case errors.As(err, &perr):
		pos = perr.Pos
	case errors.As(err, &lexErr):
		pos = lexErr.Pos
	default:
		return h.errorStyle.Render(err.Error())
	}

	lines := strings.Split(sql, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return h.errorStyle.Render(err.Error())
	}
	line := lines[pos.Line-1]

	var b strings.Builder
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(padding(line, pos.Column-1))
	b.WriteString(h.errorStyle.Render("^ " + err.Error()))
	return b.String()
}

// padding returns n columns of blank space under line, keeping tabs so the
// caret lines up with the text above it.
func padding(line string, n int) string {
	var b strings.Builder
	for _, r := range line {
		if n == 0 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		n--
	}
	b.WriteString(strings.Repeat(" ", n))
	return b.String()
}
