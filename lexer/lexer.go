// Package lexer implements a lexer for the SQL dialect.
package lexer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/amoghmargoor/aswa/token"
)

// Lexer tokenizes SQL input.
type Lexer struct {
	input string
	ch    rune // current character
	width int  // byte width of ch
	pos   token.Position
	err   *Error
}

// Item represents a lexical token with its value and source span.
type Item struct {
	Token  token.Token
	Value  string
	Pos    token.Position // first byte of the token
	End    token.Position // first byte after the token
	Quoted bool           // true if this identifier was quoted
}

// Error is a lexical error. Once the lexer returns an Error it keeps
// returning it.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s", e.Msg, e.Pos)
}

// New creates a new Lexer that starts scanning input at the given byte
// offset. Line and column numbers are computed relative to the start of
// input, so positions of a restarted lexer match those of a full scan.
func New(input string, offset int) *Lexer {
	if offset < 0 {
		offset = 0
	}
	if offset > len(input) {
		offset = len(input)
	}
	l := &Lexer{
		input: input,
		pos:   token.Position{Offset: 0, Line: 1, Column: 1},
	}
	for _, r := range input[:offset] {
		if r == '\n' {
			l.pos.Line++
			l.pos.Column = 1
		} else {
			l.pos.Column++
		}
	}
	l.pos.Offset = offset
	l.decode()
	return l
}

func (l *Lexer) decode() {
	if l.atEOF() {
		l.ch = 0
		l.width = 0
		return
	}
	l.ch, l.width = utf8.DecodeRuneInString(l.input[l.pos.Offset:])
}

func (l *Lexer) atEOF() bool {
	return l.pos.Offset >= len(l.input)
}

func (l *Lexer) readChar() {
	if l.atEOF() {
		return
	}
	if l.ch == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	l.pos.Offset += l.width
	l.decode()
}

func (l *Lexer) peekChar() rune {
	next := l.pos.Offset + l.width
	if next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:])
	return r
}

func (l *Lexer) skipWhitespace() {
	// Skip whitespace and BOM (byte order mark U+FEFF)
	for !l.atEOF() && (unicode.IsSpace(l.ch) || l.ch == '\uFEFF') {
		l.readChar()
	}
}

// item builds an Item whose value is the raw source text from pos to the
// current position.
func (l *Lexer) item(tok token.Token, pos token.Position) Item {
	return Item{Token: tok, Value: l.input[pos.Offset:l.pos.Offset], Pos: pos, End: l.pos}
}

func (l *Lexer) errorf(pos token.Position, format string, args ...any) (Item, error) {
	l.err = &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	return Item{Token: token.ILLEGAL, Value: l.input[pos.Offset:l.pos.Offset], Pos: pos, End: l.pos}, l.err
}

// NextToken returns the next token from the input. At the end of input it
// returns an EOF item; on malformed input it returns an ILLEGAL item and
// an *Error.
func (l *Lexer) NextToken() (Item, error) {
	if l.err != nil {
		return Item{Token: token.ILLEGAL, Pos: l.err.Pos, End: l.err.Pos}, l.err
	}

	l.skipWhitespace()

	pos := l.pos

	if l.atEOF() {
		return Item{Token: token.EOF, Pos: pos, End: pos}, nil
	}

	// Handle comments
	if l.ch == '-' && l.peekChar() == '-' {
		return l.readLineComment(), nil
	}
	if l.ch == '/' && l.peekChar() == '*' {
		return l.readBlockComment()
	}

	switch l.ch {
	case '+':
		l.readChar()
		return l.item(token.PLUS, pos), nil
	case '-':
		l.readChar()
		return l.item(token.MINUS, pos), nil
	case '*':
		l.readChar()
		return l.item(token.ASTERISK, pos), nil
	case '/':
		l.readChar()
		return l.item(token.SLASH, pos), nil
	case '%':
		l.readChar()
		return l.item(token.PERCENT, pos), nil
	case '=':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
		}
		return l.item(token.EQ, pos), nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.item(token.NEQ, pos), nil
		}
		return l.errorf(pos, "unexpected character %q", l.ch)
	case '<':
		l.readChar()
		switch l.ch {
		case '=':
			l.readChar()
			return l.item(token.LTE, pos), nil
		case '>':
			l.readChar()
			return l.item(token.NEQ, pos), nil
		case '<':
			l.readChar()
			return l.item(token.LSHIFT, pos), nil
		}
		return l.item(token.LT, pos), nil
	case '>':
		l.readChar()
		switch l.ch {
		case '=':
			l.readChar()
			return l.item(token.GTE, pos), nil
		case '>':
			l.readChar()
			return l.item(token.RSHIFT, pos), nil
		}
		return l.item(token.GT, pos), nil
	case '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
			return l.item(token.CONCAT, pos), nil
		}
		return l.item(token.PIPE, pos), nil
	case '&':
		l.readChar()
		return l.item(token.AMPERSAND, pos), nil
	case '~':
		l.readChar()
		return l.item(token.TILDE, pos), nil
	case '(':
		l.readChar()
		return l.item(token.LPAREN, pos), nil
	case ')':
		l.readChar()
		return l.item(token.RPAREN, pos), nil
	case '[':
		l.readChar()
		return l.item(token.LBRACKET, pos), nil
	case ']':
		l.readChar()
		return l.item(token.RBRACKET, pos), nil
	case ',':
		l.readChar()
		return l.item(token.COMMA, pos), nil
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		l.readChar()
		return l.item(token.DOT, pos), nil
	case ';':
		l.readChar()
		return l.item(token.SEMICOLON, pos), nil
	case '\'':
		return l.readString()
	case '"':
		return l.readQuotedIdentifier('"')
	case '`':
		return l.readQuotedIdentifier('`')
	default:
		if isDigit(l.ch) {
			return l.readNumber()
		}
		if isIdentStart(l.ch) {
			return l.readIdentifier()
		}
		return l.errorf(pos, "unexpected character %q", l.ch)
	}
}

func (l *Lexer) readLineComment() Item {
	pos := l.pos
	for !l.atEOF() && l.ch != '\n' {
		l.readChar()
	}
	return l.item(token.COMMENT, pos)
}

func (l *Lexer) readBlockComment() (Item, error) {
	pos := l.pos
	// Skip /*
	l.readChar()
	l.readChar()

	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return l.item(token.COMMENT, pos), nil
		}
		l.readChar()
	}
	return l.errorf(pos, "unterminated comment")
}

func (l *Lexer) readString() (Item, error) {
	pos := l.pos
	var sb strings.Builder
	l.readChar() // skip opening quote

	for !l.atEOF() {
		if l.ch == '\'' {
			// '' is an escaped quote
			if l.peekChar() == '\'' {
				sb.WriteRune('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return Item{Token: token.STRING, Value: sb.String(), Pos: pos, End: l.pos}, nil
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return l.errorf(pos, "unterminated string literal")
}

// readBlob reads the body of an X'..' literal. The current character is the
// opening quote.
func (l *Lexer) readBlob(pos token.Position) (Item, error) {
	l.readChar() // skip opening quote
	start := l.pos.Offset

	for !l.atEOF() {
		if l.ch == '\'' {
			digits := l.input[start:l.pos.Offset]
			l.readChar() // skip closing quote
			if len(digits)%2 != 0 {
				return l.errorf(pos, "odd number of hex digits in blob literal")
			}
			return Item{Token: token.BLOB, Value: digits, Pos: pos, End: l.pos}, nil
		}
		if !isHexDigit(l.ch) {
			return l.errorf(l.pos, "invalid hex digit %q in blob literal", l.ch)
		}
		l.readChar()
	}
	return l.errorf(pos, "unterminated blob literal")
}

func (l *Lexer) readQuotedIdentifier(quote rune) (Item, error) {
	pos := l.pos
	var sb strings.Builder
	l.readChar() // skip opening quote

	for !l.atEOF() {
		if l.ch == quote {
			// A doubled quote is an escaped quote
			if l.peekChar() == quote {
				sb.WriteRune(quote)
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			if sb.Len() == 0 {
				return l.errorf(pos, "zero-length delimited identifier")
			}
			return Item{Token: token.IDENT, Value: sb.String(), Pos: pos, End: l.pos, Quoted: true}, nil
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return l.errorf(pos, "unterminated quoted identifier")
}

func (l *Lexer) readNumber() (Item, error) {
	pos := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	// Decimal point: 1.5, .5 and a bare trailing 1.
	if l.ch == '.' {
		next := l.peekChar()
		if isDigit(next) || (!isIdentStart(next) && next != '.') || l.pos.Offset == pos.Offset || l.exponentAfterDot() {
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	// Exponent: 123E7, .4E-42
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			return l.errorf(pos, "malformed number %q: missing exponent digits", l.input[pos.Offset:l.pos.Offset])
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if isIdentChar(l.ch) {
		return l.errorf(pos, "malformed number: unexpected %q after %q", l.ch, l.input[pos.Offset:l.pos.Offset])
	}

	return l.item(token.NUMBER, pos), nil
}

// exponentAfterDot reports whether the '.' under the cursor is followed by
// an exponent, as in 1.e5 or 1.E-3.
func (l *Lexer) exponentAfterDot() bool {
	rest := l.input[l.pos.Offset+1:]
	if len(rest) < 2 || (rest[0] != 'e' && rest[0] != 'E') {
		return false
	}
	c := rest[1]
	return c == '+' || c == '-' || isDigit(rune(c))
}

func (l *Lexer) readIdentifier() (Item, error) {
	pos := l.pos

	// Check for hex blob literal: x'...' or X'...'
	if (l.ch == 'x' || l.ch == 'X') && l.peekChar() == '\'' {
		l.readChar() // skip x
		return l.readBlob(pos)
	}

	for isIdentChar(l.ch) {
		l.readChar()
	}

	it := l.item(token.IDENT, pos)
	it.Token = token.Lookup(strings.ToUpper(it.Value))
	return it, nil
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentChar(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

// All returns the remaining tokens as a lazy sequence. The sequence ends
// after the EOF item or after the first error.
func (l *Lexer) All() iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		for {
			item, err := l.NextToken()
			if !yield(item, err) || err != nil || item.Token == token.EOF {
				return
			}
		}
	}
}

// Tokenize returns all tokens of input, including comments and the final
// EOF item.
func Tokenize(input string) ([]Item, error) {
	var items []Item
	for item, err := range New(input, 0).All() {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
