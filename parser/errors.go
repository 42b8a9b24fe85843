package parser

import (
	"fmt"
	"strings"

	"github.com/amoghmargoor/aswa/lexer"
	"github.com/amoghmargoor/aswa/token"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// LexicalError is a malformed token. Err holds the *lexer.Error.
	LexicalError ErrorKind = iota + 1
	// UnexpectedToken is a well-formed token the grammar does not allow
	// at its position.
	UnexpectedToken
	// UnexpectedEndOfInput means the input ended inside a construct.
	UnexpectedEndOfInput
	// RecursionLimitExceeded means the input nests deeper than the
	// configured maximum depth.
	RecursionLimitExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case LexicalError:
		return "LexicalError"
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedEndOfInput:
		return "UnexpectedEndOfInput"
	case RecursionLimitExceeded:
		return "RecursionLimitExceeded"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned by all parse functions. Pos is the position of the
// offending input; Found is the token found there.
type Error struct {
	Kind     ErrorKind
	Pos      token.Position
	Found    lexer.Item
	Expected []string
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if len(e.Expected) > 0 {
		b.WriteString(", expected ")
		b.WriteString(strings.Join(e.Expected, " or "))
	}
	fmt.Fprintf(&b, " at %s", e.Pos)
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// describe returns a short human readable form of a token for messages.
func describe(it lexer.Item) string {
	switch {
	case it.Token == token.IDENT:
		return fmt.Sprintf("identifier %q", it.Value)
	case it.Token == token.NUMBER:
		return "number " + it.Value
	case it.Token == token.STRING:
		return fmt.Sprintf("string '%s'", it.Value)
	case it.Token == token.BLOB:
		return "blob X'" + it.Value + "'"
	case it.Token.IsKeyword():
		return "keyword " + it.Token.String()
	}
	return fmt.Sprintf("%q", it.Token.String())
}
