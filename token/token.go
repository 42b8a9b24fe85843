// Package token defines constants representing the lexical tokens of the SQL dialect.
package token

import "fmt"

// Token represents a lexical token.
type Token int

const (
	// Special tokens
	ILLEGAL Token = iota
	EOF
	COMMENT

	// Literals
	IDENT  // identifiers
	NUMBER // integer, decimal or exponent literals
	STRING // string literals
	BLOB   // X'..' hex literals

	// Operators
	PLUS      // +
	MINUS     // -
	ASTERISK  // *
	SLASH     // /
	PERCENT   // %
	EQ        // = or ==
	NEQ       // != or <>
	LT        // <
	GT        // >
	LTE       // <=
	GTE       // >=
	CONCAT    // ||
	AMPERSAND // &
	PIPE      // |
	LSHIFT    // <<
	RSHIFT    // >>
	TILDE     // ~

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;

	// Reserved keywords can never be used as identifiers unless quoted.
	keyword_beg
	ALL
	ALTER
	AND
	AS
	BY
	CASE
	CAST
	CREATE
	CURRENT_DATE
	CURRENT_TIME
	CURRENT_TIMESTAMP
	DELETE
	DISTINCT
	DROP
	ELSE
	END
	EXCEPT
	EXISTS
	FALSE
	FROM
	GROUP
	HAVING
	INSERT
	INTERSECT
	INTO
	IS
	LIMIT
	NOT
	NULL
	OFFSET
	OR
	ORDER
	SELECT
	TABLE
	THEN
	TRUE
	UNION
	WHEN
	WHERE
	WITH
	reserved_end

	// Non-reserved keywords have grammar meaning in some positions and are
	// plain identifiers everywhere else.
	ARRAY
	ASC
	CASCADE
	DAY
	DESC
	DOUBLE
	FIRST
	HOUR
	IF
	INTERVAL
	LAST
	MAP
	MINUTE
	MONTH
	NULLS
	PRECISION
	RECURSIVE
	RENAME
	RESTRICT
	ROW
	SCHEMA
	SECOND
	TIME
	TIMESTAMP
	TO
	TRY_CAST
	USE
	YEAR
	ZONE
	keyword_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	COMMENT: "COMMENT",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	BLOB:   "BLOB",

	PLUS:      "+",
	MINUS:     "-",
	ASTERISK:  "*",
	SLASH:     "/",
	PERCENT:   "%",
	EQ:        "=",
	NEQ:       "!=",
	LT:        "<",
	GT:        ">",
	LTE:       "<=",
	GTE:       ">=",
	CONCAT:    "||",
	AMPERSAND: "&",
	PIPE:      "|",
	LSHIFT:    "<<",
	RSHIFT:    ">>",
	TILDE:     "~",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",

	ALL:               "ALL",
	ALTER:             "ALTER",
	AND:               "AND",
	AS:                "AS",
	BY:                "BY",
	CASE:              "CASE",
	CAST:              "CAST",
	CREATE:            "CREATE",
	CURRENT_DATE:      "CURRENT_DATE",
	CURRENT_TIME:      "CURRENT_TIME",
	CURRENT_TIMESTAMP: "CURRENT_TIMESTAMP",
	DELETE:            "DELETE",
	DISTINCT:          "DISTINCT",
	DROP:              "DROP",
	ELSE:              "ELSE",
	END:               "END",
	EXCEPT:            "EXCEPT",
	EXISTS:            "EXISTS",
	FALSE:             "FALSE",
	FROM:              "FROM",
	GROUP:             "GROUP",
	HAVING:            "HAVING",
	INSERT:            "INSERT",
	INTERSECT:         "INTERSECT",
	INTO:              "INTO",
	IS:                "IS",
	LIMIT:             "LIMIT",
	NOT:               "NOT",
	NULL:              "NULL",
	OFFSET:            "OFFSET",
	OR:                "OR",
	ORDER:             "ORDER",
	SELECT:            "SELECT",
	TABLE:             "TABLE",
	THEN:              "THEN",
	TRUE:              "TRUE",
	UNION:             "UNION",
	WHEN:              "WHEN",
	WHERE:             "WHERE",
	WITH:              "WITH",

	ARRAY:     "ARRAY",
	ASC:       "ASC",
	CASCADE:   "CASCADE",
	DAY:       "DAY",
	DESC:      "DESC",
	DOUBLE:    "DOUBLE",
	FIRST:     "FIRST",
	HOUR:      "HOUR",
	IF:        "IF",
	INTERVAL:  "INTERVAL",
	LAST:      "LAST",
	MAP:       "MAP",
	MINUTE:    "MINUTE",
	MONTH:     "MONTH",
	NULLS:     "NULLS",
	PRECISION: "PRECISION",
	RECURSIVE: "RECURSIVE",
	RENAME:    "RENAME",
	RESTRICT:  "RESTRICT",
	ROW:       "ROW",
	SCHEMA:    "SCHEMA",
	SECOND:    "SECOND",
	TIME:      "TIME",
	TIMESTAMP: "TIMESTAMP",
	TO:        "TO",
	TRY_CAST:  "TRY_CAST",
	USE:       "USE",
	YEAR:      "YEAR",
	ZONE:      "ZONE",
}

func (tok Token) String() string {
	if tok >= 0 && int(tok) < len(tokens) {
		return tokens[tok]
	}
	return ""
}

// Keywords maps upper-case keyword strings to their token types.
// It is filled once in init and only read afterwards.
var Keywords map[string]Token

func init() {
	Keywords = make(map[string]Token)
	for i := keyword_beg + 1; i < keyword_end; i++ {
		if i == reserved_end {
			continue
		}
		Keywords[tokens[i]] = i
	}
}

// Lookup returns the token type for an upper-cased identifier string.
// If the string is a keyword, it returns the keyword token.
// Otherwise, it returns IDENT.
func Lookup(ident string) Token {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token is a keyword.
func (tok Token) IsKeyword() bool {
	return tok > keyword_beg && tok < keyword_end && tok != reserved_end
}

// IsReserved returns true if the token is a keyword that cannot be used as
// an unquoted identifier.
func (tok Token) IsReserved() bool {
	return tok > keyword_beg && tok < reserved_end
}

// Position represents a source position.
type Position struct {
	Offset int // byte offset
	Line   int // line number (1-based)
	Column int // column number (1-based, in runes)
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}
