package parser

import (
	"strings"

	"github.com/amoghmargoor/aswa/ast"
)

// Format returns the canonical SQL text of the statements, each terminated
// by a semicolon.
func Format(stmts []ast.Statement) string {
	var sb strings.Builder
	for i, stmt := range stmts {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(ast.Format(stmt))
		sb.WriteString(";")
	}
	return sb.String()
}
