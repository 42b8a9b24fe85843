package parser

import "github.com/amoghmargoor/aswa/ast"

// Explain returns the tree dump of a statement.
func Explain(stmt ast.Statement) string {
	return ast.Explain(stmt)
}
