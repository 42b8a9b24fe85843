package ast

import (
	"fmt"
	"strings"
)

// Explain returns an indented dump of the tree rooted at n, one node per
// line, each child indented one space deeper than its parent. Nodes with
// children are suffixed with "(children N)".
func Explain(n Node) string {
	var b strings.Builder
	explainNode(&b, n, 0)
	return b.String()
}

// explainNode recursively writes the AST node to the builder.
func explainNode(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat(" ", depth)
	children := n.Children()
	if len(children) > 0 {
		fmt.Fprintf(b, "%s%s (children %d)\n", indent, Label(n), len(children))
	} else {
		fmt.Fprintf(b, "%s%s\n", indent, Label(n))
	}
	for _, c := range children {
		explainNode(b, c, depth+1)
	}
}

// Label returns the one-line description of n used by Explain: the node
// name followed by the attributes that are not children.
func Label(n Node) string {
	switch n := n.(type) {
	// Statements
	case *Query:
		return "Query"
	case *Use:
		return "Use"
	case *CreateSchema:
		return withFlags("CreateSchema", flag(n.IfNotExists, "if not exists"))
	case *AlterSchema:
		return "AlterSchema rename to " + QuoteIdentifier(n.NewName)
	case *DropSchema:
		return withFlags("DropSchema", flag(n.IfExists, "if exists"), string(n.Behavior))
	case *CreateTableAsSelect:
		return withFlags("CreateTableAsSelect", flag(n.IfNotExists, "if not exists"))
	case *CreateTable:
		return withFlags("CreateTable", flag(n.IfNotExists, "if not exists"))
	case *DropTable:
		return withFlags("DropTable", flag(n.IfExists, "if exists"))
	case *InsertInto:
		return "InsertInto"
	case *Delete:
		return "Delete"

	// Query parts
	case *With:
		return withFlags("With", flag(n.Recursive, "recursive"))
	case *NamedQuery:
		return "NamedQuery " + QuoteIdentifier(n.Name)
	case *QueryBody:
		return "QueryBody"
	case *QueryTerm:
		return "QueryTerm"
	case *SetQueryTerm:
		return withFlags("SetQueryTerm", string(n.Operator), string(n.Distinctness))
	case *Select:
		return withFlags("Select", string(n.Distinctness))
	case *SelectItem:
		return "SelectItem"
	case *SortItem:
		return withFlags("SortItem", string(n.Order), string(n.Nulls))
	case *Limit:
		return "Limit"
	case *QualifiedName:
		return "QualifiedName " + Format(n)
	case *ColumnName:
		return "ColumnName " + Format(n)
	case *AliasName:
		return "AliasName " + Format(n)
	case *ColumnDefinition:
		return "ColumnDefinition " + QuoteIdentifier(n.Name)

	// Expressions
	case *Identifier:
		return "Identifier " + Format(n)
	case *Literal:
		return fmt.Sprintf("Literal %s %s", n.Type, Format(n))
	case *BinaryExpression:
		return "BinaryExpression " + string(n.Operator)
	case *UnaryExpression:
		return "UnaryExpression " + string(n.Operator)
	case *Dereference:
		return "Dereference " + QuoteIdentifier(n.Field)
	case *Subscript:
		return "Subscript"
	case *ArrayConstructor:
		return "ArrayConstructor"
	case *Cast:
		if n.Safe {
			return "Cast try"
		}
		return "Cast"
	case *TypedLiteral:
		return "TypedLiteral " + Format(n)
	case *Interval:
		return "Interval " + strings.TrimPrefix(Format(n), "interval ")
	case *Case:
		return "Case"
	case *WhenClause:
		return "WhenClause"
	case *FunctionCall:
		return withFlags("FunctionCall "+QuoteIdentifier(n.Name), flag(n.Distinct, "distinct"))
	case *Wildcard:
		return "Wildcard"

	// Types
	case *ArrayType:
		return "ArrayType"
	case *MapType:
		return "MapType"
	case *RowType:
		return "RowType"
	case *RowField:
		return "RowField " + QuoteIdentifier(n.Name)
	case *BaseType:
		if n.Kind == UserDefined {
			return "BaseType " + n.Name
		}
		return "BaseType " + string(n.Kind)
	case *IntegerParameter:
		return "IntegerParameter " + n.Value
	}
	return fmt.Sprintf("%T", n)
}

func flag(set bool, text string) string {
	if set {
		return text
	}
	return ""
}

func withFlags(name string, flags ...string) string {
	var b strings.Builder
	b.WriteString(name)
	for _, f := range flags {
		if f != "" {
			b.WriteString(" ")
			b.WriteString(f)
		}
	}
	return b.String()
}
