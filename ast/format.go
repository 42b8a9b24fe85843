package ast

import (
	"strings"
	"unicode"

	"github.com/amoghmargoor/aswa/token"
)

// clauseSep separates the clauses of a query in canonical text.
const clauseSep = " \n "

// Format returns the canonical SQL text of a node. Parentheses are only
// written where operator precedence requires them, so parsing the result
// gives a tree equal to n.
func Format(n Node) string {
	var sb strings.Builder
	formatNode(&sb, n)
	return sb.String()
}

func formatNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case Statement:
		formatStatement(sb, n)
	case Expression:
		formatExpression(sb, n)
	case Type:
		formatType(sb, n)
	case *IntegerParameter:
		sb.WriteString(n.Value)
	case *With:
		formatWith(sb, n)
	case *NamedQuery:
		formatNamedQuery(sb, n)
	case *QueryBody:
		formatQueryBody(sb, n)
	case *QueryTerm:
		formatQueryTerm(sb, n)
	case *SetQueryTerm:
		formatSetQueryTerm(sb, n)
	case *Select:
		formatSelect(sb, n)
	case *SelectItem:
		formatSelectItem(sb, n)
	case *SortItem:
		formatSortItem(sb, n)
	case *Limit:
		formatLimit(sb, n)
	case *QualifiedName:
		formatQualifiedName(sb, n)
	case *ColumnName:
		sb.WriteString(QuoteIdentifier(n.Name))
	case *AliasName:
		sb.WriteString(QuoteIdentifier(n.Name))
	case *ColumnDefinition:
		sb.WriteString(QuoteIdentifier(n.Name))
		sb.WriteString(" ")
		formatType(sb, n.Type)
	case *RowField:
		sb.WriteString(QuoteIdentifier(n.Name))
		sb.WriteString(" ")
		formatType(sb, n.Type)
	case *WhenClause:
		sb.WriteString("when ")
		formatExpression(sb, n.Condition)
		sb.WriteString(" then ")
		formatExpression(sb, n.Result)
	}
}

// -----------------------------------------------------------------------------
// Statements

func formatStatement(sb *strings.Builder, stmt Statement) {
	switch s := stmt.(type) {
	case *Query:
		formatQuery(sb, s)
	case *Use:
		sb.WriteString("use ")
		formatQualifiedName(sb, s.Schema)
	case *CreateSchema:
		sb.WriteString("create schema ")
		if s.IfNotExists {
			sb.WriteString("if not exists ")
		}
		formatQualifiedName(sb, s.Schema)
	case *AlterSchema:
		sb.WriteString("alter schema ")
		formatQualifiedName(sb, s.Schema)
		sb.WriteString(" rename to ")
		sb.WriteString(QuoteIdentifier(s.NewName))
	case *DropSchema:
		sb.WriteString("drop schema ")
		if s.IfExists {
			sb.WriteString("if exists ")
		}
		formatQualifiedName(sb, s.Schema)
		if s.Behavior != "" {
			sb.WriteString(" ")
			sb.WriteString(string(s.Behavior))
		}
	case *CreateTableAsSelect:
		sb.WriteString("create table ")
		if s.IfNotExists {
			sb.WriteString("if not exists ")
		}
		formatQualifiedName(sb, s.Table)
		formatColumnList(sb, s.Columns)
		sb.WriteString(" as ")
		formatQuery(sb, s.Query)
	case *CreateTable:
		sb.WriteString("create table ")
		if s.IfNotExists {
			sb.WriteString("if not exists ")
		}
		formatQualifiedName(sb, s.Table)
		sb.WriteString(" (")
		for i, e := range s.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatNode(sb, e)
		}
		sb.WriteString(")")
	case *DropTable:
		sb.WriteString("drop table ")
		if s.IfExists {
			sb.WriteString("if exists ")
		}
		formatQualifiedName(sb, s.Table)
	case *InsertInto:
		sb.WriteString("insert into ")
		formatQualifiedName(sb, s.Table)
		formatColumnList(sb, s.Columns)
		sb.WriteString(" ")
		formatQuery(sb, s.Query)
	case *Delete:
		sb.WriteString("delete from ")
		formatQualifiedName(sb, s.Table)
		if s.Where != nil {
			sb.WriteString(" where ")
			formatExpression(sb, s.Where)
		}
	}
}

func formatColumnList(sb *strings.Builder, cols []*ColumnName) {
	if len(cols) == 0 {
		return
	}
	sb.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(QuoteIdentifier(c.Name))
	}
	sb.WriteString(")")
}

func formatQualifiedName(sb *strings.Builder, q *QualifiedName) {
	for i, part := range q.Parts {
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(QuoteIdentifier(part))
	}
}

// -----------------------------------------------------------------------------
// Queries

func formatQuery(sb *strings.Builder, q *Query) {
	if q.With != nil {
		formatWith(sb, q.With)
		sb.WriteString(clauseSep)
	}
	formatQueryBody(sb, q.Body)
}

func formatWith(sb *strings.Builder, w *With) {
	sb.WriteString("with ")
	if w.Recursive {
		sb.WriteString("recursive ")
	}
	for i, nq := range w.Queries {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatNamedQuery(sb, nq)
	}
}

func formatNamedQuery(sb *strings.Builder, nq *NamedQuery) {
	sb.WriteString(QuoteIdentifier(nq.Name))
	formatColumnList(sb, nq.Columns)
	sb.WriteString(" as (")
	formatQuery(sb, nq.Query)
	sb.WriteString(")")
}

func formatQueryBody(sb *strings.Builder, b *QueryBody) {
	formatQueryTerm(sb, b.Term)
	if len(b.OrderBy) > 0 {
		sb.WriteString(clauseSep)
		sb.WriteString("order by ")
		for i, item := range b.OrderBy {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatSortItem(sb, item)
		}
	}
	if b.Limit != nil {
		sb.WriteString(clauseSep)
		formatLimit(sb, b.Limit)
	}
}

func formatQueryTerm(sb *strings.Builder, t *QueryTerm) {
	formatSelect(sb, t.Select)
	if t.Other != nil {
		sb.WriteString(clauseSep)
		formatSetQueryTerm(sb, t.Other)
	}
}

func formatSetQueryTerm(sb *strings.Builder, s *SetQueryTerm) {
	sb.WriteString(string(s.Operator))
	sb.WriteString(" ")
	// An omitted quantifier means DISTINCT.
	if s.Distinctness == "" {
		sb.WriteString(string(Distinct))
	} else {
		sb.WriteString(string(s.Distinctness))
	}
	sb.WriteString(clauseSep)
	formatQueryTerm(sb, s.Query)
}

func formatSelect(sb *strings.Builder, s *Select) {
	sb.WriteString("select ")
	if s.Distinctness != "" {
		sb.WriteString(string(s.Distinctness))
		sb.WriteString(" ")
	}
	for i, item := range s.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatSelectItem(sb, item)
	}
	if s.From != nil {
		sb.WriteString(clauseSep)
		sb.WriteString("from ")
		formatQualifiedName(sb, s.From)
	}
	if s.Where != nil {
		sb.WriteString(clauseSep)
		sb.WriteString("where ")
		formatExpression(sb, s.Where)
	}
	if len(s.GroupBy) > 0 {
		sb.WriteString(clauseSep)
		sb.WriteString("group by ")
		formatExpressionList(sb, s.GroupBy)
	}
	if s.Having != nil {
		sb.WriteString(clauseSep)
		sb.WriteString("having ")
		formatExpression(sb, s.Having)
	}
}

func formatSelectItem(sb *strings.Builder, item *SelectItem) {
	formatExpression(sb, item.Expression)
	if item.Alias != nil {
		sb.WriteString(" as ")
		sb.WriteString(QuoteIdentifier(item.Alias.Name))
	}
}

func formatSortItem(sb *strings.Builder, item *SortItem) {
	formatExpression(sb, item.Expression)
	if item.Order != "" {
		sb.WriteString(" ")
		sb.WriteString(string(item.Order))
	}
	if item.Nulls != "" {
		sb.WriteString(" ")
		sb.WriteString(string(item.Nulls))
	}
}

func formatLimit(sb *strings.Builder, l *Limit) {
	sb.WriteString("limit ")
	formatExpression(sb, l.Count)
	if l.Offset != nil {
		sb.WriteString(" offset ")
		formatExpression(sb, l.Offset)
	}
}

// -----------------------------------------------------------------------------
// Expressions

func formatExpression(sb *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case *Identifier:
		formatIdentifier(sb, e)
	case *Literal:
		formatLiteral(sb, e)
	case *BinaryExpression:
		formatBinaryExpression(sb, e)
	case *UnaryExpression:
		sb.WriteString(string(e.Operator))
		sb.WriteString(" ")
		formatOperand(sb, e.Operand, PrecedenceOf(e.Operand) < e.Operator.Precedence())
	case *Dereference:
		formatPostfixBase(sb, e.Base)
		sb.WriteString(".")
		sb.WriteString(QuoteIdentifier(e.Field))
	case *Subscript:
		formatPostfixBase(sb, e.Base)
		sb.WriteString("[")
		formatExpression(sb, e.Index)
		sb.WriteString("]")
	case *ArrayConstructor:
		sb.WriteString("array[")
		formatExpressionList(sb, e.Elements)
		sb.WriteString("]")
	case *Cast:
		if e.Safe {
			sb.WriteString("try_cast(")
		} else {
			sb.WriteString("cast(")
		}
		formatExpression(sb, e.Expression)
		sb.WriteString(" as ")
		formatType(sb, e.Type)
		sb.WriteString(")")
	case *TypedLiteral:
		switch strings.ToUpper(e.Type) {
		case "X", "INTERVAL":
			// Unquoted, x'..' lexes as a blob and interval '..' starts an
			// interval literal.
			sb.WriteString(quoteDelimited(e.Type))
		default:
			sb.WriteString(QuoteIdentifier(e.Type))
		}
		sb.WriteString(" ")
		sb.WriteString(quoteString(e.Value))
	case *Interval:
		sb.WriteString("interval ")
		if e.Negative {
			sb.WriteString("-")
		}
		sb.WriteString(quoteString(e.Value))
		sb.WriteString(" ")
		sb.WriteString(string(e.From))
		if e.To != "" {
			sb.WriteString(" to ")
			sb.WriteString(string(e.To))
		}
	case *Case:
		sb.WriteString("case")
		if e.Operand != nil {
			sb.WriteString(" ")
			formatExpression(sb, e.Operand)
		}
		for _, w := range e.Whens {
			sb.WriteString(" ")
			formatNode(sb, w)
		}
		if e.Else != nil {
			sb.WriteString(" else ")
			formatExpression(sb, e.Else)
		}
		sb.WriteString(" end")
	case *FunctionCall:
		if strings.EqualFold(e.Name, "try_cast") {
			sb.WriteString(quoteDelimited(e.Name))
		} else {
			sb.WriteString(QuoteIdentifier(e.Name))
		}
		sb.WriteString("(")
		if e.Distinct {
			sb.WriteString("distinct ")
		}
		formatExpressionList(sb, e.Args)
		sb.WriteString(")")
	case *Wildcard:
		sb.WriteString("*")
	}
}

func formatExpressionList(sb *strings.Builder, exprs []Expression) {
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatExpression(sb, e)
	}
}

// formatBinaryExpression writes a left-associative binary operation. The
// right operand is parenthesized at equal precedence so that a - (b - c)
// keeps its grouping.
func formatBinaryExpression(sb *strings.Builder, e *BinaryExpression) {
	prec := e.Operator.Precedence()
	formatOperand(sb, e.Left, PrecedenceOf(e.Left) < prec)
	sb.WriteString(" ")
	sb.WriteString(string(e.Operator))
	sb.WriteString(" ")
	formatOperand(sb, e.Right, PrecedenceOf(e.Right) <= prec)
}

func formatOperand(sb *strings.Builder, e Expression, parens bool) {
	if parens {
		sb.WriteString("(")
	}
	formatExpression(sb, e)
	if parens {
		sb.WriteString(")")
	}
}

func formatPostfixBase(sb *strings.Builder, base Expression) {
	wrap := !AcceptsPostfix(base)
	// A bare "array" followed by "[" would read back as a constructor.
	if id, ok := base.(*Identifier); ok && !id.Quoted && strings.EqualFold(id.Name, "array") {
		wrap = true
	}
	formatOperand(sb, base, wrap)
}

func formatIdentifier(sb *strings.Builder, id *Identifier) {
	if id.Quoted {
		sb.WriteString(quoteDelimited(id.Name))
		return
	}
	sb.WriteString(QuoteIdentifier(id.Name))
}

func formatLiteral(sb *strings.Builder, lit *Literal) {
	switch lit.Type {
	case LiteralString:
		sb.WriteString(quoteString(lit.Value))
	case LiteralBlob:
		sb.WriteString("X'")
		sb.WriteString(lit.Value)
		sb.WriteString("'")
	case LiteralNull:
		sb.WriteString("null")
	case LiteralCurrentTime:
		sb.WriteString("current_time")
	case LiteralCurrentDate:
		sb.WriteString("current_date")
	case LiteralCurrentTimestamp:
		sb.WriteString("current_timestamp")
	default:
		sb.WriteString(lit.Value)
	}
}

// -----------------------------------------------------------------------------
// Types

func formatType(sb *strings.Builder, t Type) {
	switch t := t.(type) {
	case *ArrayType:
		sb.WriteString("array<")
		formatType(sb, t.Element)
		sb.WriteString(">")
	case *MapType:
		sb.WriteString("map<")
		formatType(sb, t.Key)
		sb.WriteString(", ")
		formatType(sb, t.Value)
		sb.WriteString(">")
	case *RowType:
		sb.WriteString("row(")
		for i, f := range t.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			formatNode(sb, f)
		}
		sb.WriteString(")")
	case *BaseType:
		formatBaseType(sb, t)
	}
}

func formatBaseType(sb *strings.Builder, t *BaseType) {
	switch t.Kind {
	case DoublePrecision:
		sb.WriteString("double precision")
	case TimeWithTimeZone:
		sb.WriteString("time with time zone")
	case TimestampWithTimeZone:
		sb.WriteString("timestamp with time zone")
	default:
		switch strings.ToUpper(t.Name) {
		case "ARRAY", "MAP", "ROW":
			// Unquoted these would start a constructed type.
			sb.WriteString(quoteDelimited(t.Name))
		default:
			sb.WriteString(QuoteIdentifier(t.Name))
		}
	}
	if len(t.Params) == 0 {
		return
	}
	sb.WriteString("(")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		formatNode(sb, p)
	}
	sb.WriteString(")")
}

// -----------------------------------------------------------------------------
// Quoting

// QuoteIdentifier returns name unchanged when it lexes back as the same
// identifier, and double-quoted otherwise.
func QuoteIdentifier(name string) string {
	if isSimpleIdentifier(name) && !token.Lookup(strings.ToUpper(name)).IsReserved() {
		return name
	}
	return quoteDelimited(name)
}

func isSimpleIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func quoteDelimited(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// -----------------------------------------------------------------------------
// String methods

func (q *Query) String() string               { return Format(q) }
func (u *Use) String() string                 { return Format(u) }
func (c *CreateSchema) String() string        { return Format(c) }
func (a *AlterSchema) String() string         { return Format(a) }
func (d *DropSchema) String() string          { return Format(d) }
func (c *CreateTableAsSelect) String() string { return Format(c) }
func (c *CreateTable) String() string         { return Format(c) }
func (d *DropTable) String() string           { return Format(d) }
func (i *InsertInto) String() string          { return Format(i) }
func (d *Delete) String() string              { return Format(d) }
func (w *With) String() string                { return Format(w) }
func (n *NamedQuery) String() string          { return Format(n) }
func (b *QueryBody) String() string           { return Format(b) }
func (t *QueryTerm) String() string           { return Format(t) }
func (s *SetQueryTerm) String() string        { return Format(s) }
func (s *Select) String() string              { return Format(s) }
func (s *SelectItem) String() string          { return Format(s) }
func (s *SortItem) String() string            { return Format(s) }
func (l *Limit) String() string               { return Format(l) }
func (q *QualifiedName) String() string       { return Format(q) }
func (c *ColumnName) String() string          { return Format(c) }
func (a *AliasName) String() string           { return Format(a) }
func (c *ColumnDefinition) String() string    { return Format(c) }
func (i *Identifier) String() string          { return Format(i) }
func (l *Literal) String() string             { return Format(l) }
func (b *BinaryExpression) String() string    { return Format(b) }
func (u *UnaryExpression) String() string     { return Format(u) }
func (d *Dereference) String() string         { return Format(d) }
func (s *Subscript) String() string           { return Format(s) }
func (a *ArrayConstructor) String() string    { return Format(a) }
func (c *Cast) String() string                { return Format(c) }
func (t *TypedLiteral) String() string        { return Format(t) }
func (i *Interval) String() string            { return Format(i) }
func (c *Case) String() string                { return Format(c) }
func (w *WhenClause) String() string          { return Format(w) }
func (f *FunctionCall) String() string        { return Format(f) }
func (w *Wildcard) String() string            { return Format(w) }
func (a *ArrayType) String() string           { return Format(a) }
func (m *MapType) String() string             { return Format(m) }
func (r *RowType) String() string             { return Format(r) }
func (r *RowField) String() string            { return Format(r) }
func (b *BaseType) String() string            { return Format(b) }
func (i *IntegerParameter) String() string    { return Format(i) }
