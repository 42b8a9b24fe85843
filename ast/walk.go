package ast

import "reflect"

// Walk traverses the tree rooted at n in depth-first pre-order, calling fn
// for each node. If fn returns false the children of that node are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(a, b)
}

// nodes collects the non-nil nodes among ns. Typed nil pointers stored in
// an interface are dropped as well.
func nodes(ns ...Node) []Node {
	out := make([]Node, 0, len(ns))
	for _, n := range ns {
		if n == nil || reflect.ValueOf(n).IsNil() {
			continue
		}
		out = append(out, n)
	}
	return out
}

func exprNodes(exprs []Expression) []Node {
	out := make([]Node, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, e)
	}
	return out
}

func columnNodes(cols []*ColumnName) []Node {
	out := make([]Node, 0, len(cols))
	for _, c := range cols {
		out = append(out, c)
	}
	return out
}

// Statements

func (q *Query) Children() []Node { return nodes(q.With, q.Body) }
func (u *Use) Children() []Node   { return nodes(u.Schema) }

func (c *CreateSchema) Children() []Node { return nodes(c.Schema) }
func (a *AlterSchema) Children() []Node  { return nodes(a.Schema) }
func (d *DropSchema) Children() []Node   { return nodes(d.Schema) }

func (c *CreateTableAsSelect) Children() []Node {
	out := nodes(c.Table)
	out = append(out, columnNodes(c.Columns)...)
	return append(out, nodes(c.Query)...)
}

func (c *CreateTable) Children() []Node {
	out := nodes(c.Table)
	for _, e := range c.Elements {
		out = append(out, e)
	}
	return out
}

func (d *DropTable) Children() []Node { return nodes(d.Table) }

func (i *InsertInto) Children() []Node {
	out := nodes(i.Table)
	out = append(out, columnNodes(i.Columns)...)
	return append(out, nodes(i.Query)...)
}

func (d *Delete) Children() []Node { return nodes(d.Table, d.Where) }

// Query parts

func (w *With) Children() []Node {
	out := make([]Node, 0, len(w.Queries))
	for _, q := range w.Queries {
		out = append(out, q)
	}
	return out
}

func (n *NamedQuery) Children() []Node {
	return append(columnNodes(n.Columns), nodes(n.Query)...)
}

func (b *QueryBody) Children() []Node {
	out := nodes(b.Term)
	for _, s := range b.OrderBy {
		out = append(out, s)
	}
	return append(out, nodes(b.Limit)...)
}

func (t *QueryTerm) Children() []Node    { return nodes(t.Select, t.Other) }
func (s *SetQueryTerm) Children() []Node { return nodes(s.Query) }

func (s *Select) Children() []Node {
	out := make([]Node, 0, len(s.Items)+len(s.GroupBy)+3)
	for _, item := range s.Items {
		out = append(out, item)
	}
	out = append(out, nodes(s.From, s.Where)...)
	out = append(out, exprNodes(s.GroupBy)...)
	return append(out, nodes(s.Having)...)
}

func (s *SelectItem) Children() []Node       { return nodes(s.Expression, s.Alias) }
func (s *SortItem) Children() []Node         { return nodes(s.Expression) }
func (l *Limit) Children() []Node            { return nodes(l.Count, l.Offset) }
func (q *QualifiedName) Children() []Node    { return nil }
func (c *ColumnName) Children() []Node       { return nil }
func (a *AliasName) Children() []Node        { return nil }
func (c *ColumnDefinition) Children() []Node { return nodes(c.Type) }

// Expressions

func (i *Identifier) Children() []Node       { return nil }
func (l *Literal) Children() []Node          { return nil }
func (b *BinaryExpression) Children() []Node { return nodes(b.Left, b.Right) }
func (u *UnaryExpression) Children() []Node  { return nodes(u.Operand) }
func (d *Dereference) Children() []Node      { return nodes(d.Base) }
func (s *Subscript) Children() []Node        { return nodes(s.Base, s.Index) }
func (a *ArrayConstructor) Children() []Node { return exprNodes(a.Elements) }
func (c *Cast) Children() []Node             { return nodes(c.Expression, c.Type) }
func (t *TypedLiteral) Children() []Node     { return nil }
func (i *Interval) Children() []Node         { return nil }

func (c *Case) Children() []Node {
	out := nodes(c.Operand)
	for _, w := range c.Whens {
		out = append(out, w)
	}
	return append(out, nodes(c.Else)...)
}

func (w *WhenClause) Children() []Node   { return nodes(w.Condition, w.Result) }
func (f *FunctionCall) Children() []Node { return exprNodes(f.Args) }
func (w *Wildcard) Children() []Node     { return nil }

// Types

func (a *ArrayType) Children() []Node { return nodes(a.Element) }
func (m *MapType) Children() []Node   { return nodes(m.Key, m.Value) }

func (r *RowType) Children() []Node {
	out := make([]Node, 0, len(r.Fields))
	for _, f := range r.Fields {
		out = append(out, f)
	}
	return out
}

func (r *RowField) Children() []Node { return nodes(r.Type) }

func (b *BaseType) Children() []Node {
	out := make([]Node, 0, len(b.Params))
	for _, p := range b.Params {
		out = append(out, p)
	}
	return out
}

func (i *IntegerParameter) Children() []Node { return nil }
