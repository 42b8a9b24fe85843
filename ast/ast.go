// Package ast defines the abstract syntax tree for the SQL dialect.
//
// Nodes carry no source positions, so two trees parsed from different
// spellings of the same statement compare equal with Equal.
package ast

// Node is the interface implemented by all AST nodes.
type Node interface {
	// Children returns the immediate child nodes in source order.
	Children() []Node
	// String returns the canonical SQL text of the node.
	String() string
}

// Statement is the interface implemented by all statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression is the interface implemented by all expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// BooleanExpression is the subset of expressions built from operators.
type BooleanExpression interface {
	Expression
	booleanExpressionNode()
}

// Type is the interface implemented by all data type nodes.
type Type interface {
	Node
	TypeParameter
	typeNode()
}

// TypeParameter is a parameter of a base type: an integer or a type.
type TypeParameter interface {
	Node
	typeParameterNode()
}

// -----------------------------------------------------------------------------
// Statements

// Query represents a SELECT query with an optional WITH clause.
type Query struct {
	With *With      `json:"with,omitempty"`
	Body *QueryBody `json:"body"`
}

func (q *Query) statementNode() {}

// Use represents a USE statement.
type Use struct {
	Schema *QualifiedName `json:"schema"`
}

func (u *Use) statementNode() {}

// CreateSchema represents a CREATE SCHEMA statement.
type CreateSchema struct {
	Schema      *QualifiedName `json:"schema"`
	IfNotExists bool           `json:"if_not_exists,omitempty"`
}

func (c *CreateSchema) statementNode() {}

// AlterSchema represents ALTER SCHEMA ... RENAME TO.
type AlterSchema struct {
	Schema  *QualifiedName `json:"schema"`
	NewName string         `json:"new_name"`
}

func (a *AlterSchema) statementNode() {}

// DropBehavior is the trailing CASCADE or RESTRICT of a DROP SCHEMA.
type DropBehavior string

const (
	DropCascade  DropBehavior = "cascade"
	DropRestrict DropBehavior = "restrict"
)

// DropSchema represents a DROP SCHEMA statement.
type DropSchema struct {
	Schema   *QualifiedName `json:"schema"`
	IfExists bool           `json:"if_exists,omitempty"`
	Behavior DropBehavior   `json:"behavior,omitempty"`
}

func (d *DropSchema) statementNode() {}

// CreateTableAsSelect represents CREATE TABLE ... AS query.
type CreateTableAsSelect struct {
	Table       *QualifiedName `json:"table"`
	IfNotExists bool           `json:"if_not_exists,omitempty"`
	Columns     []*ColumnName  `json:"columns,omitempty"`
	Query       *Query         `json:"query"`
}

func (c *CreateTableAsSelect) statementNode() {}

// CreateTable represents CREATE TABLE with column definitions.
type CreateTable struct {
	Table       *QualifiedName      `json:"table"`
	IfNotExists bool                `json:"if_not_exists,omitempty"`
	Elements    []*ColumnDefinition `json:"elements"`
}

func (c *CreateTable) statementNode() {}

// DropTable represents a DROP TABLE statement.
type DropTable struct {
	Table    *QualifiedName `json:"table"`
	IfExists bool           `json:"if_exists,omitempty"`
}

func (d *DropTable) statementNode() {}

// InsertInto represents INSERT INTO ... query.
type InsertInto struct {
	Table   *QualifiedName `json:"table"`
	Columns []*ColumnName  `json:"columns,omitempty"`
	Query   *Query         `json:"query"`
}

func (i *InsertInto) statementNode() {}

// Delete represents a DELETE FROM statement.
type Delete struct {
	Table *QualifiedName `json:"table"`
	Where Expression     `json:"where,omitempty"`
}

func (d *Delete) statementNode() {}

// -----------------------------------------------------------------------------
// Query parts

// With represents a WITH clause.
type With struct {
	Recursive bool          `json:"recursive,omitempty"`
	Queries   []*NamedQuery `json:"queries"`
}

// NamedQuery is one entry of a WITH clause: name [(columns)] AS (query).
type NamedQuery struct {
	Name    string        `json:"name"`
	Columns []*ColumnName `json:"columns,omitempty"`
	Query   *Query        `json:"query"`
}

// QueryBody is a chain of set operations followed by ORDER BY and LIMIT.
type QueryBody struct {
	Term    *QueryTerm  `json:"term"`
	OrderBy []*SortItem `json:"order_by,omitempty"`
	Limit   *Limit      `json:"limit,omitempty"`
}

// QueryTerm is a SELECT optionally combined with the rest of a set
// operation chain.
type QueryTerm struct {
	Select *Select       `json:"select"`
	Other  *SetQueryTerm `json:"other,omitempty"`
}

// SetOperator is UNION, INTERSECT or EXCEPT.
type SetOperator string

const (
	Union     SetOperator = "union"
	Intersect SetOperator = "intersect"
	Except    SetOperator = "except"
)

// Distinctness is the ALL/DISTINCT quantifier of a select or set operation.
// The zero value means no quantifier was written.
type Distinctness string

const (
	Distinct Distinctness = "distinct"
	All      Distinctness = "all"
)

// SetQueryTerm is the right-hand side of a set operation.
type SetQueryTerm struct {
	Operator     SetOperator  `json:"operator"`
	Distinctness Distinctness `json:"distinctness"`
	Query        *QueryTerm   `json:"query"`
}

// Select represents a single SELECT block.
type Select struct {
	Distinctness Distinctness   `json:"distinctness,omitempty"`
	Items        []*SelectItem  `json:"items"`
	From         *QualifiedName `json:"from,omitempty"`
	Where        Expression     `json:"where,omitempty"`
	GroupBy      []Expression   `json:"group_by,omitempty"`
	Having       Expression     `json:"having,omitempty"`
}

// SelectItem is one entry of a select list.
type SelectItem struct {
	Expression Expression `json:"expression"`
	Alias      *AliasName `json:"alias,omitempty"`
}

// SortOrder is ASC or DESC; the zero value means unspecified.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// NullOrder is NULLS FIRST or NULLS LAST; the zero value means unspecified.
type NullOrder string

const (
	NullsFirst NullOrder = "nulls first"
	NullsLast  NullOrder = "nulls last"
)

// SortItem is one ORDER BY entry.
type SortItem struct {
	Expression Expression `json:"expression"`
	Order      SortOrder  `json:"order,omitempty"`
	Nulls      NullOrder  `json:"nulls,omitempty"`
}

// Limit represents LIMIT count [OFFSET offset].
type Limit struct {
	Count  Expression `json:"count"`
	Offset Expression `json:"offset,omitempty"`
}

// QualifiedName is a dotted name such as catalog.schema.table.
type QualifiedName struct {
	Parts []string `json:"parts"`
}

// ColumnName names a column in a column list.
type ColumnName struct {
	Name string `json:"name"`
}

// AliasName is the alias of a select item.
type AliasName struct {
	Name string `json:"name"`
}

// ColumnDefinition is a column of a CREATE TABLE element list.
type ColumnDefinition struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}
