package ast

// Precedence is the binding strength of an operator. Higher binds tighter.
type Precedence int

const (
	LOWEST Precedence = iota
	OR_PREC
	AND_PREC
	NOT_PREC
	COMPARE
	BITWISE_PREC
	ADD_PREC
	MUL_PREC
	UNARY
	POSTFIX
	HIGHEST
)

// Identifier is a column or other unqualified name.
type Identifier struct {
	Name   string `json:"name"`
	Quoted bool   `json:"quoted,omitempty"`
}

func (i *Identifier) expressionNode() {}

// LiteralType represents the kind of a literal.
type LiteralType string

const (
	LiteralNumeric          LiteralType = "Numeric"
	LiteralString           LiteralType = "String"
	LiteralBlob             LiteralType = "Blob"
	LiteralNull             LiteralType = "Null"
	LiteralBoolean          LiteralType = "Boolean"
	LiteralCurrentTime      LiteralType = "CurrentTime"
	LiteralCurrentDate      LiteralType = "CurrentDate"
	LiteralCurrentTimestamp LiteralType = "CurrentTimestamp"
)

// Literal represents a literal value. Numeric literals keep their source
// text, strings their unescaped text and blobs their hex digits.
type Literal struct {
	Type  LiteralType `json:"type"`
	Value string      `json:"value,omitempty"`
}

func (l *Literal) expressionNode() {}

// BinaryOperator is an infix operator. Its value is the canonical text.
type BinaryOperator string

const (
	OpAdd           BinaryOperator = "+"
	OpSubtract      BinaryOperator = "-"
	OpMultiply      BinaryOperator = "*"
	OpDivide        BinaryOperator = "/"
	OpModulus       BinaryOperator = "%"
	OpConcat        BinaryOperator = "||"
	OpAnd           BinaryOperator = "and"
	OpOr            BinaryOperator = "or"
	OpEquals        BinaryOperator = "="
	OpNotEquals     BinaryOperator = "!="
	OpLess          BinaryOperator = "<"
	OpLessEquals    BinaryOperator = "<="
	OpGreater       BinaryOperator = ">"
	OpGreaterEquals BinaryOperator = ">="
	OpIs            BinaryOperator = "is"
	OpIsNot         BinaryOperator = "is not"
	OpBitwiseAnd    BinaryOperator = "&"
	OpBitwiseOr     BinaryOperator = "|"
	OpLeftShift     BinaryOperator = "<<"
	OpRightShift    BinaryOperator = ">>"
)

func (op BinaryOperator) String() string { return string(op) }

// Precedence returns the binding strength of op.
func (op BinaryOperator) Precedence() Precedence {
	switch op {
	case OpOr:
		return OR_PREC
	case OpAnd:
		return AND_PREC
	case OpEquals, OpNotEquals, OpLess, OpLessEquals, OpGreater, OpGreaterEquals, OpIs, OpIsNot:
		return COMPARE
	case OpBitwiseAnd, OpBitwiseOr, OpLeftShift, OpRightShift:
		return BITWISE_PREC
	case OpAdd, OpSubtract, OpConcat:
		return ADD_PREC
	case OpMultiply, OpDivide, OpModulus:
		return MUL_PREC
	}
	return LOWEST
}

// UnaryOperator is a prefix operator. Its value is the canonical text.
type UnaryOperator string

const (
	OpPositive   UnaryOperator = "+"
	OpNegative   UnaryOperator = "-"
	OpNot        UnaryOperator = "not"
	OpBitwiseNot UnaryOperator = "~"
)

func (op UnaryOperator) String() string { return string(op) }

// Precedence returns the binding strength of op.
func (op UnaryOperator) Precedence() Precedence {
	if op == OpNot {
		return NOT_PREC
	}
	return UNARY
}

// BinaryExpression represents a binary operation.
type BinaryExpression struct {
	Left     Expression     `json:"left"`
	Operator BinaryOperator `json:"operator"`
	Right    Expression     `json:"right"`
}

func (b *BinaryExpression) expressionNode()        {}
func (b *BinaryExpression) booleanExpressionNode() {}

// UnaryExpression represents a prefix operation.
type UnaryExpression struct {
	Operator UnaryOperator `json:"operator"`
	Operand  Expression    `json:"operand"`
}

func (u *UnaryExpression) expressionNode()        {}
func (u *UnaryExpression) booleanExpressionNode() {}

// Dereference represents base.field.
type Dereference struct {
	Base  Expression `json:"base"`
	Field string     `json:"field"`
}

func (d *Dereference) expressionNode() {}

// Subscript represents base[index].
type Subscript struct {
	Base  Expression `json:"base"`
	Index Expression `json:"index"`
}

func (s *Subscript) expressionNode() {}

// ArrayConstructor represents ARRAY[a, b, ...].
type ArrayConstructor struct {
	Elements []Expression `json:"elements"`
}

func (a *ArrayConstructor) expressionNode() {}

// Cast represents CAST(expr AS type), or TRY_CAST when Safe is set.
type Cast struct {
	Expression Expression `json:"expression"`
	Type       Type       `json:"type"`
	Safe       bool       `json:"safe,omitempty"`
}

func (c *Cast) expressionNode() {}

// TypedLiteral represents a literal prefixed by a type name, as in
// DATE '2020-01-01'.
type TypedLiteral struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (t *TypedLiteral) expressionNode() {}

// IntervalField is a unit of an INTERVAL literal.
type IntervalField string

const (
	Year   IntervalField = "year"
	Month  IntervalField = "month"
	Day    IntervalField = "day"
	Hour   IntervalField = "hour"
	Minute IntervalField = "minute"
	Second IntervalField = "second"
)

// Interval represents INTERVAL [+|-] 'value' from [TO to].
type Interval struct {
	Negative bool          `json:"negative,omitempty"`
	Value    string        `json:"value"`
	From     IntervalField `json:"from"`
	To       IntervalField `json:"to,omitempty"`
}

func (i *Interval) expressionNode() {}

// Case represents a simple or searched CASE expression.
type Case struct {
	Operand Expression    `json:"operand,omitempty"`
	Whens   []*WhenClause `json:"whens"`
	Else    Expression    `json:"else,omitempty"`
}

func (c *Case) expressionNode() {}

// WhenClause is one WHEN ... THEN ... arm of a CASE.
type WhenClause struct {
	Condition Expression `json:"condition"`
	Result    Expression `json:"result"`
}

// FunctionCall represents name([DISTINCT] args).
type FunctionCall struct {
	Name     string       `json:"name"`
	Distinct bool         `json:"distinct,omitempty"`
	Args     []Expression `json:"args,omitempty"`
}

func (f *FunctionCall) expressionNode() {}

// Wildcard represents * in a select list or in count(*).
type Wildcard struct{}

func (w *Wildcard) expressionNode() {}

// PrecedenceOf returns the binding strength of the outermost operator of e.
// Primaries return HIGHEST.
func PrecedenceOf(e Expression) Precedence {
	switch e := e.(type) {
	case *BinaryExpression:
		return e.Operator.Precedence()
	case *UnaryExpression:
		return e.Operator.Precedence()
	case *Subscript, *Dereference:
		return POSTFIX
	}
	return HIGHEST
}

// AcceptsPostfix reports whether e may be the base of a subscript or
// dereference without parentheses.
func AcceptsPostfix(e Expression) bool {
	switch e.(type) {
	case *Identifier, *Dereference, *Subscript, *FunctionCall, *ArrayConstructor, *Cast:
		return true
	}
	return false
}
