package ast

import "testing"

func id(name string) *Identifier { return &Identifier{Name: name} }
func num(v string) *Literal      { return &Literal{Type: LiteralNumeric, Value: v} }

func bin(l Expression, op BinaryOperator, r Expression) *BinaryExpression {
	return &BinaryExpression{Left: l, Operator: op, Right: r}
}

func TestBinaryOperatorDisplay(t *testing.T) {
	tests := []struct {
		op   BinaryOperator
		want string
	}{
		{OpGreater, "a > b"},
		{OpLess, "a < b"},
		{OpAnd, "a and b"},
		{OpOr, "a or b"},
		{OpIs, "a is b"},
		{OpIsNot, "a is not b"},
		{OpLessEquals, "a <= b"},
		{OpGreaterEquals, "a >= b"},
		{OpNotEquals, "a != b"},
		{OpConcat, "a || b"},
		{OpLeftShift, "a << b"},
	}
	for _, tt := range tests {
		if got := bin(id("a"), tt.op, id("b")).String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestParentheses(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{
			name: "left associative needs no parens",
			expr: bin(bin(id("a"), OpSubtract, id("b")), OpSubtract, id("c")),
			want: "a - b - c",
		},
		{
			name: "right nested at equal precedence",
			expr: bin(id("a"), OpSubtract, bin(id("b"), OpSubtract, id("c"))),
			want: "a - (b - c)",
		},
		{
			name: "lower precedence operand",
			expr: bin(bin(id("a"), OpAdd, id("b")), OpMultiply, id("c")),
			want: "(a + b) * c",
		},
		{
			name: "higher precedence operand",
			expr: bin(id("a"), OpAdd, bin(id("b"), OpMultiply, id("c"))),
			want: "a + b * c",
		},
		{
			name: "or under and",
			expr: bin(bin(id("a"), OpOr, id("b")), OpAnd, id("c")),
			want: "(a or b) and c",
		},
		{
			name: "not over comparison",
			expr: &UnaryExpression{Operator: OpNot, Operand: bin(id("a"), OpEquals, id("b"))},
			want: "not a = b",
		},
		{
			name: "not over and",
			expr: &UnaryExpression{Operator: OpNot, Operand: bin(id("a"), OpAnd, id("b"))},
			want: "not (a and b)",
		},
		{
			name: "negation of a product",
			expr: &UnaryExpression{Operator: OpNegative, Operand: bin(id("a"), OpMultiply, id("b"))},
			want: "- (a * b)",
		},
		{
			name: "unary chain",
			expr: &UnaryExpression{Operator: OpNegative, Operand: &UnaryExpression{Operator: OpPositive, Operand: num("9")}},
			want: "- + 9",
		},
		{
			name: "subscript of a case",
			expr: &Subscript{
				Base:  &Case{Whens: []*WhenClause{{Condition: &Literal{Type: LiteralBoolean, Value: "true"}, Result: num("1")}}},
				Index: num("1"),
			},
			want: "(case when true then 1 end)[1]",
		},
		{
			name: "subscript of an identifier named array",
			expr: &Subscript{Base: id("array"), Index: num("1")},
			want: "(array)[1]",
		},
		{
			name: "dereference chain",
			expr: &Dereference{Base: &Subscript{Base: id("a"), Index: num("1")}, Field: "b"},
			want: "a[1].b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.expr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatExpressions(t *testing.T) {
	tests := []struct {
		expr Expression
		want string
	}{
		{&Literal{Type: LiteralString, Value: "it's"}, "'it''s'"},
		{&Literal{Type: LiteralBlob, Value: "0aff"}, "X'0aff'"},
		{&Literal{Type: LiteralNull}, "null"},
		{&Literal{Type: LiteralCurrentTimestamp}, "current_timestamp"},
		{&Identifier{Name: "select"}, `"select"`},
		{&Identifier{Name: "my col"}, `"my col"`},
		{&Identifier{Name: "a", Quoted: true}, `"a"`},
		{&Identifier{Name: "year"}, "year"},
		{&ArrayConstructor{Elements: []Expression{num("1"), num("2")}}, "array[1, 2]"},
		{&Cast{Expression: id("a"), Type: &BaseType{Kind: UserDefined, Name: "bigint"}}, "cast(a as bigint)"},
		{&Cast{Expression: id("a"), Type: &BaseType{Kind: DoublePrecision}, Safe: true}, "try_cast(a as double precision)"},
		{&TypedLiteral{Type: "DATE", Value: "2020-01-01"}, "DATE '2020-01-01'"},
		{&TypedLiteral{Type: "x", Value: "ab"}, `"x" 'ab'`},
		{&Interval{Negative: true, Value: "3", From: Year, To: Month}, "interval -'3' year to month"},
		{&FunctionCall{Name: "count", Args: []Expression{&Wildcard{}}}, "count(*)"},
		{&FunctionCall{Name: "count", Distinct: true, Args: []Expression{id("a")}}, "count(distinct a)"},
		{&FunctionCall{Name: "now"}, "now()"},
		{
			&Case{Operand: id("a"), Whens: []*WhenClause{{Condition: num("1"), Result: num("2")}}, Else: num("3")},
			"case a when 1 then 2 else 3 end",
		},
	}
	for _, tt := range tests {
		if got := Format(tt.expr); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestFormatTypes(t *testing.T) {
	bigint := &BaseType{Kind: UserDefined, Name: "bigint"}
	tests := []struct {
		typ  Type
		want string
	}{
		{&ArrayType{Element: &ArrayType{Element: bigint}}, "array<array<bigint>>"},
		{&MapType{Key: &BaseType{Kind: UserDefined, Name: "varchar"}, Value: bigint}, "map<varchar, bigint>"},
		{&RowType{Fields: []*RowField{{Name: "x", Type: bigint}, {Name: "y", Type: &BaseType{Kind: UserDefined, Name: "double"}}}}, "row(x bigint, y double)"},
		{&BaseType{Kind: UserDefined, Name: "decimal", Params: []TypeParameter{&IntegerParameter{Value: "10"}, &IntegerParameter{Value: "2"}}}, "decimal(10, 2)"},
		{&BaseType{Kind: TimestampWithTimeZone}, "timestamp with time zone"},
		{&BaseType{Kind: UserDefined, Name: "row", Params: []TypeParameter{bigint}}, `"row"(bigint)`},
	}
	for _, tt := range tests {
		if got := Format(tt.typ); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestFormatStatements(t *testing.T) {
	name := func(parts ...string) *QualifiedName { return &QualifiedName{Parts: parts} }
	sel := &Select{
		Distinctness: Distinct,
		Items: []*SelectItem{
			{Expression: id("a")},
			{Expression: id("b"), Alias: &AliasName{Name: "c"}},
		},
		From:  name("abc"),
		Where: bin(id("a"), OpGreater, num("1")),
	}
	tests := []struct {
		stmt Statement
		want string
	}{
		{
			&Query{Body: &QueryBody{Term: &QueryTerm{Select: sel}}},
			"select distinct a, b as c \n from abc \n where a > 1",
		},
		{
			&Query{Body: &QueryBody{
				Term: &QueryTerm{
					Select: &Select{Items: []*SelectItem{{Expression: id("a")}}},
					Other: &SetQueryTerm{Operator: Union, Query: &QueryTerm{
						Select: &Select{Items: []*SelectItem{{Expression: id("b")}}},
					}},
				},
				OrderBy: []*SortItem{{Expression: id("a"), Order: Descending, Nulls: NullsLast}},
				Limit:   &Limit{Count: num("10"), Offset: num("5")},
			}},
			"select a \n union distinct \n select b \n order by a desc nulls last \n limit 10 offset 5",
		},
		{&Use{Schema: name("cat", "sch")}, "use cat.sch"},
		{&CreateSchema{Schema: name("s"), IfNotExists: true}, "create schema if not exists s"},
		{&AlterSchema{Schema: name("a", "b"), NewName: "c"}, "alter schema a.b rename to c"},
		{&DropSchema{Schema: name("s"), IfExists: true, Behavior: DropCascade}, "drop schema if exists s cascade"},
		{&DropTable{Table: name("from")}, `drop table "from"`},
		{
			&CreateTable{Table: name("t"), Elements: []*ColumnDefinition{{Name: "a", Type: &BaseType{Kind: UserDefined, Name: "bigint"}}}},
			"create table t (a bigint)",
		},
		{&Delete{Table: name("t"), Where: bin(id("a"), OpEquals, num("1"))}, "delete from t where a = 1"},
	}
	for _, tt := range tests {
		if got := tt.stmt.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	a := bin(id("a"), OpAdd, num("1"))
	b := bin(id("a"), OpAdd, num("1"))
	c := bin(id("a"), OpSubtract, num("1"))
	if !Equal(a, b) {
		t.Error("identical trees should be equal")
	}
	if Equal(a, c) {
		t.Error("trees with different operators should not be equal")
	}
}
