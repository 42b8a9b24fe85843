package ast

// ArrayType represents ARRAY<element>.
type ArrayType struct {
	Element Type `json:"element"`
}

func (a *ArrayType) typeNode()          {}
func (a *ArrayType) typeParameterNode() {}

// MapType represents MAP<key, value>.
type MapType struct {
	Key   Type `json:"key"`
	Value Type `json:"value"`
}

func (m *MapType) typeNode()          {}
func (m *MapType) typeParameterNode() {}

// RowType represents ROW(name type, ...).
type RowType struct {
	Fields []*RowField `json:"fields"`
}

func (r *RowType) typeNode()          {}
func (r *RowType) typeParameterNode() {}

// RowField is a named field of a ROW type.
type RowField struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// BaseTypeKind distinguishes the multi-word built-in types from plain
// named types.
type BaseTypeKind string

const (
	UserDefined           BaseTypeKind = "UserDefined"
	DoublePrecision       BaseTypeKind = "DoublePrecision"
	TimeWithTimeZone      BaseTypeKind = "TimeWithTimeZone"
	TimestampWithTimeZone BaseTypeKind = "TimestampWithTimeZone"
)

// BaseType is a named type with optional parameters, such as
// varchar(10) or decimal(10, 2). Name is only set for UserDefined.
type BaseType struct {
	Kind   BaseTypeKind    `json:"kind"`
	Name   string          `json:"name,omitempty"`
	Params []TypeParameter `json:"params,omitempty"`
}

func (b *BaseType) typeNode()          {}
func (b *BaseType) typeParameterNode() {}

// IntegerParameter is an integer type parameter.
type IntegerParameter struct {
	Value string `json:"value"`
}

func (i *IntegerParameter) typeParameterNode() {}
