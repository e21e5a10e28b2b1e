package ir

import (
	"strings"
)

// Type is the runtime representation of a value.
// Every value has exactly one of these shapes, fixed at compile time.
type Type interface {
	String() string
	typeNode()
}

var (
	_ Type = (*NumberType)(nil)
	_ Type = (*BooleanType)(nil)
	_ Type = (*StringType)(nil)
	_ Type = (*UnitType)(nil)
	_ Type = (*VariantType)(nil)
	_ Type = (*RecordType)(nil)
	_ Type = (*FunctionType)(nil)
)

// NumberType is a 64-bit float
type NumberType struct{}

// BooleanType is the algebraic type with the constructors False and True
type BooleanType struct{}

type StringType struct{}

// UnitType has a single value, and is what None becomes
type UnitType struct{}

// VariantType is a tagged pair of a tag and a payload. Unions and Any share this encoding,
// so widening a union into a wider union or into Any keeps the value as it is.
type VariantType struct{}

// RecordType is a flat tuple laid out as its TypeDefinition says
type RecordType struct {
	Name string
}

// FunctionType is the type of closures. Closures may take several arguments at once.
type FunctionType struct {
	Arguments []Type
	Result    Type
}

func (*NumberType) typeNode()   {}
func (*BooleanType) typeNode()  {}
func (*StringType) typeNode()   {}
func (*UnitType) typeNode()     {}
func (*VariantType) typeNode()  {}
func (*RecordType) typeNode()   {}
func (*FunctionType) typeNode() {}

func (*NumberType) String() string  { return "float64" }
func (*BooleanType) String() string { return "bool" }
func (*StringType) String() string  { return "string" }
func (*UnitType) String() string    { return "unit" }
func (*VariantType) String() string { return "variant" }
func (t *RecordType) String() string {
	return "record " + t.Name
}

func (t *FunctionType) String() string {
	sb := strings.Builder{}
	sb.WriteString("(")
	for i, arg := range t.Arguments {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString(") -> ")
	sb.WriteString(t.Result.String())
	return sb.String()
}

// TypeDefinition lays out the record Name: its fields in declaration order
type TypeDefinition struct {
	Name   string
	Fields []Type
}

func (d *TypeDefinition) String() string {
	fields := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		fields = append(fields, f.String())
	}
	return "type " + d.Name + " = {" + strings.Join(fields, ", ") + "}"
}
