// Package types holds the structural type model of the compiler and the
// services every stage shares to reason about it: reference resolution,
// equality, union canonicalization, comparability and subtyping.
package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cottand/ilec/frontend/source"
)

// Type is the closed set of type variants below.
// Every variant is a pointer to a struct embedding source.Range.
type Type interface {
	source.Positioner
	fmt.Stringer
	isType()
}

var (
	_ Type = (*Any)(nil)
	_ Type = (*Boolean)(nil)
	_ Type = (*Number)(nil)
	_ Type = (*String)(nil)
	_ Type = (*None)(nil)
	_ Type = (*Function)(nil)
	_ Type = (*List)(nil)
	_ Type = (*Record)(nil)
	_ Type = (*Union)(nil)
	_ Type = (*Reference)(nil)
	_ Type = (*Variable)(nil)
)

// Any is the top type: every value is of type Any
type Any struct{ source.Range }

type Boolean struct{ source.Range }

type Number struct{ source.Range }

type String struct{ source.Range }

// None is the unit type, its only value is none
type None struct{ source.Range }

type Function struct {
	source.Range
	Argument Type
	Result   Type
}

type List struct {
	source.Range
	Element Type
}

type RecordField struct {
	Name string
	Type Type
}

// Record is a named record type. The order of Fields is the layout order of the record;
// it does not matter for equality.
type Record struct {
	source.Range
	Name   string
	Fields []RecordField
}

// Union holds Members which, once canonicalized, are neither unions themselves nor duplicates of each other.
// See Canonicalizer.
type Union struct {
	source.Range
	Members []Type
}

// Reference is a named type, to be looked up in the type definitions of the module via Resolver
type Reference struct {
	source.Range
	Name string
}

// Variable is an inference placeholder. It never survives type inference.
type Variable struct {
	source.Range
	ID uint64
}

func (*Any) isType()       {}
func (*Boolean) isType()   {}
func (*Number) isType()    {}
func (*String) isType()    {}
func (*None) isType()      {}
func (*Function) isType()  {}
func (*List) isType()      {}
func (*Record) isType()    {}
func (*Union) isType()     {}
func (*Reference) isType() {}
func (*Variable) isType()  {}

func (*Any) String() string     { return "Any" }
func (*Boolean) String() string { return "Boolean" }
func (*Number) String() string  { return "Number" }
func (*String) String() string  { return "String" }
func (*None) String() string    { return "None" }

func (t *Function) String() string {
	arg := t.Argument.String()
	if _, isFunc := t.Argument.(*Function); isFunc {
		arg = "(" + arg + ")"
	}
	if _, isUnion := t.Argument.(*Union); isUnion {
		arg = "(" + arg + ")"
	}
	return arg + " -> " + t.Result.String()
}

func (t *List) String() string { return "[" + t.Element.String() + "]" }

func (t *Record) String() string {
	if t.Name != "" {
		return t.Name
	}
	return t.FieldsString()
}

// FieldsString shows the fields of the record in layout order
func (t *Record) FieldsString() string {
	sb := strings.Builder{}
	sb.WriteString("{")
	for i, field := range t.Fields {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(field.Name)
		sb.WriteString(": ")
		sb.WriteString(field.Type.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// Field returns the field called name and its position in the layout of t
func (t *Record) Field(name string) (field RecordField, index int, ok bool) {
	for i, f := range t.Fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return RecordField{}, -1, false
}

func (t *Union) String() string {
	members := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		s := m.String()
		if _, isFunc := m.(*Function); isFunc {
			s = "(" + s + ")"
		}
		members = append(members, s)
	}
	return strings.Join(members, " | ")
}

func (t *Reference) String() string { return t.Name }

func (t *Variable) String() string { return "$" + strconv.FormatUint(t.ID, 10) }

// NewFunction builds the curried function type args[0] -> args[1] -> ... -> result
func NewFunction(result Type, args ...Type) Type {
	t := result
	for i := len(args) - 1; i >= 0; i-- {
		t = &Function{Range: source.RangeOf(args[i]), Argument: args[i], Result: t}
	}
	return t
}

func NewUnion(members ...Type) *Union {
	r := source.Range{}
	if len(members) != 0 {
		r = source.RangeBetween(members[0], members[len(members)-1])
	}
	return &Union{Range: r, Members: members}
}

// Transform rebuilds t bottom-up, replacing every node n by f(n) once its children were transformed.
// Record fields are transformed too, but the record itself is rebuilt only if a field changed.
func Transform(t Type, f func(Type) Type) Type {
	switch t := t.(type) {
	case *Function:
		arg, res := Transform(t.Argument, f), Transform(t.Result, f)
		if arg != t.Argument || res != t.Result {
			return f(&Function{Range: t.Range, Argument: arg, Result: res})
		}
	case *List:
		elem := Transform(t.Element, f)
		if elem != t.Element {
			return f(&List{Range: t.Range, Element: elem})
		}
	case *Union:
		changed := false
		members := make([]Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = Transform(m, f)
			changed = changed || members[i] != m
		}
		if changed {
			return f(&Union{Range: t.Range, Members: members})
		}
	case *Record:
		changed := false
		fields := make([]RecordField, len(t.Fields))
		for i, field := range t.Fields {
			fields[i] = RecordField{Name: field.Name, Type: Transform(field.Type, f)}
			changed = changed || fields[i].Type != field.Type
		}
		if changed {
			return f(&Record{Range: t.Range, Name: t.Name, Fields: fields})
		}
	}
	return f(t)
}

// ContainsVariable reports whether a Variable occurs anywhere inside t
func ContainsVariable(t Type) bool {
	found := false
	Transform(t, func(t Type) Type {
		if _, ok := t.(*Variable); ok {
			found = true
		}
		return t
	})
	return found
}

// WithRange returns a shallow copy of t located at r
func WithRange(t Type, r source.Range) Type {
	switch t := t.(type) {
	case *Any:
		return &Any{Range: r}
	case *Boolean:
		return &Boolean{Range: r}
	case *Number:
		return &Number{Range: r}
	case *String:
		return &String{Range: r}
	case *None:
		return &None{Range: r}
	case *Function:
		return &Function{Range: r, Argument: t.Argument, Result: t.Result}
	case *List:
		return &List{Range: r, Element: t.Element}
	case *Record:
		return &Record{Range: r, Name: t.Name, Fields: t.Fields}
	case *Union:
		return &Union{Range: r, Members: t.Members}
	case *Reference:
		return &Reference{Range: r, Name: t.Name}
	case *Variable:
		return &Variable{Range: r, ID: t.ID}
	}
	panic(fmt.Sprintf("unexpected type %T", t))
}
