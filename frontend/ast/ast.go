// Package ast is the typed syntax tree the compiler works on, from the parser's output
// down to the desugared, fully typed module handed to the backend.
//
// Nodes are never mutated once built: passes produce new trees.
// A nil types.Type in a node means the type is not known yet, and inference will fill it in.
package ast

import (
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
)

// Expression is the closed set of expression nodes below.
type Expression interface {
	source.Positioner
	exprNode()
}

var (
	_ Expression = (*Number)(nil)
	_ Expression = (*Boolean)(nil)
	_ Expression = (*String)(nil)
	_ Expression = (*None)(nil)
	_ Expression = (*Variable)(nil)
	_ Expression = (*Application)(nil)
	_ Expression = (*If)(nil)
	_ Expression = (*Let)(nil)
	_ Expression = (*Case)(nil)
	_ Expression = (*ArithmeticOperation)(nil)
	_ Expression = (*OrderOperation)(nil)
	_ Expression = (*BooleanOperation)(nil)
	_ Expression = (*EqualityOperation)(nil)
	_ Expression = (*RecordConstruction)(nil)
	_ Expression = (*RecordElementOperation)(nil)
	_ Expression = (*RecordUpdate)(nil)
	_ Expression = (*List)(nil)
	_ Expression = (*ListCase)(nil)
	_ Expression = (*TypeCoercion)(nil)
	_ Expression = (*Pipe)(nil)
)

type Number struct {
	source.Range
	Value float64
}

type Boolean struct {
	source.Range
	Value bool
}

type String struct {
	source.Range
	Value string
}

type None struct {
	source.Range
}

type Variable struct {
	source.Range
	Name string
}

// Application applies Function to a single Argument: multi-argument calls are nested Applications
type Application struct {
	source.Range
	Function Expression
	Argument Expression
}

type If struct {
	source.Range
	Condition Expression
	Then      Expression
	Else      Expression
}

// Let binds Definitions in Expression.
//
// Either all Definitions are functions, which are mutually recursive,
// or all are values, which are bound in order.
type Let struct {
	source.Range
	Definitions []Definition
	Expression  Expression
}

// Case matches Argument, a value of Type, against the type of each Alternative in order
type Case struct {
	source.Range
	Type         types.Type
	Argument     Expression
	Alternatives []Alternative
}

// Alternative binds Name to the matched value, narrowed to Type, in Expression
type Alternative struct {
	Type       types.Type
	Name       string
	Expression Expression
}

type ArithmeticOperator int

const (
	Add ArithmeticOperator = iota
	Subtract
	Multiply
	Divide
)

type ArithmeticOperation struct {
	source.Range
	Operator ArithmeticOperator
	Lhs      Expression
	Rhs      Expression
}

type OrderOperator int

const (
	LessThan OrderOperator = iota
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

type OrderOperation struct {
	source.Range
	Operator OrderOperator
	Lhs      Expression
	Rhs      Expression
}

type BooleanOperator int

const (
	And BooleanOperator = iota
	Or
)

type BooleanOperation struct {
	source.Range
	Operator BooleanOperator
	Lhs      Expression
	Rhs      Expression
}

type EqualityOperator int

const (
	Equal EqualityOperator = iota
	NotEqual
)

// EqualityOperation compares Lhs and Rhs, which are both of Type
type EqualityOperation struct {
	source.Range
	Operator EqualityOperator
	Type     types.Type
	Lhs      Expression
	Rhs      Expression
}

type RecordField struct {
	Name       string
	Expression Expression
}

// RecordConstruction builds a record of Type, which must resolve to a types.Record.
type RecordConstruction struct {
	source.Range
	Type   types.Type
	Fields []RecordField
}

// RecordElementOperation reads Field out of Record, a value of Type
type RecordElementOperation struct {
	source.Range
	Type   types.Type
	Record Expression
	Field  string
}

// RecordUpdate copies Record, a value of Type, replacing Fields
type RecordUpdate struct {
	source.Range
	Type   types.Type
	Record Expression
	Fields []RecordField
}

// ListElement is either a single element, or a list whose elements are spread into the outer list
type ListElement struct {
	Expression Expression
	Spread     bool
}

// List is a list literal of Type, which resolves to a types.List
type List struct {
	source.Range
	Type     types.Type
	Elements []ListElement
}

// ListCase deconstructs Argument, a list of Type, into its first element and the rest of it
type ListCase struct {
	source.Range
	Type                types.Type
	Argument            Expression
	FirstName           string
	RestName            string
	EmptyAlternative    Expression
	NonEmptyAlternative Expression
}

// TypeCoercion widens Argument from type From to type To.
// Only the compiler creates them.
type TypeCoercion struct {
	source.Range
	From     types.Type
	To       types.Type
	Argument Expression
}

// Pipe is `Lhs |> Rhs`, that is, Rhs applied to Lhs
type Pipe struct {
	source.Range
	Lhs Expression
	Rhs Expression
}

func (*Number) exprNode()                 {}
func (*Boolean) exprNode()                {}
func (*String) exprNode()                 {}
func (*None) exprNode()                   {}
func (*Variable) exprNode()               {}
func (*Application) exprNode()            {}
func (*If) exprNode()                     {}
func (*Let) exprNode()                    {}
func (*Case) exprNode()                   {}
func (*ArithmeticOperation) exprNode()    {}
func (*OrderOperation) exprNode()         {}
func (*BooleanOperation) exprNode()       {}
func (*EqualityOperation) exprNode()      {}
func (*RecordConstruction) exprNode()     {}
func (*RecordElementOperation) exprNode() {}
func (*RecordUpdate) exprNode()           {}
func (*List) exprNode()                   {}
func (*ListCase) exprNode()               {}
func (*TypeCoercion) exprNode()           {}
func (*Pipe) exprNode()                   {}

// NewApplication applies function to every argument in turn
func NewApplication(function Expression, arguments ...Expression) Expression {
	e := function
	for _, arg := range arguments {
		e = &Application{Range: source.RangeBetween(function, arg), Function: e, Argument: arg}
	}
	return e
}

// ApplicationSpine unfolds nested applications `f a b c` into f and [a, b, c]
func ApplicationSpine(e Expression) (function Expression, arguments []Expression) {
	for {
		app, ok := e.(*Application)
		if !ok {
			break
		}
		arguments = append(arguments, app.Argument)
		e = app.Function
	}
	for i, j := 0, len(arguments)-1; i < j; i, j = i+1, j-1 {
		arguments[i], arguments[j] = arguments[j], arguments[i]
	}
	return e, arguments
}
