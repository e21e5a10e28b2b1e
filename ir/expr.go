package ir

// when adding expressions here, you should add them to the switch cases in:
// - ir:show.go/writeExpr
// - ir:free.go/freeVariables
// - ir:interpret.go/evaluate

// Expr is the closed set of IR expressions
type Expr interface {
	exprNode()
}

var (
	_ Expr = (*Number)(nil)
	_ Expr = (*Boolean)(nil)
	_ Expr = (*String)(nil)
	_ Expr = (*Unit)(nil)
	_ Expr = (*Variable)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*Let)(nil)
	_ Expr = (*LetRecursive)(nil)
	_ Expr = (*ArithmeticOperation)(nil)
	_ Expr = (*ComparisonOperation)(nil)
	_ Expr = (*AlgebraicCase)(nil)
	_ Expr = (*VariantCase)(nil)
	_ Expr = (*Variant)(nil)
	_ Expr = (*RecordConstruction)(nil)
	_ Expr = (*RecordElement)(nil)
)

type Number struct{ Value float64 }

type Boolean struct{ Value bool }

type String struct{ Value string }

type Unit struct{}

type Variable struct{ Name string }

// Call calls the closure Function with Arguments.
// When there are fewer or more Arguments than the closure takes, the call is curried.
type Call struct {
	Function  Expr
	Arguments []Expr
}

// Let binds Name to Bound, a value of Type, in Body
type Let struct {
	Name  string
	Type  Type
	Bound Expr
	Body  Expr
}

// LetRecursive creates closures for mutually recursive Functions, which are in scope
// of each other and of Body. Each closure captures its Environment when it is created.
type LetRecursive struct {
	Functions []*FunctionDefinition
	Body      Expr
}

type ArithmeticOperator int

const (
	Add ArithmeticOperator = iota
	Subtract
	Multiply
	Divide
)

type ArithmeticOperation struct {
	Operator ArithmeticOperator
	Lhs      Expr
	Rhs      Expr
}

type ComparisonOperator int

const (
	// Equal compares two numbers or two strings
	Equal ComparisonOperator = iota
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

// ComparisonOperation compares two numbers, or with Equal, two strings
type ComparisonOperation struct {
	Operator ComparisonOperator
	Lhs      Expr
	Rhs      Expr
}

// Constructor is a nullary constructor of an algebraic type
type Constructor struct {
	Name  string
	Index int
}

var (
	False = Constructor{Name: "false", Index: 0}
	True  = Constructor{Name: "true", Index: 1}
)

type AlgebraicAlternative struct {
	Constructor Constructor
	Expression  Expr
}

// AlgebraicCase dispatches on the constructor of Argument, a Boolean.
// Default is taken when no alternative matches, and may be nil.
type AlgebraicCase struct {
	Argument     Expr
	Alternatives []AlgebraicAlternative
	Default      Expr
}

// VariantAlternative matches variants holding Tag, and binds Name to their payload
type VariantAlternative struct {
	Tag        uint64
	Type       Type
	Name       string
	Expression Expr
}

// DefaultAlternative binds Name to the variant itself
type DefaultAlternative struct {
	Name       string
	Expression Expr
}

// VariantCase dispatches once on the tag of Argument. Default may be nil.
type VariantCase struct {
	Argument     Expr
	Alternatives []VariantAlternative
	Default      *DefaultAlternative
}

// Variant wraps Payload, a value of Type, with Tag
type Variant struct {
	Tag     uint64
	Type    Type
	Payload Expr
}

// RecordConstruction builds the record Record with its fields in layout order
type RecordConstruction struct {
	Record   string
	Elements []Expr
}

// RecordElement reads the field at Index out of Argument, a record of type Record
type RecordElement struct {
	Record   string
	Index    int
	Argument Expr
}

func (*Number) exprNode()              {}
func (*Boolean) exprNode()             {}
func (*String) exprNode()              {}
func (*Unit) exprNode()                {}
func (*Variable) exprNode()            {}
func (*Call) exprNode()                {}
func (*Let) exprNode()                 {}
func (*LetRecursive) exprNode()        {}
func (*ArithmeticOperation) exprNode() {}
func (*ComparisonOperation) exprNode() {}
func (*AlgebraicCase) exprNode()       {}
func (*VariantCase) exprNode()         {}
func (*Variant) exprNode()             {}
func (*RecordConstruction) exprNode()  {}
func (*RecordElement) exprNode()       {}

// NewIf is the two-arm dispatch over a Boolean
func NewIf(condition, then, otherwise Expr) *AlgebraicCase {
	return &AlgebraicCase{
		Argument: condition,
		Alternatives: []AlgebraicAlternative{
			{Constructor: True, Expression: then},
			{Constructor: False, Expression: otherwise},
		},
	}
}
