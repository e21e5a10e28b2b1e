// Package ir is the target of lowering: an explicitly typed language of closures,
// tagged variants, flat records and primitive operations, with no implicit polymorphism.
//
// The package also has a reference Interpreter, so lowered modules can be run and tested
// without a native code generator.
package ir

type Argument struct {
	Name string
	Type Type
}

// FunctionDefinition is closed over Environment: the values it captures when the closure
// is created. Top-level functions capture nothing, as globals are always in scope.
type FunctionDefinition struct {
	Name        string
	Environment []Argument
	Arguments   []Argument
	Result      Type
	Body        Expr
}

func (d *FunctionDefinition) Type() *FunctionType {
	arguments := make([]Type, 0, len(d.Arguments))
	for _, arg := range d.Arguments {
		arguments = append(arguments, arg.Type)
	}
	return &FunctionType{Arguments: arguments, Result: d.Result}
}

// GlobalValue is evaluated the first time it is used
type GlobalValue struct {
	Name string
	Type Type
	Body Expr
}

// Declaration is a global the module uses but does not define: it is provided
// by another module or by the host
type Declaration struct {
	Name string
	Type Type
}

type Module struct {
	Path            string
	TypeDefinitions []*TypeDefinition
	Declarations    []Declaration
	Functions       []*FunctionDefinition
	Values          []*GlobalValue
}
