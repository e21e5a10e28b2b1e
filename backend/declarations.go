package backend

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/infer"
	"github.com/cottand/ilec/ir"
)

// function lowers def into a closure over the locals of s its body uses
func (c *Compiler) function(def *ast.FunctionDefinition, s scope) (*ir.FunctionDefinition, error) {
	env, err := c.extractor.FunctionEnv(def, infer.NewEnv(nil))
	if err != nil {
		return nil, err
	}
	inner := s
	arguments := make([]ir.Argument, 0, len(def.Arguments))
	for _, name := range def.Arguments {
		t, _ := env.Lookup(name)
		irType, err := c.compileType(t)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, ir.Argument{Name: name, Type: irType})
		inner = inner.bind(name, t)
	}
	resultType, err := c.extractor.FunctionResult(def)
	if err != nil {
		return nil, err
	}
	result, err := c.compileType(resultType)
	if err != nil {
		return nil, err
	}
	body, err := c.expression(def.Body, inner)
	if err != nil {
		return nil, err
	}

	f := &ir.FunctionDefinition{Name: def.Name, Arguments: arguments, Result: result, Body: body}
	for name := range ir.FunctionFreeVariables(f).Items() {
		t, ok := s.locals.Lookup(name)
		if !ok {
			continue
		}
		irType, err := c.compileType(t)
		if err != nil {
			return nil, err
		}
		f.Environment = append(f.Environment, ir.Argument{Name: name, Type: irType})
	}
	return f, nil
}

func (c *Compiler) let(e *ast.Let, s scope) (ir.Expr, error) {
	functions, values := 0, 0
	for _, def := range e.Definitions {
		switch def := def.(type) {
		case *ast.FunctionDefinition:
			if len(def.Arguments) == 0 {
				values++
			} else {
				functions++
			}
		case *ast.ValueDefinition:
			values++
		}
	}
	if functions != 0 && values != 0 {
		return nil, ilerr.New(ilerr.NewMixedDefinitionsInLet{Positioner: e.Range})
	}
	if functions != 0 {
		return c.letFunctions(e, s)
	}
	return c.letValues(e.Definitions, e.Expression, s)
}

// letFunctions binds mutually recursive functions
func (c *Compiler) letFunctions(e *ast.Let, s scope) (ir.Expr, error) {
	for _, def := range e.Definitions {
		s = s.bind(def.DefinitionName(), def.DefinitionType())
	}
	functions := make([]*ir.FunctionDefinition, 0, len(e.Definitions))
	for _, def := range e.Definitions {
		f, err := c.function(def.(*ast.FunctionDefinition), s)
		if err != nil {
			return nil, err
		}
		functions = append(functions, f)
	}
	body, err := c.expression(e.Expression, s)
	if err != nil {
		return nil, err
	}
	return &ir.LetRecursive{Functions: functions, Body: body}, nil
}

// letValues binds values in order, each one seeing the previous ones
func (c *Compiler) letValues(defs []ast.Definition, body ast.Expression, s scope) (ir.Expr, error) {
	if len(defs) == 0 {
		return c.expression(body, s)
	}
	def := defs[0]
	var bound ast.Expression
	switch def := def.(type) {
	case *ast.FunctionDefinition:
		bound = def.Body
	case *ast.ValueDefinition:
		bound = def.Body
	}
	irBound, err := c.expression(bound, s)
	if err != nil {
		return nil, err
	}
	t, err := c.compileType(def.DefinitionType())
	if err != nil {
		return nil, err
	}
	rest, err := c.letValues(defs[1:], body, s.bind(def.DefinitionName(), def.DefinitionType()))
	if err != nil {
		return nil, err
	}
	return &ir.Let{Name: def.DefinitionName(), Type: t, Bound: irBound, Body: rest}, nil
}
