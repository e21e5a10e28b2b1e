package desugar

import (
	"github.com/benbjohnson/immutable"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/infer"
	"github.com/cottand/ilec/frontend/types"
)

// scope is what a pass knows about the names visible at some point of a module
type scope struct {
	// env holds the types of variables in scope. Before inference they may be nil.
	env infer.Env
	// arities holds, for every name in scope that refers to a function definition,
	// how many arguments that definition takes. Values shadow functions with arity 0.
	arities *immutable.Map[string, int]
}

func newScope(env infer.Env) scope {
	return scope{env: env, arities: immutable.NewMap[string, int](nil)}
}

func (s scope) bind(name string, t types.Type) scope {
	return scope{env: s.env.Bind(name, t), arities: s.arities.Set(name, 0)}
}

func (s scope) bindDefinition(def ast.Definition) scope {
	arity := 0
	if f, ok := def.(*ast.FunctionDefinition); ok {
		arity = len(f.Arguments)
	}
	return scope{env: s.env.Bind(def.DefinitionName(), def.DefinitionType()), arities: s.arities.Set(def.DefinitionName(), arity)}
}

func (s scope) arity(name string) int {
	arity, _ := s.arities.Get(name)
	return arity
}

func (s scope) isLocal(name string) bool {
	_, ok := s.env.Lookup(name)
	return ok
}

// walker rebuilds a module bottom-up while keeping track of the scope of every node.
//
// onExpression sees a node once its children were rebuilt, with the scope the node itself
// is evaluated in. Application spines `f a b c` are visited as a single node, so
// onExpression never sees a partial spine.
// onDefinition sees a definition once its body was rebuilt, with the scope its body
// is evaluated in (so including the arguments of a function).
type walker struct {
	// extractor gives the types of function arguments. Before inference it is nil,
	// and arguments are bound without a type.
	extractor *infer.TypeExtractor

	onExpression func(e ast.Expression, s scope) (ast.Expression, error)
	onDefinition func(def ast.Definition, s scope) (ast.Definition, error)
}

// module walks the top-level definitions of m in scope s, to which they are added first
func (w walker) module(m *ast.Module, s scope) (*ast.Module, error) {
	for _, def := range m.Definitions {
		s = s.bindDefinition(def)
	}
	definitions := make([]ast.Definition, 0, len(m.Definitions))
	for _, def := range m.Definitions {
		newDef, err := w.definition(def, s)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, newDef)
	}
	return m.WithDefinitions(definitions), nil
}

func (w walker) definition(def ast.Definition, s scope) (ast.Definition, error) {
	var rebuilt ast.Definition
	switch def := def.(type) {
	case *ast.FunctionDefinition:
		inner, err := w.arguments(def, s)
		if err != nil {
			return nil, err
		}
		body, err := w.expression(def.Body, inner)
		if err != nil {
			return nil, err
		}
		rebuilt = &ast.FunctionDefinition{Range: def.Range, Name: def.Name, Arguments: def.Arguments, Type: def.Type, Body: body}
		s = inner
	case *ast.ValueDefinition:
		body, err := w.expression(def.Body, s)
		if err != nil {
			return nil, err
		}
		rebuilt = &ast.ValueDefinition{Range: def.Range, Name: def.Name, Type: def.Type, Body: body}
	default:
		ilerr.Unreachable("unexpected definition %T", def)
	}
	if w.onDefinition == nil {
		return rebuilt, nil
	}
	return w.onDefinition(rebuilt, s)
}

func (w walker) arguments(def *ast.FunctionDefinition, s scope) (scope, error) {
	if w.extractor == nil || def.Type == nil {
		for _, name := range def.Arguments {
			s = s.bind(name, nil)
		}
		return s, nil
	}
	env, err := w.extractor.FunctionEnv(def, infer.NewEnv(nil))
	if err != nil {
		return s, err
	}
	for _, name := range def.Arguments {
		t, _ := env.Lookup(name)
		s = s.bind(name, t)
	}
	return s, nil
}

func (w walker) expression(e ast.Expression, s scope) (ast.Expression, error) {
	rebuilt, err := w.children(e, s)
	if err != nil {
		return nil, err
	}
	if w.onExpression == nil {
		return rebuilt, nil
	}
	return w.onExpression(rebuilt, s)
}

func (w walker) children(e ast.Expression, s scope) (ast.Expression, error) {
	var err error
	rec := func(child ast.Expression, s scope) ast.Expression {
		if err != nil || child == nil {
			return child
		}
		var out ast.Expression
		out, err = w.expression(child, s)
		return out
	}
	fields := func(fs []ast.RecordField) []ast.RecordField {
		out := make([]ast.RecordField, len(fs))
		for i, f := range fs {
			out[i] = ast.RecordField{Name: f.Name, Expression: rec(f.Expression, s)}
		}
		return out
	}

	var out ast.Expression
	switch e := e.(type) {
	case *ast.Number, *ast.Boolean, *ast.String, *ast.None, *ast.Variable:
		return e, nil
	case *ast.Application:
		function, arguments := ast.ApplicationSpine(e)
		function = rec(function, s)
		for i, arg := range arguments {
			arguments[i] = rec(arg, s)
		}
		out = ast.NewApplication(function, arguments...)
	case *ast.If:
		out = &ast.If{Range: e.Range, Condition: rec(e.Condition, s), Then: rec(e.Then, s), Else: rec(e.Else, s)}
	case *ast.Let:
		return w.let(e, s)
	case *ast.Case:
		alternatives := make([]ast.Alternative, len(e.Alternatives))
		for i, alt := range e.Alternatives {
			alternatives[i] = ast.Alternative{Type: alt.Type, Name: alt.Name, Expression: rec(alt.Expression, s.bind(alt.Name, alt.Type))}
		}
		out = &ast.Case{Range: e.Range, Type: e.Type, Argument: rec(e.Argument, s), Alternatives: alternatives}
	case *ast.ArithmeticOperation:
		out = &ast.ArithmeticOperation{Range: e.Range, Operator: e.Operator, Lhs: rec(e.Lhs, s), Rhs: rec(e.Rhs, s)}
	case *ast.OrderOperation:
		out = &ast.OrderOperation{Range: e.Range, Operator: e.Operator, Lhs: rec(e.Lhs, s), Rhs: rec(e.Rhs, s)}
	case *ast.BooleanOperation:
		out = &ast.BooleanOperation{Range: e.Range, Operator: e.Operator, Lhs: rec(e.Lhs, s), Rhs: rec(e.Rhs, s)}
	case *ast.EqualityOperation:
		out = &ast.EqualityOperation{Range: e.Range, Operator: e.Operator, Type: e.Type, Lhs: rec(e.Lhs, s), Rhs: rec(e.Rhs, s)}
	case *ast.RecordConstruction:
		out = &ast.RecordConstruction{Range: e.Range, Type: e.Type, Fields: fields(e.Fields)}
	case *ast.RecordElementOperation:
		out = &ast.RecordElementOperation{Range: e.Range, Type: e.Type, Record: rec(e.Record, s), Field: e.Field}
	case *ast.RecordUpdate:
		out = &ast.RecordUpdate{Range: e.Range, Type: e.Type, Record: rec(e.Record, s), Fields: fields(e.Fields)}
	case *ast.List:
		elements := make([]ast.ListElement, len(e.Elements))
		for i, elem := range e.Elements {
			elements[i] = ast.ListElement{Expression: rec(elem.Expression, s), Spread: elem.Spread}
		}
		out = &ast.List{Range: e.Range, Type: e.Type, Elements: elements}
	case *ast.ListCase:
		var element types.Type
		if w.extractor != nil && e.Type != nil {
			if element, err = w.extractor.ListElement(e.Type); err != nil {
				return nil, err
			}
		}
		out = &ast.ListCase{
			Range:               e.Range,
			Type:                e.Type,
			Argument:            rec(e.Argument, s),
			FirstName:           e.FirstName,
			RestName:            e.RestName,
			EmptyAlternative:    rec(e.EmptyAlternative, s),
			NonEmptyAlternative: rec(e.NonEmptyAlternative, s.bind(e.FirstName, element).bind(e.RestName, e.Type)),
		}
	case *ast.TypeCoercion:
		out = &ast.TypeCoercion{Range: e.Range, From: e.From, To: e.To, Argument: rec(e.Argument, s)}
	case *ast.Pipe:
		out = &ast.Pipe{Range: e.Range, Lhs: rec(e.Lhs, s), Rhs: rec(e.Rhs, s)}
	default:
		ilerr.Unreachable("unexpected expression %T", e)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (w walker) let(e *ast.Let, s scope) (ast.Expression, error) {
	definitions := make([]ast.Definition, 0, len(e.Definitions))
	functions := len(e.Definitions) != 0
	for _, def := range e.Definitions {
		_, isFunc := def.(*ast.FunctionDefinition)
		functions = functions && isFunc
	}
	if functions {
		for _, def := range e.Definitions {
			s = s.bindDefinition(def)
		}
	}
	for _, def := range e.Definitions {
		newDef, err := w.definition(def, s)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, newDef)
		if !functions {
			s = s.bindDefinition(newDef)
		}
	}
	body, err := w.expression(e.Expression, s)
	if err != nil {
		return nil, err
	}
	return &ast.Let{Range: e.Range, Definitions: definitions, Expression: body}, nil
}
