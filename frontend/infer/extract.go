package infer

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
)

// TypeExtractor computes the type of an expression of an already inferred module,
// so it never introduces type variables.
// Expressions with several branches have the canonical union of their branches' types.
type TypeExtractor struct {
	services *types.Services
}

func NewTypeExtractor(services *types.Services) *TypeExtractor {
	return &TypeExtractor{services: services}
}

func (x *TypeExtractor) Extract(e ast.Expression, env Env) (types.Type, error) {
	switch e := e.(type) {
	case *ast.Number:
		return &types.Number{Range: e.Range}, nil
	case *ast.Boolean:
		return &types.Boolean{Range: e.Range}, nil
	case *ast.String:
		return &types.String{Range: e.Range}, nil
	case *ast.None:
		return &types.None{Range: e.Range}, nil
	case *ast.Variable:
		t, ok := env.Lookup(e.Name)
		if !ok {
			return nil, ilerr.New(ilerr.NewVariableNotFound{Positioner: e.Range, Name: e.Name})
		}
		return t, nil
	case *ast.Application:
		return x.result(e.Function, e, env)
	case *ast.Pipe:
		return x.result(e.Rhs, e, env)
	case *ast.If:
		return x.union(env, e.Then, e.Else)
	case *ast.Let:
		return x.Extract(e.Expression, env.BindDefinitions(e.Definitions))
	case *ast.Case:
		branches := make([]types.Type, 0, len(e.Alternatives))
		for _, alt := range e.Alternatives {
			t, err := x.Extract(alt.Expression, env.Bind(alt.Name, alt.Type))
			if err != nil {
				return nil, err
			}
			branches = append(branches, t)
		}
		return x.services.Union(branches...)
	case *ast.ArithmeticOperation:
		return &types.Number{Range: e.Range}, nil
	case *ast.OrderOperation, *ast.BooleanOperation, *ast.EqualityOperation:
		return &types.Boolean{Range: source.RangeOf(e)}, nil
	case *ast.RecordConstruction:
		return e.Type, nil
	case *ast.RecordUpdate:
		return e.Type, nil
	case *ast.RecordElementOperation:
		record, ok, err := x.services.Resolver.ResolveToRecord(e.Type)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ilerr.New(ilerr.NewRecordExpected{Positioner: e.Range, Type: e.Type})
		}
		field, _, ok := record.Field(e.Field)
		if !ok {
			return nil, ilerr.New(ilerr.NewRecordFieldNotFound{Positioner: e.Range, Record: record.Name, Field: e.Field})
		}
		return field.Type, nil
	case *ast.List:
		return e.Type, nil
	case *ast.ListCase:
		list, ok, err := x.services.Resolver.ResolveToList(e.Type)
		if err != nil {
			return nil, err
		}
		var element types.Type = &types.Any{Range: e.Range}
		if ok {
			element = list.Element
		}
		empty, err := x.Extract(e.EmptyAlternative, env)
		if err != nil {
			return nil, err
		}
		nonEmpty, err := x.Extract(e.NonEmptyAlternative, env.Bind(e.FirstName, element).Bind(e.RestName, e.Type))
		if err != nil {
			return nil, err
		}
		return x.services.Union(empty, nonEmpty)
	case *ast.TypeCoercion:
		return e.To, nil
	}
	ilerr.Unreachable("unexpected expression %T", e)
	return nil, nil
}

func (x *TypeExtractor) result(function ast.Expression, at ast.Expression, env Env) (types.Type, error) {
	t, err := x.Extract(function, env)
	if err != nil {
		return nil, err
	}
	f, ok, err := x.services.Resolver.ResolveToFunction(t)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ilerr.New(ilerr.NewTypesNotMatched{Positioner: at, Lower: t, Reason: "only functions can be applied", Upper: &types.Function{Argument: &types.Any{}, Result: &types.Any{}}})
	}
	return f.Result, nil
}

func (x *TypeExtractor) union(env Env, branches ...ast.Expression) (types.Type, error) {
	ts := make([]types.Type, 0, len(branches))
	for _, b := range branches {
		t, err := x.Extract(b, env)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return x.services.Union(ts...)
}

// FunctionEnv is env extended with the arguments of def, as seen from its body
func (x *TypeExtractor) FunctionEnv(def *ast.FunctionDefinition, env Env) (Env, error) {
	t := def.Type
	for _, name := range def.Arguments {
		f, ok, err := x.services.Resolver.ResolveToFunction(t)
		if err != nil {
			return Env{}, err
		}
		if !ok {
			return Env{}, ilerr.New(ilerr.NewTypesNotMatched{
				Positioner: def.Range,
				Lower:      def.Type,
				Upper:      &types.Function{Argument: &types.Any{}, Result: &types.Any{}},
				Reason:     "function '" + def.Name + "' has more arguments than its type",
			})
		}
		env = env.Bind(name, f.Argument)
		t = f.Result
	}
	return env, nil
}

// FunctionResult is the type the body of def has to have
func (x *TypeExtractor) FunctionResult(def *ast.FunctionDefinition) (types.Type, error) {
	t := def.Type
	for range def.Arguments {
		f, ok, err := x.services.Resolver.ResolveToFunction(t)
		if err != nil {
			return nil, err
		}
		ilerr.Assert(ok, "function %s has more arguments than its type %v", def.Name, def.Type)
		t = f.Result
	}
	return t, nil
}

// ListElement is the element type of the list type t, or nil when t is not a list type
func (x *TypeExtractor) ListElement(t types.Type) (types.Type, error) {
	list, ok, err := x.services.Resolver.ResolveToList(t)
	if err != nil || !ok {
		return nil, err
	}
	return list.Element, nil
}
