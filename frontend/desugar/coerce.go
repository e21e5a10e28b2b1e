package desugar

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/infer"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
)

// InsertTypeCoercions makes every widening of a value explicit, wherever the type
// of an expression is narrower than the one its context expects:
// function results, arguments of applications, let and top-level values, record
// fields, case arguments, and the branches of ifs and cases. Branches are widened
// to the union of the types of all branches.
//
// It must be the last pass, as it relies on the shape of expressions the backend will see.
func InsertTypeCoercions(m *ast.Module, services *types.Services) (*ast.Module, error) {
	c := &coercer{services: services, extractor: infer.NewTypeExtractor(services)}
	w := walker{extractor: c.extractor, onExpression: c.expression, onDefinition: c.definition}
	return w.module(m, newScope(infer.ModuleEnv(m)))
}

type coercer struct {
	services  *types.Services
	extractor *infer.TypeExtractor
}

// coerce returns e as a value of type to
func (c *coercer) coerce(e ast.Expression, to types.Type, env infer.Env) (ast.Expression, error) {
	from, err := c.extractor.Extract(e, env)
	if err != nil {
		return nil, err
	}
	equal, err := c.services.Equality.Equal(from, to)
	if err != nil || equal {
		return e, err
	}
	if inner, ok := e.(*ast.TypeCoercion); ok {
		return &ast.TypeCoercion{Range: inner.Range, From: inner.From, To: to, Argument: inner.Argument}, nil
	}
	return &ast.TypeCoercion{Range: source.RangeOf(e), From: from, To: to, Argument: e}, nil
}

func (c *coercer) definition(def ast.Definition, s scope) (ast.Definition, error) {
	switch def := def.(type) {
	case *ast.FunctionDefinition:
		result, err := c.extractor.FunctionResult(def)
		if err != nil {
			return nil, err
		}
		body, err := c.coerce(def.Body, result, s.env)
		if err != nil {
			return nil, err
		}
		return &ast.FunctionDefinition{Range: def.Range, Name: def.Name, Arguments: def.Arguments, Type: def.Type, Body: body}, nil
	case *ast.ValueDefinition:
		body, err := c.coerce(def.Body, def.Type, s.env)
		if err != nil {
			return nil, err
		}
		return &ast.ValueDefinition{Range: def.Range, Name: def.Name, Type: def.Type, Body: body}, nil
	}
	ilerr.Unreachable("unexpected definition %T", def)
	return nil, nil
}

func (c *coercer) expression(e ast.Expression, s scope) (ast.Expression, error) {
	switch e := e.(type) {
	case *ast.Application:
		return c.application(e, s)

	case *ast.If:
		t, err := c.extractor.Extract(e, s.env)
		if err != nil {
			return nil, err
		}
		then, err := c.coerce(e.Then, t, s.env)
		if err != nil {
			return nil, err
		}
		otherwise, err := c.coerce(e.Else, t, s.env)
		if err != nil {
			return nil, err
		}
		return &ast.If{Range: e.Range, Condition: e.Condition, Then: then, Else: otherwise}, nil

	case *ast.Case:
		argument, err := c.coerce(e.Argument, e.Type, s.env)
		if err != nil {
			return nil, err
		}
		t, err := c.extractor.Extract(e, s.env)
		if err != nil {
			return nil, err
		}
		alternatives := make([]ast.Alternative, 0, len(e.Alternatives))
		for _, alt := range e.Alternatives {
			branch, err := c.coerce(alt.Expression, t, s.env.Bind(alt.Name, alt.Type))
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, ast.Alternative{Type: alt.Type, Name: alt.Name, Expression: branch})
		}
		return &ast.Case{Range: e.Range, Type: e.Type, Argument: argument, Alternatives: alternatives}, nil

	case *ast.RecordConstruction:
		record, ok, err := c.services.Resolver.ResolveToRecord(e.Type)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ilerr.New(ilerr.NewRecordExpected{Positioner: e.Range, Type: e.Type})
		}
		fields := make([]ast.RecordField, 0, len(e.Fields))
		for _, f := range e.Fields {
			field, _, ok := record.Field(f.Name)
			if !ok {
				return nil, ilerr.New(ilerr.NewRecordFieldNotFound{Positioner: e.Range, Record: record.Name, Field: f.Name})
			}
			value, err := c.coerce(f.Expression, field.Type, s.env)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordField{Name: f.Name, Expression: value})
		}
		return &ast.RecordConstruction{Range: e.Range, Type: e.Type, Fields: fields}, nil

	case *ast.TypeCoercion:
		argument, err := c.coerce(e.Argument, e.From, s.env)
		if err != nil {
			return nil, err
		}
		return &ast.TypeCoercion{Range: e.Range, From: e.From, To: e.To, Argument: argument}, nil
	}
	return e, nil
}

func (c *coercer) application(e *ast.Application, s scope) (ast.Expression, error) {
	head, arguments := ast.ApplicationSpine(e)
	t, err := c.extractor.Extract(head, s.env)
	if err != nil {
		return nil, err
	}
	coerced := make([]ast.Expression, 0, len(arguments))
	for _, arg := range arguments {
		f, ok, err := c.services.Resolver.ResolveToFunction(t)
		if err != nil {
			return nil, err
		}
		ilerr.Assert(ok, "applying %s of non-function type %v", ast.ExprString(head), t)
		value, err := c.coerce(arg, f.Argument, s.env)
		if err != nil {
			return nil, err
		}
		coerced = append(coerced, value)
		t = f.Result
	}
	return ast.NewApplication(head, coerced...), nil
}
