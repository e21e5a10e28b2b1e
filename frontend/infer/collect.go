package infer

import (
	"fmt"
	"slices"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
)

type constraintKind int

const (
	// subsumption is a plain subtyping obligation
	subsumption constraintKind = iota
	// pattern is a case alternative whose type must be a subtype of the case's subject type
	pattern
)

// constraint states that Lower must be usable where Upper is expected
type constraint struct {
	Lower, Upper types.Type
	At           source.Range
	kind         constraintKind
}

func (c constraint) String() string {
	return fmt.Sprintf("%v <: %v", c.Lower, c.Upper)
}

// collector walks a module and gathers the subtyping constraints its definitions imply.
//
// Solved constraints are used to find the types of type variables.
// Checked constraints are only verified once every variable has a type.
type collector struct {
	services *types.Services
	fresher  *types.Fresher

	solved   []constraint
	checked  []constraint
	accesses []fieldAccess
}

// fieldAccess is a record field read whose record type is not annotated.
// Once Record is solved, the type of the field is a lower bound of Result.
type fieldAccess struct {
	Record *types.Variable
	Field  string
	Result *types.Variable
	At     source.Range
}

func newCollector(services *types.Services, fresher *types.Fresher) *collector {
	return &collector{services: services, fresher: fresher}
}

func (c *collector) solve(lower, upper types.Type, at source.Positioner) {
	c.solved = append(c.solved, constraint{Lower: lower, Upper: upper, At: source.RangeOf(at)})
}

func (c *collector) check(lower, upper types.Type, at source.Positioner, kind constraintKind) {
	c.checked = append(c.checked, constraint{Lower: lower, Upper: upper, At: source.RangeOf(at), kind: kind})
}

func (c *collector) module(m *ast.Module) error {
	env := ModuleEnv(m)
	for _, def := range m.Definitions {
		if err := c.definition(def, env); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) definition(def ast.Definition, env Env) error {
	switch def := def.(type) {
	case *ast.FunctionDefinition:
		arguments := make([]types.Type, len(def.Arguments))
		for i, name := range def.Arguments {
			argument := c.fresher.Fresh(def)
			arguments[i] = argument
			env = env.Bind(name, argument)
		}
		result := c.fresher.Fresh(def.Body)
		c.solve(types.NewFunction(result, arguments...), def.Type, def)

		body, err := c.expression(def.Body, env)
		if err != nil {
			return err
		}
		c.solve(body, result, def.Body)
		return nil
	case *ast.ValueDefinition:
		body, err := c.expression(def.Body, env)
		if err != nil {
			return err
		}
		c.solve(body, def.Type, def.Body)
		return nil
	}
	ilerr.Unreachable("unexpected definition %T", def)
	return nil
}

func (c *collector) expression(e ast.Expression, env Env) (types.Type, error) {
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
		return c.application(e.Function, e.Argument, e, env)
	case *ast.Pipe:
		return c.application(e.Rhs, e.Lhs, e, env)

	case *ast.If:
		condition, err := c.expression(e.Condition, env)
		if err != nil {
			return nil, err
		}
		c.solve(condition, &types.Boolean{Range: e.Range}, e.Condition)
		result := c.fresher.Fresh(e)
		for _, branch := range []ast.Expression{e.Then, e.Else} {
			t, err := c.expression(branch, env)
			if err != nil {
				return nil, err
			}
			c.solve(t, result, branch)
		}
		return result, nil

	case *ast.Let:
		return c.let(e, env)

	case *ast.Case:
		argument, err := c.expression(e.Argument, env)
		if err != nil {
			return nil, err
		}
		c.solve(argument, e.Type, e.Argument)
		result := c.fresher.Fresh(e)
		for _, alt := range e.Alternatives {
			c.check(alt.Type, e.Type, alt.Type, pattern)
			t, err := c.expression(alt.Expression, env.Bind(alt.Name, alt.Type))
			if err != nil {
				return nil, err
			}
			c.solve(t, result, alt.Expression)
		}
		return result, nil

	case *ast.ArithmeticOperation:
		if err := c.operands(e.Lhs, e.Rhs, &types.Number{Range: e.Range}, env); err != nil {
			return nil, err
		}
		return &types.Number{Range: e.Range}, nil
	case *ast.OrderOperation:
		if err := c.operands(e.Lhs, e.Rhs, &types.Number{Range: e.Range}, env); err != nil {
			return nil, err
		}
		return &types.Boolean{Range: e.Range}, nil
	case *ast.BooleanOperation:
		if err := c.operands(e.Lhs, e.Rhs, &types.Boolean{Range: e.Range}, env); err != nil {
			return nil, err
		}
		return &types.Boolean{Range: e.Range}, nil
	case *ast.EqualityOperation:
		if err := c.operands(e.Lhs, e.Rhs, e.Type, env); err != nil {
			return nil, err
		}
		return &types.Boolean{Range: e.Range}, nil

	case *ast.RecordConstruction:
		record, err := c.record(e.Type, e)
		if err != nil {
			return nil, err
		}
		given := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			given = append(given, f.Name)
		}
		expected := make([]string, 0, len(record.Fields))
		for _, f := range record.Fields {
			expected = append(expected, f.Name)
		}
		slices.Sort(given)
		slices.Sort(expected)
		if !slices.Equal(given, expected) {
			return nil, ilerr.New(ilerr.NewTypesNotMatched{
				Positioner: e.Range,
				Lower:      fieldNames(given),
				Upper:      e.Type,
				Reason:     fmt.Sprintf("record construction has fields %v, but the record has fields %v", given, expected),
			})
		}
		if err := c.fields(record, e.Fields, env); err != nil {
			return nil, err
		}
		return e.Type, nil

	case *ast.RecordUpdate:
		record, err := c.record(e.Type, e)
		if err != nil {
			return nil, err
		}
		argument, err := c.expression(e.Record, env)
		if err != nil {
			return nil, err
		}
		c.solve(argument, e.Type, e.Record)
		if err := c.fields(record, e.Fields, env); err != nil {
			return nil, err
		}
		return e.Type, nil

	case *ast.RecordElementOperation:
		argument, err := c.expression(e.Record, env)
		if err != nil {
			return nil, err
		}
		c.solve(argument, e.Type, e.Record)
		if annotation, unknown := e.Type.(*types.Variable); unknown {
			// the record type is only known once the type of the argument is
			result := c.fresher.Fresh(e)
			c.accesses = append(c.accesses, fieldAccess{Record: annotation, Field: e.Field, Result: result, At: e.Range})
			return result, nil
		}
		record, err := c.record(e.Type, e)
		if err != nil {
			return nil, err
		}
		field, _, ok := record.Field(e.Field)
		if !ok {
			return nil, ilerr.New(ilerr.NewRecordFieldNotFound{Positioner: e.Range, Record: record.Name, Field: e.Field})
		}
		return field.Type, nil

	case *ast.List:
		element := c.fresher.Fresh(e)
		list := &types.List{Range: e.Range, Element: element}
		c.solve(list, e.Type, e)
		for _, elem := range e.Elements {
			t, err := c.expression(elem.Expression, env)
			if err != nil {
				return nil, err
			}
			if elem.Spread {
				c.solve(t, list, elem.Expression)
			} else {
				c.solve(t, element, elem.Expression)
			}
		}
		return e.Type, nil

	case *ast.ListCase:
		argument, err := c.expression(e.Argument, env)
		if err != nil {
			return nil, err
		}
		c.solve(argument, e.Type, e.Argument)
		element := c.fresher.Fresh(e)
		c.solve(e.Type, &types.List{Range: e.Range, Element: element}, e)

		result := c.fresher.Fresh(e)
		empty, err := c.expression(e.EmptyAlternative, env)
		if err != nil {
			return nil, err
		}
		c.solve(empty, result, e.EmptyAlternative)
		nonEmpty, err := c.expression(e.NonEmptyAlternative, env.Bind(e.FirstName, element).Bind(e.RestName, e.Type))
		if err != nil {
			return nil, err
		}
		c.solve(nonEmpty, result, e.NonEmptyAlternative)
		return result, nil

	case *ast.TypeCoercion:
		argument, err := c.expression(e.Argument, env)
		if err != nil {
			return nil, err
		}
		c.solve(argument, e.From, e.Argument)
		c.check(e.From, e.To, e, subsumption)
		return e.To, nil
	}
	ilerr.Unreachable("unexpected expression %T", e)
	return nil, nil
}

func (c *collector) application(function, argument ast.Expression, at source.Positioner, env Env) (types.Type, error) {
	functionType, err := c.expression(function, env)
	if err != nil {
		return nil, err
	}
	argumentType, err := c.expression(argument, env)
	if err != nil {
		return nil, err
	}
	result := c.fresher.Fresh(at)
	c.solve(functionType, &types.Function{Range: source.RangeOf(at), Argument: argumentType, Result: result}, function)
	return result, nil
}

func (c *collector) let(e *ast.Let, env Env) (types.Type, error) {
	if err := checkNotMixed(e); err != nil {
		return nil, err
	}
	if len(e.Definitions) != 0 {
		if _, isFunc := e.Definitions[0].(*ast.FunctionDefinition); isFunc {
			// functions are visible from each other's bodies
			env = env.BindDefinitions(e.Definitions)
			for _, def := range e.Definitions {
				if err := c.definition(def, env); err != nil {
					return nil, err
				}
			}
			return c.expression(e.Expression, env)
		}
	}
	for _, def := range e.Definitions {
		if err := c.definition(def, env); err != nil {
			return nil, err
		}
		env = env.Bind(def.DefinitionName(), def.DefinitionType())
	}
	return c.expression(e.Expression, env)
}

func checkNotMixed(e *ast.Let) error {
	functions := 0
	for _, def := range e.Definitions {
		if _, isFunc := def.(*ast.FunctionDefinition); isFunc {
			functions++
		}
	}
	if functions != 0 && functions != len(e.Definitions) {
		return ilerr.New(ilerr.NewMixedDefinitionsInLet{Positioner: e.Range})
	}
	return nil
}

func (c *collector) operands(lhs, rhs ast.Expression, expected types.Type, env Env) error {
	for _, operand := range []ast.Expression{lhs, rhs} {
		t, err := c.expression(operand, env)
		if err != nil {
			return err
		}
		c.solve(t, expected, operand)
	}
	return nil
}

func (c *collector) record(t types.Type, at source.Positioner) (*types.Record, error) {
	record, ok, err := c.services.Resolver.ResolveToRecord(t)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ilerr.New(ilerr.NewRecordExpected{Positioner: source.RangeOf(at), Type: t})
	}
	return record, nil
}

func (c *collector) fields(record *types.Record, fields []ast.RecordField, env Env) error {
	for _, f := range fields {
		field, _, ok := record.Field(f.Name)
		if !ok {
			return ilerr.New(ilerr.NewRecordFieldNotFound{Positioner: source.RangeOf(f.Expression), Record: record.Name, Field: f.Name})
		}
		t, err := c.expression(f.Expression, env)
		if err != nil {
			return err
		}
		c.solve(t, field.Type, f.Expression)
	}
	return nil
}

// fieldNames shows a set of record fields in errors
type fieldNames []string

func (f fieldNames) String() string {
	return fmt.Sprint([]string(f))
}
