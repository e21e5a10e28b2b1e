package desugar

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/util"
)

// EqualFunctionName is the name of the generated function comparing records named record
func EqualFunctionName(record string) string {
	return AccessorName(record, "$equal")
}

// ExpandEqualityOperations expands == and != according to the type of their operands,
// so that only equality of numbers and of strings is left for the backend.
//
// Records are compared by generated top-level functions, added to the module as needed.
func ExpandEqualityOperations(m *ast.Module, services *types.Services, list ListConfiguration) (*ast.Module, error) {
	x := &equalityExpander{
		services:  services,
		list:      list,
		names:     util.NewNameGenerator("eq"),
		generated: set.New[string](4),
	}
	expanded, err := ast.Transformer{OnExpression: x.expression}.TransformModule(m)
	if err != nil {
		return nil, err
	}
	if len(x.definitions) == 0 {
		return expanded, nil
	}
	// generated functions may themselves compare values, but they were built expanded already
	return expanded.WithDefinitions(append(expanded.Definitions, x.definitions...)), nil
}

type equalityExpander struct {
	services *types.Services
	list     ListConfiguration
	names    *util.NameGenerator

	// generated holds the names of the record equality functions generated so far
	generated   *set.Set[string]
	definitions []ast.Definition
}

func (x *equalityExpander) expression(e ast.Expression) (ast.Expression, error) {
	op, ok := e.(*ast.EqualityOperation)
	if !ok {
		return e, nil
	}
	eq, err := x.equal(op.Lhs, op.Rhs, op.Type, op.Range)
	if err != nil {
		return nil, err
	}
	if op.Operator == ast.NotEqual {
		return &ast.If{Range: op.Range, Condition: eq, Then: boolean(op.Range, false), Else: boolean(op.Range, true)}, nil
	}
	return eq, nil
}

func boolean(at source.Range, v bool) *ast.Boolean {
	return &ast.Boolean{Range: at, Value: v}
}

func variable(at source.Range, name string) *ast.Variable {
	return &ast.Variable{Range: at, Name: name}
}

// equal builds an expression comparing lhs and rhs, two values of type t
func (x *equalityExpander) equal(lhs, rhs ast.Expression, t types.Type, at source.Range) (ast.Expression, error) {
	resolved, err := x.services.Resolver.Resolve(t)
	if err != nil {
		return nil, err
	}
	switch resolved := resolved.(type) {
	case *types.Boolean:
		return &ast.If{
			Range:     at,
			Condition: lhs,
			Then:      rhs,
			Else:      &ast.If{Range: at, Condition: rhs, Then: boolean(at, false), Else: boolean(at, true)},
		}, nil
	case *types.None:
		return boolean(at, true), nil
	case *types.Number, *types.String:
		return &ast.EqualityOperation{Range: at, Operator: ast.Equal, Type: resolved, Lhs: lhs, Rhs: rhs}, nil
	case *types.Function:
		return nil, ilerr.New(ilerr.NewFunctionEqualOperation{Positioner: at})
	case *types.Any:
		return nil, ilerr.New(ilerr.NewAnyEqualOperation{Positioner: at})
	case *types.Record:
		name, err := x.recordEqual(resolved, at)
		if err != nil {
			return nil, err
		}
		return ast.NewApplication(variable(at, name), lhs, rhs), nil
	case *types.List:
		return x.listEqual(lhs, rhs, resolved.Element, at)
	case *types.Union:
		return x.unionEqual(lhs, rhs, t, at)
	}
	ilerr.Unreachable("unexpected type %v in equality", t)
	return nil, nil
}

// recordEqual returns the name of the function comparing records of type record, generating it if needed
func (x *equalityExpander) recordEqual(record *types.Record, at source.Range) (string, error) {
	comparable, err := x.services.Comparability.Comparable(record)
	if err != nil {
		return "", err
	}
	if !comparable {
		return "", ilerr.New(ilerr.NewRecordEqualOperation{Positioner: at, Record: record.Name})
	}
	name := EqualFunctionName(record.Name)
	if x.generated.Contains(name) {
		return name, nil
	}
	x.generated.Insert(name)

	self := &types.Reference{Range: record.Range, Name: record.Name}
	field := func(argument, field string) ast.Expression {
		return &ast.RecordElementOperation{Range: at, Type: self, Record: variable(at, argument), Field: field}
	}
	var body ast.Expression = boolean(at, true)
	for f := range util.Reverse(record.Fields) {
		eq, err := x.equal(field("lhs", f.Name), field("rhs", f.Name), f.Type, at)
		if err != nil {
			return "", err
		}
		body = &ast.If{Range: at, Condition: eq, Then: body, Else: boolean(at, false)}
	}
	x.definitions = append(x.definitions, &ast.FunctionDefinition{
		Range:     record.Range,
		Name:      name,
		Arguments: []string{"lhs", "rhs"},
		Type:      types.NewFunction(&types.Boolean{Range: record.Range}, self, self),
		Body:      body,
	})
	return name, nil
}

// listEqual compares lists with the equal function of the list library, giving it a
// function that compares two elements. Elements are stored as Any, so they are narrowed first.
func (x *equalityExpander) listEqual(lhs, rhs ast.Expression, element types.Type, at source.Range) (ast.Expression, error) {
	function := x.names.Next()
	a, b := x.names.Next(), x.names.Next()
	narrowA, narrowB := x.names.Next(), x.names.Next()

	elementsEqual, err := x.equal(variable(at, narrowA), variable(at, narrowB), element, at)
	if err != nil {
		return nil, err
	}
	anyType := &types.Any{Range: at}
	otherwise := ast.Alternative{Type: anyType, Name: "$other", Expression: boolean(at, false)}
	body := &ast.Case{
		Range:    at,
		Type:     anyType,
		Argument: variable(at, a),
		Alternatives: []ast.Alternative{
			{Type: element, Name: narrowA, Expression: &ast.Case{
				Range:    at,
				Type:     anyType,
				Argument: variable(at, b),
				Alternatives: []ast.Alternative{
					{Type: element, Name: narrowB, Expression: elementsEqual},
					otherwise,
				},
			}},
			otherwise,
		},
	}

	return &ast.Let{
		Range: at,
		Definitions: []ast.Definition{&ast.FunctionDefinition{
			Range:     at,
			Name:      function,
			Arguments: []string{a, b},
			Type:      types.NewFunction(&types.Boolean{Range: at}, anyType, anyType),
			Body:      body,
		}},
		Expression: ast.NewApplication(variable(at, x.list.EqualFunction), variable(at, function), lhs, rhs),
	}, nil
}

// unionEqual matches both sides over every member of union: values are equal
// when they hold the same member type and are equal at that type
func (x *equalityExpander) unionEqual(lhs, rhs ast.Expression, union types.Type, at source.Range) (ast.Expression, error) {
	members, err := x.services.Members(union)
	if err != nil {
		return nil, err
	}
	alternatives := make([]ast.Alternative, 0, len(members))
	for _, member := range members {
		l, r := x.names.Next(), x.names.Next()
		eq, err := x.equal(variable(at, l), variable(at, r), member, at)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, ast.Alternative{
			Type: member,
			Name: l,
			Expression: &ast.Case{
				Range:    at,
				Type:     union,
				Argument: rhs,
				Alternatives: []ast.Alternative{
					{Type: member, Name: r, Expression: eq},
					{Type: &types.Any{Range: at}, Name: "$other", Expression: boolean(at, false)},
				},
			},
		})
	}
	return &ast.Case{Range: at, Type: union, Argument: lhs, Alternatives: alternatives}, nil
}
