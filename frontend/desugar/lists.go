package desugar

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/util"
)

// ExpandLists turns list literals into calls to the list library, and list cases
// into a case over the deconstruction of the list:
//
//	case xs of [] -> e1 | [x, ...rest] -> e2
//
// becomes
//
//	case deconstruct xs of
//	  None -> e1
//	  FirstRest $firstRest -> let x = (case first $firstRest of T $element -> $element)
//	                              rest = rest $firstRest
//	                          in e2
//
// where T is the element type of xs.
func ExpandLists(m *ast.Module, resolver *types.Resolver, list ListConfiguration) (*ast.Module, error) {
	x := &listExpander{resolver: resolver, list: list, names: util.NewNameGenerator("firstRest")}
	return ast.Transformer{OnExpression: x.expression}.TransformModule(m)
}

type listExpander struct {
	resolver *types.Resolver
	list     ListConfiguration
	names    *util.NameGenerator
}

func (x *listExpander) expression(e ast.Expression) (ast.Expression, error) {
	switch e := e.(type) {
	case *ast.List:
		return x.literal(e), nil
	case *ast.ListCase:
		return x.listCase(e)
	}
	return e, nil
}

func (x *listExpander) variable(at source.Range, name string) *ast.Variable {
	return &ast.Variable{Range: at, Name: name}
}

func (x *listExpander) literal(e *ast.List) ast.Expression {
	var list ast.Expression = x.variable(e.Range, x.list.EmptyVariable)
	for elem := range util.Reverse(e.Elements) {
		function := x.list.PrependFunction
		if elem.Spread {
			function = x.list.ConcatenateFunction
		}
		list = ast.NewApplication(x.variable(source.RangeOf(elem.Expression), function), elem.Expression, list)
	}
	return list
}

func (x *listExpander) listCase(e *ast.ListCase) (ast.Expression, error) {
	listType, ok, err := x.resolver.ResolveToList(e.Type)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ilerr.New(ilerr.NewListExpected{Positioner: e.Range, Type: e.Type})
	}
	firstRestType := &types.Reference{Range: e.Range, Name: x.list.FirstRestTypeName}
	firstRest := x.names.Next()

	first := &ast.Case{
		Range:    e.Range,
		Type:     &types.Any{Range: e.Range},
		Argument: ast.NewApplication(x.variable(e.Range, x.list.FirstFunction), x.variable(e.Range, firstRest)),
		Alternatives: []ast.Alternative{
			{Type: listType.Element, Name: "$element", Expression: x.variable(e.Range, "$element")},
		},
	}
	rest := ast.NewApplication(x.variable(e.Range, x.list.RestFunction), x.variable(e.Range, firstRest))

	nonEmpty := &ast.Let{
		Range: e.Range,
		Definitions: []ast.Definition{
			&ast.ValueDefinition{Range: e.Range, Name: e.FirstName, Type: listType.Element, Body: first},
			&ast.ValueDefinition{Range: e.Range, Name: e.RestName, Type: e.Type, Body: rest},
		},
		Expression: e.NonEmptyAlternative,
	}

	return &ast.Case{
		Range:    e.Range,
		Type:     types.NewUnion(firstRestType, &types.None{Range: e.Range}),
		Argument: ast.NewApplication(x.variable(e.Range, x.list.DeconstructFunction), e.Argument),
		Alternatives: []ast.Alternative{
			{Type: &types.None{Range: e.Range}, Name: "$empty", Expression: e.EmptyAlternative},
			{Type: firstRestType, Name: firstRest, Expression: nonEmpty},
		},
	}, nil
}
