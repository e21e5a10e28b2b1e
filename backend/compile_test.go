package backend_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/ilec/backend"
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/ir"
)

var (
	number  = &types.Number{}
	boolean = &types.Boolean{}
	str     = &types.String{}
	none    = &types.None{}
	anyT    = &types.Any{}
)

func num(v float64) *ast.Number          { return &ast.Number{Value: v} }
func variable(name string) *ast.Variable { return &ast.Variable{Name: name} }

func widen(e ast.Expression, from, to types.Type) *ast.TypeCoercion {
	return &ast.TypeCoercion{From: from, To: to, Argument: e}
}

func point() *ast.TypeDefinition {
	return &ast.TypeDefinition{Name: "Point", Type: &types.Record{Name: "Point", Fields: []types.RecordField{
		{Name: "x", Type: number},
		{Name: "y", Type: number},
	}}}
}

func lower(t *testing.T, defs ...ast.Definition) (*ir.Module, *backend.TagCalculator, error) {
	t.Helper()
	m := &ast.Module{Path: "test", TypeDefinitions: []*ast.TypeDefinition{point()}, Definitions: defs}
	services := types.NewServices(m.TypeDefinitionsMap())
	tags := backend.NewTagCalculator(services.Resolver)
	lowered, err := backend.NewCompiler(services, tags).Module(m)
	return lowered, tags, err
}

func run(t *testing.T, m *ir.Module, name string) ir.Value {
	t.Helper()
	v, err := ir.NewInterpreter(nil, m).Global(name)
	require.NoError(t, err, "module:\n%s", m)
	return v
}

func tagOf(t *testing.T, tags *backend.TagCalculator, typ types.Type) uint64 {
	t.Helper()
	tag, err := tags.Tag(typ)
	require.NoError(t, err)
	return tag
}

func TestTags(t *testing.T) {
	services := types.NewServices(map[string]types.Type{
		"Point": point().Type,
		"Alias": number,
	})
	tags := backend.NewTagCalculator(services.Resolver)
	other := backend.NewTagCalculator(services.Resolver)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, tagOf(t, tags, number), tagOf(t, other, number))
		assert.Equal(t, tagOf(t, tags, types.NewFunction(number, str)), tagOf(t, other, types.NewFunction(number, str)))
	})

	t.Run("distinct", func(t *testing.T) {
		all := []types.Type{number, boolean, str, none, anyT, types.NewFunction(number, str), types.NewFunction(str, number), &types.Reference{Name: "Point"}}
		seen := make(map[uint64]types.Type)
		for _, typ := range all {
			tag := tagOf(t, tags, typ)
			previous, ok := seen[tag]
			assert.False(t, ok, "%v and %v share a tag", previous, typ)
			seen[tag] = typ
		}
	})

	t.Run("equal types share tags", func(t *testing.T) {
		assert.Equal(t, tagOf(t, tags, types.NewUnion(number, none)), tagOf(t, tags, types.NewUnion(none, number)))
		assert.Equal(t, tagOf(t, tags, &types.Reference{Name: "Point"}), tagOf(t, tags, point().Type))
		assert.Equal(t, tagOf(t, tags, &types.Reference{Name: "Alias"}), tagOf(t, tags, number))
	})

	t.Run("sorted without duplicates", func(t *testing.T) {
		sorted, err := tags.Tags([]types.Type{str, number, &types.Reference{Name: "Alias"}, none})
		require.NoError(t, err)
		assert.Len(t, sorted, 3)
		assert.IsIncreasing(t, sorted)
	})

	t.Run("unknown references", func(t *testing.T) {
		_, err := tags.Tag(&types.Reference{Name: "Nope"})
		assert.Equal(t, ilerr.TypeNotFound, ilerr.CodeOf(err))
	})
}

func TestLowerFunctions(t *testing.T) {
	m, _, err := lower(t,
		&ast.FunctionDefinition{
			Name:      "add",
			Arguments: []string{"x", "y"},
			Type:      types.NewFunction(number, number, number),
			Body:      &ast.ArithmeticOperation{Operator: ast.Add, Lhs: variable("x"), Rhs: variable("y")},
		},
		&ast.ValueDefinition{Name: "main", Type: number, Body: ast.NewApplication(variable("add"), num(3), num(4))},
	)
	require.NoError(t, err)

	require.Len(t, m.Functions, 1)
	add := m.Functions[0]
	assert.IsType(t, &ir.ArithmeticOperation{}, add.Body)
	assert.Equal(t, &ir.FunctionType{Arguments: []ir.Type{&ir.NumberType{}, &ir.NumberType{}}, Result: &ir.NumberType{}}, add.Type())
	assert.Empty(t, add.Environment)

	require.Len(t, m.Values, 1)
	assert.Equal(t, &ir.Call{Function: &ir.Variable{Name: "add"}, Arguments: []ir.Expr{&ir.Number{Value: 3}, &ir.Number{Value: 4}}}, m.Values[0].Body)
	assert.Equal(t, 7.0, run(t, m, "main"))
}

func TestLowerIf(t *testing.T) {
	m, _, err := lower(t, &ast.ValueDefinition{
		Name: "main",
		Type: number,
		Body: &ast.If{
			Condition: &ast.OrderOperation{Operator: ast.LessThan, Lhs: num(1), Rhs: num(2)},
			Then:      num(42),
			Else:      num(0),
		},
	})
	require.NoError(t, err)
	assert.IsType(t, &ir.AlgebraicCase{}, m.Values[0].Body)
	assert.Equal(t, 42.0, run(t, m, "main"))
}

func TestLowerEquality(t *testing.T) {
	m, _, err := lower(t, &ast.ValueDefinition{
		Name: "main",
		Type: boolean,
		Body: &ast.EqualityOperation{Operator: ast.Equal, Type: str, Lhs: &ast.String{Value: "a"}, Rhs: &ast.String{Value: "a"}},
	})
	require.NoError(t, err)
	assert.Equal(t, &ir.ComparisonOperation{Operator: ir.Equal, Lhs: &ir.String{Value: "a"}, Rhs: &ir.String{Value: "a"}}, m.Values[0].Body)
	assert.Equal(t, true, run(t, m, "main"))
}

func TestLowerCases(t *testing.T) {
	optional := types.NewUnion(none, number)
	orZero := func(alternatives ...ast.Alternative) ast.Definition {
		return &ast.FunctionDefinition{
			Name:      "orZero",
			Arguments: []string{"x"},
			Type:      types.NewFunction(number, optional),
			Body:      &ast.Case{Type: optional, Argument: variable("x"), Alternatives: alternatives},
		}
	}
	call := func(name string, arg ast.Expression, from types.Type) ast.Definition {
		return &ast.ValueDefinition{Name: name, Type: number, Body: ast.NewApplication(variable("orZero"), widen(arg, from, optional))}
	}

	t.Run("exhaustive", func(t *testing.T) {
		m, tags, err := lower(t,
			orZero(
				ast.Alternative{Type: number, Name: "n", Expression: variable("n")},
				ast.Alternative{Type: none, Name: "z", Expression: num(0)},
			),
			call("three", num(3), number),
			call("zero", &ast.None{}, none),
		)
		require.NoError(t, err)

		c, ok := m.Functions[0].Body.(*ir.VariantCase)
		require.True(t, ok, spew.Sdump(m.Functions[0].Body))
		require.Len(t, c.Alternatives, 2)
		assert.Equal(t, tagOf(t, tags, number), c.Alternatives[0].Tag)
		assert.Equal(t, tagOf(t, tags, none), c.Alternatives[1].Tag)
		assert.Nil(t, c.Default)

		assert.Equal(t, 3.0, run(t, m, "three"))
		assert.Equal(t, 0.0, run(t, m, "zero"))
	})

	t.Run("missing members", func(t *testing.T) {
		_, _, err := lower(t, orZero(ast.Alternative{Type: number, Name: "n", Expression: variable("n")}))
		require.Error(t, err)
		assert.Equal(t, ilerr.CaseNotExhaustive, ilerr.CodeOf(err))
		assert.Contains(t, err.Error(), "None")
	})

	t.Run("default", func(t *testing.T) {
		m, _, err := lower(t,
			orZero(
				ast.Alternative{Type: number, Name: "n", Expression: variable("n")},
				ast.Alternative{Type: anyT, Name: "other", Expression: num(-1)},
				ast.Alternative{Type: none, Name: "z", Expression: num(0)},
			),
			call("zero", &ast.None{}, none),
		)
		require.NoError(t, err)
		c := m.Functions[0].Body.(*ir.VariantCase)
		assert.Len(t, c.Alternatives, 1)
		require.NotNil(t, c.Default)
		assert.Equal(t, -1.0, run(t, m, "zero"))
	})

	t.Run("not a union", func(t *testing.T) {
		_, _, err := lower(t, &ast.ValueDefinition{
			Name: "main",
			Type: number,
			Body: &ast.Case{Type: number, Argument: num(1), Alternatives: []ast.Alternative{
				{Type: number, Name: "n", Expression: variable("n")},
			}},
		})
		assert.Equal(t, ilerr.CaseArgumentTypeInvalid, ilerr.CodeOf(err))
	})

	t.Run("union patterns", func(t *testing.T) {
		all := types.NewUnion(none, number, str)
		isString := &ast.FunctionDefinition{
			Name:      "isString",
			Arguments: []string{"x"},
			Type:      types.NewFunction(boolean, all),
			Body: &ast.Case{Type: all, Argument: variable("x"), Alternatives: []ast.Alternative{
				{Type: optional, Name: "o", Expression: &ast.Boolean{Value: false}},
				{Type: str, Name: "s", Expression: &ast.Boolean{Value: true}},
			}},
		}
		m, tags, err := lower(t,
			isString,
			&ast.ValueDefinition{Name: "yes", Type: boolean, Body: ast.NewApplication(variable("isString"), widen(&ast.String{Value: "a"}, str, all))},
			&ast.ValueDefinition{Name: "no", Type: boolean, Body: ast.NewApplication(variable("isString"), widen(num(1), number, all))},
		)
		require.NoError(t, err)

		c := m.Functions[0].Body.(*ir.VariantCase)
		require.Len(t, c.Alternatives, 3)
		rebound, ok := c.Alternatives[0].Expression.(*ir.Let)
		require.True(t, ok, ir.ExprString(c.Alternatives[0].Expression))
		assert.Equal(t, "o", rebound.Name)
		assert.Equal(t, &ir.Variant{Tag: tagOf(t, tags, none), Type: &ir.UnitType{}, Payload: &ir.Variable{Name: "o"}}, rebound.Bound)

		assert.Equal(t, true, run(t, m, "yes"))
		assert.Equal(t, false, run(t, m, "no"))
	})
}

func TestClosureConversion(t *testing.T) {
	m, _, err := lower(t, &ast.ValueDefinition{
		Name: "main",
		Type: number,
		Body: &ast.Let{
			Definitions: []ast.Definition{&ast.ValueDefinition{Name: "offset", Type: number, Body: num(10)}},
			Expression: &ast.Let{
				Definitions: []ast.Definition{&ast.FunctionDefinition{
					Name:      "g",
					Arguments: []string{"y"},
					Type:      types.NewFunction(number, number),
					Body:      &ast.ArithmeticOperation{Operator: ast.Add, Lhs: variable("y"), Rhs: variable("offset")},
				}},
				Expression: ast.NewApplication(variable("g"), num(1)),
			},
		},
	})
	require.NoError(t, err)

	let, ok := m.Values[0].Body.(*ir.Let)
	require.True(t, ok, spew.Sdump(m.Values[0].Body))
	functions, ok := let.Body.(*ir.LetRecursive)
	require.True(t, ok, spew.Sdump(let.Body))
	assert.Equal(t, []ir.Argument{{Name: "offset", Type: &ir.NumberType{}}}, functions.Functions[0].Environment)
	assert.Equal(t, 11.0, run(t, m, "main"))
}

func TestLowerRecords(t *testing.T) {
	pointT := &types.Reference{Name: "Point"}
	m, _, err := lower(t,
		&ast.ValueDefinition{Name: "p", Type: pointT, Body: &ast.RecordConstruction{Type: pointT, Fields: []ast.RecordField{
			{Name: "y", Expression: num(2)},
			{Name: "x", Expression: num(1)},
		}}},
		&ast.ValueDefinition{Name: "y", Type: number, Body: &ast.RecordElementOperation{Type: pointT, Record: variable("p"), Field: "y"}},
	)
	require.NoError(t, err)

	assert.Equal(t, []*ir.TypeDefinition{{Name: "Point", Fields: []ir.Type{&ir.NumberType{}, &ir.NumberType{}}}}, m.TypeDefinitions)
	assert.Equal(t, &ir.RecordConstruction{Record: "Point", Elements: []ir.Expr{&ir.Number{Value: 1}, &ir.Number{Value: 2}}}, m.Values[0].Body)
	assert.Equal(t, &ir.RecordElement{Record: "Point", Index: 1, Argument: &ir.Variable{Name: "p"}}, m.Values[1].Body)
	assert.Equal(t, 2.0, run(t, m, "y"))

	t.Run("unknown fields", func(t *testing.T) {
		_, _, err := lower(t, &ast.ValueDefinition{Name: "z", Type: number, Body: &ast.RecordElementOperation{Type: pointT, Record: variable("p"), Field: "z"}})
		assert.Equal(t, ilerr.RecordFieldNotFound, ilerr.CodeOf(err))
	})
}

func TestLowerCoercions(t *testing.T) {
	optional := types.NewUnion(none, number)

	t.Run("into unions", func(t *testing.T) {
		m, tags, err := lower(t,
			&ast.ValueDefinition{Name: "n", Type: optional, Body: widen(num(1), number, optional)},
			&ast.ValueDefinition{Name: "a", Type: anyT, Body: widen(variable("n"), optional, anyT)},
		)
		require.NoError(t, err)
		assert.Equal(t, &ir.Variant{Tag: tagOf(t, tags, number), Type: &ir.NumberType{}, Payload: &ir.Number{Value: 1}}, m.Values[0].Body)
		// unions and Any share their representation
		assert.Equal(t, &ir.Variable{Name: "n"}, m.Values[1].Body)
		assert.Equal(t, ir.VariantValue{Tag: tagOf(t, tags, number), Payload: 1.0}, run(t, m, "a"))
	})

	t.Run("between functions", func(t *testing.T) {
		wide := types.NewFunction(optional, number)
		m, tags, err := lower(t,
			&ast.FunctionDefinition{
				Name:      "double",
				Arguments: []string{"x"},
				Type:      types.NewFunction(number, number),
				Body:      &ast.ArithmeticOperation{Operator: ast.Multiply, Lhs: variable("x"), Rhs: num(2)},
			},
			&ast.ValueDefinition{Name: "f", Type: wide, Body: widen(variable("double"), types.NewFunction(number, number), wide)},
			&ast.ValueDefinition{Name: "main", Type: optional, Body: ast.NewApplication(variable("f"), num(4))},
		)
		require.NoError(t, err)
		assert.Equal(t, ir.VariantValue{Tag: tagOf(t, tags, number), Payload: 8.0}, run(t, m, "main"))
	})
}
