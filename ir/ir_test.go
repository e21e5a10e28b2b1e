package ir_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/ilec/ir"
)

var number = &ir.NumberType{}

func num(v float64) *ir.Number         { return &ir.Number{Value: v} }
func variable(name string) *ir.Variable { return &ir.Variable{Name: name} }

func addModule() *ir.Module {
	return &ir.Module{
		Path: "test",
		Functions: []*ir.FunctionDefinition{{
			Name:      "add",
			Arguments: []ir.Argument{{Name: "x", Type: number}, {Name: "y", Type: number}},
			Result:    number,
			Body:      &ir.ArithmeticOperation{Operator: ir.Add, Lhs: variable("x"), Rhs: variable("y")},
		}},
		Values: []*ir.GlobalValue{{
			Name: "main",
			Type: number,
			Body: &ir.Call{Function: variable("add"), Arguments: []ir.Expr{num(3), num(4)}},
		}},
	}
}

func TestEvaluateCall(t *testing.T) {
	i := ir.NewInterpreter(nil, addModule())
	v, err := i.Global("main")
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestCurrying(t *testing.T) {
	i := ir.NewInterpreter(nil, addModule())
	add, err := i.Global("add")
	require.NoError(t, err)

	inc, err := i.Apply(add, 1.0)
	require.NoError(t, err)
	require.IsType(t, &ir.Partial{}, inc)

	v, err := i.Apply(inc, 41.0)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	t.Run("over-saturated calls apply the result", func(t *testing.T) {
		// makeAdder(x) returns add partially applied to x
		m := addModule()
		m.Functions = append(m.Functions, &ir.FunctionDefinition{
			Name:      "makeAdder",
			Arguments: []ir.Argument{{Name: "x", Type: number}},
			Result:    &ir.FunctionType{Arguments: []ir.Type{number}, Result: number},
			Body:      &ir.Call{Function: variable("add"), Arguments: []ir.Expr{variable("x")}},
		})
		i := ir.NewInterpreter(nil, m)
		v, err := i.Evaluate(&ir.Call{Function: variable("makeAdder"), Arguments: []ir.Expr{num(2), num(5)}})
		require.NoError(t, err)
		assert.Equal(t, 7.0, v)
	})
}

func TestIf(t *testing.T) {
	i := ir.NewInterpreter(nil)
	e := &ir.Let{
		Name:  "x",
		Type:  number,
		Bound: num(42),
		Body:  ir.NewIf(&ir.Boolean{Value: true}, variable("x"), num(0)),
	}
	v, err := i.Evaluate(e)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	v, err = i.Evaluate(ir.NewIf(&ir.ComparisonOperation{Operator: ir.LessThan, Lhs: num(2), Rhs: num(1)}, num(1), num(2)))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestClosures(t *testing.T) {
	// let offset = 10 in let f(x) = x + offset in f(1)
	f := &ir.FunctionDefinition{
		Name:        "f",
		Environment: []ir.Argument{{Name: "offset", Type: number}},
		Arguments:   []ir.Argument{{Name: "x", Type: number}},
		Result:      number,
		Body:        &ir.ArithmeticOperation{Operator: ir.Add, Lhs: variable("x"), Rhs: variable("offset")},
	}
	e := &ir.Let{Name: "offset", Type: number, Bound: num(10), Body: &ir.LetRecursive{
		Functions: []*ir.FunctionDefinition{f},
		Body:      &ir.Call{Function: variable("f"), Arguments: []ir.Expr{num(1)}},
	}}

	assert.Equal(t, []string{"offset"}, slices.Collect(ir.FunctionFreeVariables(f).Items()))
	assert.Equal(t, 0, ir.FreeVariables(e).Size())

	v, err := ir.NewInterpreter(nil).Evaluate(e)
	require.NoError(t, err)
	assert.Equal(t, 11.0, v)
}

func TestRecursiveClosures(t *testing.T) {
	// count(n) = if n <= 0 then 0 else 1 + count(n - 1)
	count := &ir.FunctionDefinition{
		Name:      "count",
		Arguments: []ir.Argument{{Name: "n", Type: number}},
		Result:    number,
		Body: ir.NewIf(
			&ir.ComparisonOperation{Operator: ir.LessThanOrEqual, Lhs: variable("n"), Rhs: num(0)},
			num(0),
			&ir.ArithmeticOperation{Operator: ir.Add, Lhs: num(1), Rhs: &ir.Call{
				Function:  variable("count"),
				Arguments: []ir.Expr{&ir.ArithmeticOperation{Operator: ir.Subtract, Lhs: variable("n"), Rhs: num(1)}},
			}},
		),
	}
	e := &ir.LetRecursive{Functions: []*ir.FunctionDefinition{count}, Body: &ir.Call{Function: variable("count"), Arguments: []ir.Expr{num(5)}}}

	v, err := ir.NewInterpreter(nil).Evaluate(e)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestVariants(t *testing.T) {
	const numberTag, noneTag = 1, 2
	match := func(scrutinee ir.Expr, withDefault bool) ir.Expr {
		c := &ir.VariantCase{
			Argument: scrutinee,
			Alternatives: []ir.VariantAlternative{
				{Tag: numberTag, Type: number, Name: "n", Expression: variable("n")},
			},
		}
		if withDefault {
			c.Default = &ir.DefaultAlternative{Name: "other", Expression: num(-1)}
		}
		return c
	}
	i := ir.NewInterpreter(nil)

	v, err := i.Evaluate(match(&ir.Variant{Tag: numberTag, Type: number, Payload: num(3)}, false))
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	v, err = i.Evaluate(match(&ir.Variant{Tag: noneTag, Type: &ir.UnitType{}, Payload: &ir.Unit{}}, true))
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)

	_, err = i.Evaluate(match(&ir.Variant{Tag: noneTag, Type: &ir.UnitType{}, Payload: &ir.Unit{}}, false))
	assert.Error(t, err)
}

func TestRecords(t *testing.T) {
	e := &ir.RecordElement{
		Record:   "Point",
		Index:    1,
		Argument: &ir.RecordConstruction{Record: "Point", Elements: []ir.Expr{num(1), num(2)}},
	}
	v, err := ir.NewInterpreter(nil).Evaluate(e)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestGlobals(t *testing.T) {
	t.Run("first definition wins", func(t *testing.T) {
		first := &ir.Module{Path: "a", Values: []*ir.GlobalValue{{Name: "x", Type: number, Body: num(1)}}}
		second := &ir.Module{Path: "b", Values: []*ir.GlobalValue{{Name: "x", Type: number, Body: num(2)}}}
		v, err := ir.NewInterpreter(nil, first, second).Global("x")
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)
	})

	t.Run("values depending on themselves fail", func(t *testing.T) {
		m := &ir.Module{Path: "a", Values: []*ir.GlobalValue{
			{Name: "x", Type: number, Body: &ir.ArithmeticOperation{Operator: ir.Add, Lhs: variable("y"), Rhs: num(1)}},
			{Name: "y", Type: number, Body: variable("x")},
		}}
		_, err := ir.NewInterpreter(nil, m).Global("x")
		assert.ErrorContains(t, err, "depends on its own value")
	})

	t.Run("undefined globals fail", func(t *testing.T) {
		_, err := ir.NewInterpreter(nil).Evaluate(variable("nope"))
		assert.ErrorContains(t, err, "not defined")
	})
}

var listNames = ir.ListNames{
	Empty:       "empty",
	Prepend:     "prepend",
	Concatenate: "concatenate",
	Equal:       "equal",
	Deconstruct: "deconstruct",
	First:       "first",
	Rest:        "rest",
}

func listOf(values ...float64) ir.Expr {
	var l ir.Expr = variable("empty")
	for _, v := range slices.Backward(values) {
		l = &ir.Call{Function: variable("prepend"), Arguments: []ir.Expr{num(v), l}}
	}
	return l
}

func TestHostList(t *testing.T) {
	tags := ir.ListTags{FirstRest: 10, None: 20}
	i := ir.NewInterpreter(ir.HostList(listNames, tags))

	v, err := i.Evaluate(&ir.Call{Function: variable("concatenate"), Arguments: []ir.Expr{listOf(1, 2), listOf(3)}})
	require.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]", ir.FormatValue(v))

	v, err = i.Evaluate(&ir.Call{Function: variable("deconstruct"), Arguments: []ir.Expr{variable("empty")}})
	require.NoError(t, err)
	assert.Equal(t, ir.VariantValue{Tag: 20, Payload: ir.UnitValue{}}, v)

	v, err = i.Evaluate(&ir.VariantCase{
		Argument: &ir.Call{Function: variable("deconstruct"), Arguments: []ir.Expr{listOf(7, 8)}},
		Alternatives: []ir.VariantAlternative{
			{Tag: 10, Type: &ir.RecordType{Name: "FirstRest"}, Name: "fr", Expression: &ir.Call{Function: variable("first"), Arguments: []ir.Expr{variable("fr")}}},
			{Tag: 20, Type: &ir.UnitType{}, Name: "none", Expression: num(0)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	numbersEqual := &ir.FunctionDefinition{
		Name:      "numbersEqual",
		Arguments: []ir.Argument{{Name: "a", Type: number}, {Name: "b", Type: number}},
		Result:    &ir.BooleanType{},
		Body:      &ir.ComparisonOperation{Operator: ir.Equal, Lhs: variable("a"), Rhs: variable("b")},
	}
	equal := func(a, b ir.Expr) ir.Value {
		v, err := i.Evaluate(&ir.LetRecursive{
			Functions: []*ir.FunctionDefinition{numbersEqual},
			Body:      &ir.Call{Function: variable("equal"), Arguments: []ir.Expr{variable("numbersEqual"), a, b}},
		})
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, true, equal(listOf(1, 2), listOf(1, 2)))
	assert.Equal(t, false, equal(listOf(1, 2), listOf(1, 3)))
	assert.Equal(t, false, equal(listOf(1, 2), listOf(1)))
}

func TestModuleString(t *testing.T) {
	s := addModule().String()
	assert.Contains(t, s, "module test\n")
	assert.Contains(t, s, "func add(x float64, y float64) float64 =\n  (x + y)")
	assert.Contains(t, s, "var main float64 =\n  add(3, 4)")
}
