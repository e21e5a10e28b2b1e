package desugar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/desugar"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/util"
)

var (
	number  = &types.Number{}
	boolean = &types.Boolean{}
	none    = &types.None{}
	anyT    = &types.Any{}
)

func num(v float64) *ast.Number          { return &ast.Number{Value: v} }
func variable(name string) *ast.Variable { return &ast.Variable{Name: name} }
func ref(name string) *types.Reference   { return &types.Reference{Name: name} }

func point() *ast.TypeDefinition {
	return &ast.TypeDefinition{Name: "Point", Type: &types.Record{Name: "Point", Fields: []types.RecordField{
		{Name: "x", Type: number},
		{Name: "y", Type: number},
	}}}
}

var list = desugar.ListConfiguration{
	EmptyVariable:       "core/list.empty",
	PrependFunction:     "core/list.prepend",
	ConcatenateFunction: "core/list.concatenate",
	EqualFunction:       "core/list.equal",
	DeconstructFunction: "core/list.deconstruct",
	FirstFunction:       "core/list.first",
	RestFunction:        "core/list.rest",
	ListTypeName:        "core/list.List",
	FirstRestTypeName:   "core/list.FirstRest",
}

func listInterface() *ast.ModuleInterface {
	i := ast.NewModuleInterface("core/list")
	listT, firstRest := ref(list.ListTypeName), ref(list.FirstRestTypeName)
	i.Types[list.ListTypeName] = &types.Record{Name: list.ListTypeName}
	i.Types[list.FirstRestTypeName] = &types.Record{Name: list.FirstRestTypeName}
	i.Variables[list.EmptyVariable] = listT
	i.Variables[list.PrependFunction] = types.NewFunction(listT, anyT, listT)
	i.Variables[list.ConcatenateFunction] = types.NewFunction(listT, listT, listT)
	i.Variables[list.EqualFunction] = types.NewFunction(boolean, types.NewFunction(boolean, anyT, anyT), listT, listT)
	i.Variables[list.DeconstructFunction] = types.NewFunction(types.NewUnion(firstRest, none), listT)
	i.Variables[list.FirstFunction] = types.NewFunction(anyT, firstRest)
	i.Variables[list.RestFunction] = types.NewFunction(listT, firstRest)
	return i
}

func typedModule(defs ...ast.Definition) (*ast.Module, *types.Services) {
	m := &ast.Module{
		Path:            "test",
		Imports:         []*ast.ModuleInterface{listInterface()},
		TypeDefinitions: []*ast.TypeDefinition{point()},
		Definitions:     defs,
	}
	return m, types.NewServices(m.TypeDefinitionsMap())
}

func names(m *ast.Module) []string {
	return util.MapSlice(m.Definitions, ast.Definition.DefinitionName)
}

func bodyOf(t *testing.T, m *ast.Module, name string) string {
	t.Helper()
	def, ok := m.DefinitionsByName()[name]
	require.True(t, ok, "no definition %s in %v", name, names(m))
	switch def := def.(type) {
	case *ast.FunctionDefinition:
		return ast.ExprString(def.Body)
	case *ast.ValueDefinition:
		return ast.ExprString(def.Body)
	}
	return ""
}

func TestQualify(t *testing.T) {
	math := ast.NewModuleInterface("lib/math")
	math.Variables["lib/math.square"] = types.NewFunction(number, number)

	m := &ast.Module{
		Path:            "app/main",
		Exports:         []string{"double", "Point"},
		Imports:         []*ast.ModuleInterface{math},
		TypeDefinitions: []*ast.TypeDefinition{point()},
		Definitions: []ast.Definition{
			&ast.FunctionDefinition{
				Name:      "double",
				Arguments: []string{"x"},
				Body:      &ast.ArithmeticOperation{Operator: ast.Add, Lhs: variable("x"), Rhs: variable("x")},
			},
			&ast.ValueDefinition{
				Name: "main",
				Body: &ast.Let{
					Definitions: []ast.Definition{&ast.ValueDefinition{Name: "y", Body: num(1)}},
					Expression:  ast.NewApplication(variable("double"), ast.NewApplication(variable("math.square"), variable("y"))),
				},
			},
			&ast.FunctionDefinition{Name: "shadow", Arguments: []string{"double"}, Body: variable("double")},
			&ast.ValueDefinition{Name: "origin", Type: ref("Point"), Body: &ast.RecordConstruction{Type: ref("Point")}},
		},
	}

	qualified, err := desugar.Qualify(m)
	require.NoError(t, err)

	assert.Equal(t, []string{"app/main.double", "app/main.main", "app/main.shadow", "app/main.origin"}, names(qualified))
	assert.Equal(t, "(let y : _ = 1 in (app/main.double (lib/math.square y)))", bodyOf(t, qualified, "app/main.main"))
	assert.Equal(t, "(x + x)", bodyOf(t, qualified, "app/main.double"))
	assert.Equal(t, "double", bodyOf(t, qualified, "app/main.shadow"), "arguments shadow top-level names")
	assert.Equal(t, "@app/main.Point", types.Describe(qualified.DefinitionsByName()["app/main.origin"].DefinitionType()))

	require.Len(t, qualified.TypeDefinitions, 1)
	assert.Equal(t, "app/main.Point", qualified.TypeDefinitions[0].Name)
	assert.Equal(t, "app/main.Point", qualified.TypeDefinitions[0].Type.(*types.Record).Name)
	assert.Equal(t, []string{"app/main.double", "app/main.Point"}, qualified.Exports)

	// the input is left alone
	assert.Equal(t, "double", m.Definitions[0].DefinitionName())
}

func TestAddRecordDefinitions(t *testing.T) {
	unit := &ast.TypeDefinition{Name: "Unit", Type: &types.Record{Name: "Unit"}}
	main := &ast.ValueDefinition{Name: "main", Body: num(1)}
	m := &ast.Module{Path: "test", TypeDefinitions: []*ast.TypeDefinition{point(), unit}, Definitions: []ast.Definition{main}}

	added := desugar.AddRecordDefinitions(m)

	assert.Equal(t, []string{"Point.x", "Point.y", "Unit", "main"}, names(added))
	accessor := added.DefinitionsByName()["Point.y"].(*ast.FunctionDefinition)
	assert.Equal(t, "Point -> Number", accessor.Type.String())
	assert.Equal(t, []string{"record"}, accessor.Arguments)
	assert.Equal(t, "record.y", ast.ExprString(accessor.Body))
	assert.Equal(t, "Unit{ }", bodyOf(t, added, "Unit"))

	t.Run("modules without records are unchanged", func(t *testing.T) {
		plain := &ast.Module{Path: "test", Definitions: []ast.Definition{main}}
		assert.Same(t, plain, desugar.AddRecordDefinitions(plain))
	})
}

func TestExpandRecordUpdates(t *testing.T) {
	update := func(fields ...ast.RecordField) ast.Definition {
		return &ast.FunctionDefinition{
			Name:      "moved",
			Arguments: []string{"p"},
			Body:      &ast.RecordUpdate{Type: ref("Point"), Record: variable("p"), Fields: fields},
		}
	}
	expand := func(def ast.Definition) (*ast.Module, error) {
		m := &ast.Module{Path: "test", TypeDefinitions: []*ast.TypeDefinition{point()}, Definitions: []ast.Definition{def}}
		return desugar.ExpandRecordUpdates(m, types.NewResolver(m.TypeDefinitionsMap()))
	}

	expanded, err := expand(update(ast.RecordField{Name: "x", Expression: num(1)}))
	require.NoError(t, err)
	assert.Equal(t, "(let $record0 : Point = p in Point{ x = 1, y = (Point.y $record0) })", bodyOf(t, expanded, "moved"))

	_, err = expand(update(ast.RecordField{Name: "z", Expression: num(1)}))
	assert.Equal(t, ilerr.RecordFieldNotFound, ilerr.CodeOf(err))

	_, err = expand(&ast.ValueDefinition{Name: "n", Body: &ast.RecordUpdate{Type: number, Record: num(1)}})
	assert.Equal(t, ilerr.RecordExpected, ilerr.CodeOf(err))
}

func TestEliminatePipes(t *testing.T) {
	m := &ast.Module{Path: "test", Definitions: []ast.Definition{
		&ast.ValueDefinition{Name: "main", Body: &ast.Pipe{
			Lhs: &ast.Pipe{Lhs: num(1), Rhs: variable("f")},
			Rhs: ast.NewApplication(variable("g"), num(2)),
		}},
	}}
	eliminated, err := desugar.EliminatePipes(m)
	require.NoError(t, err)
	assert.Equal(t, "((g 2) (f 1))", bodyOf(t, eliminated, "main"))
}

func TestExpandBooleanOperations(t *testing.T) {
	tests := []struct {
		operator ast.BooleanOperator
		expected string
	}{
		{ast.And, "(if a then b else false)"},
		{ast.Or, "(if a then true else b)"},
	}
	for _, test := range tests {
		t.Run(test.operator.String(), func(t *testing.T) {
			m := &ast.Module{Path: "test", Definitions: []ast.Definition{
				&ast.ValueDefinition{Name: "main", Body: &ast.BooleanOperation{Operator: test.operator, Lhs: variable("a"), Rhs: variable("b")}},
			}}
			expanded, err := desugar.ExpandBooleanOperations(m)
			require.NoError(t, err)
			assert.Equal(t, test.expected, bodyOf(t, expanded, "main"))
		})
	}
}

func TestExpandListLiteral(t *testing.T) {
	m, services := typedModule(&ast.ValueDefinition{
		Name: "main",
		Type: &types.List{Element: number},
		Body: &ast.List{Type: &types.List{Element: number}, Elements: []ast.ListElement{
			{Expression: num(1)},
			{Expression: variable("xs"), Spread: true},
			{Expression: num(2)},
		}},
	})

	expanded, err := desugar.ExpandLists(m, services.Resolver, list)
	require.NoError(t, err)
	assert.Equal(t,
		"((core/list.prepend 1) ((core/list.concatenate xs) ((core/list.prepend 2) core/list.empty)))",
		bodyOf(t, expanded, "main"))
}

func TestExpandListCase(t *testing.T) {
	numbers := &types.List{Element: number}
	listCase := func(t types.Type) ast.Definition {
		return &ast.FunctionDefinition{
			Name:      "head",
			Arguments: []string{"xs"},
			Type:      types.NewFunction(types.NewUnion(none, number), numbers),
			Body: &ast.ListCase{
				Type:                t,
				Argument:            variable("xs"),
				FirstName:           "x",
				RestName:            "rest",
				EmptyAlternative:    &ast.None{},
				NonEmptyAlternative: variable("x"),
			},
		}
	}

	m, services := typedModule(listCase(numbers))
	expanded, err := desugar.ExpandLists(m, services.Resolver, list)
	require.NoError(t, err)

	c, ok := expanded.Definitions[0].(*ast.FunctionDefinition).Body.(*ast.Case)
	require.True(t, ok)
	assert.Equal(t, "(core/list.deconstruct xs)", ast.ExprString(c.Argument))
	require.Len(t, c.Alternatives, 2)
	assert.IsType(t, &types.None{}, c.Alternatives[0].Type)
	assert.Equal(t, "none", ast.ExprString(c.Alternatives[0].Expression))
	assert.Equal(t, "@core/list.FirstRest", types.Describe(c.Alternatives[1].Type))

	nonEmpty, ok := c.Alternatives[1].Expression.(*ast.Let)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "rest"}, util.MapSlice(nonEmpty.Definitions, ast.Definition.DefinitionName))
	assert.Equal(t, "number", types.Describe(nonEmpty.Definitions[0].DefinitionType()))
	firstRest := c.Alternatives[1].Name
	assert.Equal(t, "(case (core/list.first "+firstRest+") : Any of | $element: Number -> $element)",
		ast.ExprString(nonEmpty.Definitions[0].(*ast.ValueDefinition).Body))
	assert.Equal(t, "(core/list.rest "+firstRest+")", ast.ExprString(nonEmpty.Definitions[1].(*ast.ValueDefinition).Body))
	assert.Equal(t, "x", ast.ExprString(nonEmpty.Expression))

	t.Run("non-list argument", func(t *testing.T) {
		m, services := typedModule(listCase(number))
		_, err := desugar.ExpandLists(m, services.Resolver, list)
		assert.Equal(t, ilerr.ListExpected, ilerr.CodeOf(err))
	})

	t.Run("list aliases", func(t *testing.T) {
		m, _ := typedModule(listCase(ref("Numbers")))
		m.TypeDefinitions = append(m.TypeDefinitions, &ast.TypeDefinition{Name: "Numbers", Type: numbers})
		expanded, err := desugar.ExpandLists(m, types.NewServices(m.TypeDefinitionsMap()).Resolver, list)
		require.NoError(t, err)

		c, ok := expanded.Definitions[0].(*ast.FunctionDefinition).Body.(*ast.Case)
		require.True(t, ok)
		nonEmpty, ok := c.Alternatives[1].Expression.(*ast.Let)
		require.True(t, ok)
		assert.Equal(t, "number", types.Describe(nonEmpty.Definitions[0].DefinitionType()))
		assert.Equal(t, "@Numbers", types.Describe(nonEmpty.Definitions[1].DefinitionType()))
	})
}

func equalityModule(operator ast.EqualityOperator, t types.Type) (*ast.Module, *types.Services) {
	return typedModule(&ast.FunctionDefinition{
		Name:      "eq",
		Arguments: []string{"a", "b"},
		Type:      types.NewFunction(boolean, t, t),
		Body:      &ast.EqualityOperation{Operator: operator, Type: t, Lhs: variable("a"), Rhs: variable("b")},
	})
}

func TestExpandEqualityOperations(t *testing.T) {
	tests := []struct {
		name     string
		operator ast.EqualityOperator
		t        types.Type
		expected string
	}{
		{"numbers", ast.Equal, number, "(a ==[Number] b)"},
		{"strings", ast.Equal, &types.String{}, "(a ==[String] b)"},
		{"not equal", ast.NotEqual, number, "(if (a ==[Number] b) then false else true)"},
		{"booleans", ast.Equal, boolean, "(if a then b else (if b then false else true))"},
		{"none", ast.Equal, none, "true"},
		{"records", ast.Equal, ref("Point"), "((Point.$equal a) b)"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, services := equalityModule(test.operator, test.t)
			expanded, err := desugar.ExpandEqualityOperations(m, services, list)
			require.NoError(t, err)
			assert.Equal(t, test.expected, bodyOf(t, expanded, "eq"))
		})
	}
}

func TestRecordEqualFunction(t *testing.T) {
	eq := func(name string) ast.Definition {
		return &ast.FunctionDefinition{
			Name:      name,
			Arguments: []string{"a", "b"},
			Type:      types.NewFunction(boolean, ref("Point"), ref("Point")),
			Body:      &ast.EqualityOperation{Operator: ast.Equal, Type: ref("Point"), Lhs: variable("a"), Rhs: variable("b")},
		}
	}
	m, services := typedModule(eq("first"), eq("second"))

	expanded, err := desugar.ExpandEqualityOperations(m, services, list)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", desugar.EqualFunctionName("Point")}, names(expanded), "generated once")
	assert.Equal(t,
		"(if (lhs.x ==[Number] rhs.x) then (if (lhs.y ==[Number] rhs.y) then true else false) else false)",
		bodyOf(t, expanded, "Point.$equal"))
}

func TestUnionAndListEquality(t *testing.T) {
	t.Run("union", func(t *testing.T) {
		m, services := equalityModule(ast.Equal, types.NewUnion(none, number))
		expanded, err := desugar.ExpandEqualityOperations(m, services, list)
		require.NoError(t, err)

		outer, ok := expanded.Definitions[0].(*ast.FunctionDefinition).Body.(*ast.Case)
		require.True(t, ok)
		assert.Equal(t, "a", ast.ExprString(outer.Argument))
		require.Len(t, outer.Alternatives, 2)
		for _, alt := range outer.Alternatives {
			inner, ok := alt.Expression.(*ast.Case)
			require.True(t, ok)
			assert.Equal(t, "b", ast.ExprString(inner.Argument))
			require.Len(t, inner.Alternatives, 2)
			assert.Equal(t, types.Describe(alt.Type), types.Describe(inner.Alternatives[0].Type))
			assert.IsType(t, &types.Any{}, inner.Alternatives[1].Type)
			assert.Equal(t, "false", ast.ExprString(inner.Alternatives[1].Expression))
		}
	})

	t.Run("list", func(t *testing.T) {
		m, services := equalityModule(ast.Equal, &types.List{Element: number})
		expanded, err := desugar.ExpandEqualityOperations(m, services, list)
		require.NoError(t, err)

		let, ok := expanded.Definitions[0].(*ast.FunctionDefinition).Body.(*ast.Let)
		require.True(t, ok)
		require.Len(t, let.Definitions, 1)
		elements := let.Definitions[0].(*ast.FunctionDefinition)
		assert.Equal(t, "(any->(any->boolean))", types.Describe(elements.Type))
		assert.Equal(t, "(((core/list.equal "+elements.Name+") a) b)", ast.ExprString(let.Expression))
	})
}

func TestEqualityErrors(t *testing.T) {
	withFunction := &ast.TypeDefinition{Name: "Handler", Type: &types.Record{Name: "Handler", Fields: []types.RecordField{
		{Name: "run", Type: types.NewFunction(number, number)},
	}}}

	tests := []struct {
		name string
		t    types.Type
		code ilerr.ErrCode
	}{
		{"functions", types.NewFunction(number, number), ilerr.FunctionEqualOperation},
		{"any", anyT, ilerr.AnyEqualOperation},
		{"records with functions", ref("Handler"), ilerr.RecordEqualOperation},
		{"lists of functions", &types.List{Element: types.NewFunction(number, number)}, ilerr.FunctionEqualOperation},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, _ := equalityModule(ast.Equal, test.t)
			m.TypeDefinitions = append(m.TypeDefinitions, withFunction)
			_, err := desugar.ExpandEqualityOperations(m, types.NewServices(m.TypeDefinitionsMap()), list)
			require.Error(t, err)
			assert.Equal(t, test.code, ilerr.CodeOf(err), err.Error())
		})
	}
}

func TestExpandPartialApplications(t *testing.T) {
	add := &ast.FunctionDefinition{
		Name:      "add",
		Arguments: []string{"x", "y"},
		Type:      types.NewFunction(number, number, number),
		Body:      &ast.ArithmeticOperation{Operator: ast.Add, Lhs: variable("x"), Rhs: variable("y")},
	}
	partial := &ast.ValueDefinition{Name: "inc", Type: types.NewFunction(number, number), Body: ast.NewApplication(variable("add"), num(1))}
	full := &ast.ValueDefinition{Name: "three", Type: number, Body: ast.NewApplication(variable("add"), num(1), num(2))}
	shadowed := &ast.FunctionDefinition{
		Name:      "shadowed",
		Arguments: []string{"add"},
		Type:      types.NewFunction(types.NewFunction(number, number, number), types.NewFunction(number, number, number)),
		Body:      ast.NewApplication(variable("add"), num(1)),
	}

	m, services := typedModule(add, partial, full, shadowed)
	expanded, err := desugar.ExpandPartialApplications(m, services)
	require.NoError(t, err)

	assert.Equal(t, "(let $pa0 : Number = 1 in (let $pa2 $pa1 : Number -> Number = ((add $pa0) $pa1) in $pa2))", bodyOf(t, expanded, "inc"))
	assert.Equal(t, "((add 1) 2)", bodyOf(t, expanded, "three"))
	assert.Equal(t, "(add 1)", bodyOf(t, expanded, "shadowed"), "arguments have no known arity")

	t.Run("aliased function types", func(t *testing.T) {
		aliased := &ast.FunctionDefinition{Name: "add", Arguments: add.Arguments, Type: ref("BinOp"), Body: add.Body}
		addFive := &ast.ValueDefinition{Name: "addFive", Type: types.NewFunction(number, number), Body: ast.NewApplication(variable("add"), num(5))}
		m, _ := typedModule(aliased, addFive)
		m.TypeDefinitions = append(m.TypeDefinitions, &ast.TypeDefinition{Name: "BinOp", Type: types.NewFunction(number, number, number)})

		expanded, err := desugar.ExpandPartialApplications(m, types.NewServices(m.TypeDefinitionsMap()))
		require.NoError(t, err)
		assert.Equal(t, "(let $pa0 : Number = 5 in (let $pa2 $pa1 : Number -> Number = ((add $pa0) $pa1) in $pa2))", bodyOf(t, expanded, "addFive"))
	})
}

func TestEraseListTypes(t *testing.T) {
	other := ast.NewModuleInterface("lib/names")
	other.Variables["lib/names.all"] = &types.List{Element: &types.String{}}

	m, _ := typedModule(&ast.ValueDefinition{
		Name: "main",
		Type: types.NewUnion(&types.List{Element: number}, &types.List{Element: &types.String{}}),
		Body: variable("lib/names.all"),
	})
	m.Imports = append(m.Imports, other)

	erased, services, err := desugar.EraseListTypes(m, list)
	require.NoError(t, err)

	assert.Equal(t, "@core/list.List", types.Describe(erased.Definitions[0].DefinitionType()), "erased members collapse")
	assert.Equal(t, "@core/list.List", types.Describe(erased.Imports[1].Variables["lib/names.all"]))
	assert.Equal(t, "[string]", types.Describe(other.Variables["lib/names.all"]), "imports are copied")

	record, ok, err := services.Resolver.ResolveToRecord(erased.Definitions[0].DefinitionType())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, list.ListTypeName, record.Name)

	t.Run("record fields", func(t *testing.T) {
		m, _ := typedModule()
		m.TypeDefinitions = append(m.TypeDefinitions, &ast.TypeDefinition{Name: "Column", Type: &types.Record{Name: "Column", Fields: []types.RecordField{
			{Name: "values", Type: types.NewUnion(&types.List{Element: number}, &types.List{Element: &types.String{}})},
		}}})

		erased, services, err := desugar.EraseListTypes(m, list)
		require.NoError(t, err)
		column, ok, err := services.Resolver.ResolveToRecord(ref("Column"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "@core/list.List", types.Describe(column.Fields[0].Type), "erased members collapse")
		assert.Equal(t, "{Column|values:@core/list.List}", types.Describe(erased.TypeDefinitions[1].Type))
	})
}

func TestInsertTypeCoercions(t *testing.T) {
	optional := types.NewUnion(none, number)
	m, services := typedModule(
		&ast.ValueDefinition{
			Name: "maybe",
			Type: optional,
			Body: &ast.If{Condition: &ast.Boolean{Value: true}, Then: num(1), Else: &ast.None{}},
		},
		&ast.FunctionDefinition{Name: "widen", Arguments: []string{"x"}, Type: types.NewFunction(optional, number), Body: variable("x")},
		&ast.FunctionDefinition{Name: "anything", Arguments: []string{"x"}, Type: types.NewFunction(number, anyT), Body: num(0)},
		&ast.ValueDefinition{Name: "called", Type: number, Body: ast.NewApplication(variable("anything"), num(1))},
		&ast.ValueDefinition{Name: "origin", Type: ref("Point"), Body: &ast.RecordConstruction{Type: ref("Point"), Fields: []ast.RecordField{
			{Name: "x", Expression: num(0)},
			{Name: "y", Expression: num(0)},
		}}},
	)

	coerced, err := desugar.InsertTypeCoercions(m, services)
	require.NoError(t, err)

	assert.Equal(t, "(if true then (1 as Number => None | Number) else (none as None => None | Number))", bodyOf(t, coerced, "maybe"))
	assert.Equal(t, "(x as Number => None | Number)", bodyOf(t, coerced, "widen"))
	assert.Equal(t, "(anything (1 as Number => Any))", bodyOf(t, coerced, "called"))
	assert.Equal(t, "Point{ x = 0, y = 0 }", bodyOf(t, coerced, "origin"), "nothing to widen")
}

func TestCoercionsInCases(t *testing.T) {
	optional := types.NewUnion(none, number)
	m, services := typedModule(&ast.FunctionDefinition{
		Name:      "orZero",
		Arguments: []string{"x"},
		Type:      types.NewFunction(optional, optional),
		Body: &ast.Case{
			Type:     optional,
			Argument: variable("x"),
			Alternatives: []ast.Alternative{
				{Type: number, Name: "n", Expression: variable("n")},
				{Type: none, Name: "z", Expression: num(0)},
			},
		},
	})

	coerced, err := desugar.InsertTypeCoercions(m, services)
	require.NoError(t, err)
	// every alternative is a number, so only the whole case is widened
	assert.Equal(t, "orZero x : (None | Number) -> None | Number = ((case x : None | Number of | n: Number -> n | z: None -> 0) as Number => None | Number)",
		ast.DefinitionString(coerced.Definitions[0]))
}
