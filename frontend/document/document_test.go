package document_test

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/document"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/util"
)

const geometry = `
path: lib/geometry
imports: [core/list]
exports: [norm1, Point]
types:
  Point:
    record: {x: Number, y: Number}
  Shape:
    union: [Point, None]
definitions:
  norm1:
    arguments: [p]
    type: {function: [Point, Number]}
    body:
      add: [{field: [p, x]}, {field: [p, y]}]
  origin:
    record: {x: 0, y: 0}
    type: Point
  main: {apply: [norm1, origin]}
`

func definitionBody(t *testing.T, m *document.Module, name string) string {
	t.Helper()
	def, ok := m.DefinitionsByName()[name]
	require.True(t, ok, "no definition %s", name)
	switch def := def.(type) {
	case *ast.FunctionDefinition:
		return ast.ExprString(def.Body)
	case *ast.ValueDefinition:
		return ast.ExprString(def.Body)
	}
	return ""
}

func TestDecodeModule(t *testing.T) {
	fset := token.NewFileSet()
	m, err := document.DecodeModule(fset, "geometry.yaml", []byte(geometry))
	require.NoError(t, err)

	assert.Equal(t, "lib/geometry", m.Path)
	assert.Equal(t, []string{"core/list"}, m.ImportPaths)
	assert.Equal(t, []string{"norm1", "Point"}, m.Exports)
	assert.Equal(t, []string{"norm1", "origin", "main"}, util.MapSlice(m.Definitions, ast.Definition.DefinitionName))

	require.Len(t, m.TypeDefinitions, 2)
	point, ok := m.TypeDefinitions[0].Type.(*types.Record)
	require.True(t, ok)
	assert.Equal(t, "Point", point.Name)
	assert.Equal(t, []string{"x", "y"}, util.MapSlice(point.Fields, func(f types.RecordField) string { return f.Name }))
	assert.IsType(t, &types.Union{}, m.TypeDefinitions[1].Type)

	norm1, ok := m.DefinitionsByName()["norm1"].(*ast.FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, []string{"p"}, norm1.Arguments)
	assert.Equal(t, "Point -> Number", norm1.Type.String())
	assert.Equal(t, "(p.x + p.y)", definitionBody(t, m, "norm1"))
	assert.Equal(t, "(norm1 origin)", definitionBody(t, m, "main"))

	t.Run("positions", func(t *testing.T) {
		pos := fset.Position(m.DefinitionsByName()["norm1"].Pos())
		assert.Equal(t, "geometry.yaml", pos.Filename)
		assert.Equal(t, 11, pos.Line)
		assert.Equal(t, 3, pos.Column)
	})
}

func TestDecodeExpressions(t *testing.T) {
	tests := []struct {
		yaml     string
		expected string
	}{
		{"1.5", "1.5"},
		{"true", "true"},
		{"null", "none"},
		{"x", "x"},
		{`{string: "hi"}`, `"hi"`},
		{"{if: [c, 1, 2]}", "(if c then 1 else 2)"},
		{"{multiply: [{subtract: [a, 1]}, 2]}", "((a - 1) * 2)"},
		{"{pipe: [1, f]}", "(1 |> f)"},
		{"{and: [a, {or: [b, c]}]}", "(a && (b || c))"},
	}
	for _, test := range tests {
		t.Run(test.yaml, func(t *testing.T) {
			content := "path: test\ndefinitions:\n  main: " + test.yaml + "\n"
			m, err := document.DecodeModule(token.NewFileSet(), "test.yaml", []byte(content))
			require.NoError(t, err)
			assert.Equal(t, test.expected, definitionBody(t, m, "main"))
		})
	}

	t.Run("lists", func(t *testing.T) {
		content := "path: test\ndefinitions:\n  main: {list: [1, {spread: xs}], type: {list: Number}}\n"
		m, err := document.DecodeModule(token.NewFileSet(), "test.yaml", []byte(content))
		require.NoError(t, err)
		l, ok := m.Definitions[0].(*ast.ValueDefinition).Body.(*ast.List)
		require.True(t, ok)
		require.Len(t, l.Elements, 2)
		assert.False(t, l.Elements[0].Spread)
		assert.True(t, l.Elements[1].Spread)
		assert.Equal(t, "[Number]", l.Type.String())
	})

	t.Run("cases", func(t *testing.T) {
		content := `
path: test
definitions:
  main:
    case:
      argument: x
      alternatives:
        - {type: Number, name: n, body: n}
        - {type: Any, body: 0}
`
		m, err := document.DecodeModule(token.NewFileSet(), "test.yaml", []byte(content))
		require.NoError(t, err)
		c, ok := m.Definitions[0].(*ast.ValueDefinition).Body.(*ast.Case)
		require.True(t, ok)
		require.Len(t, c.Alternatives, 2)
		assert.Equal(t, "n", c.Alternatives[0].Name)
		assert.Equal(t, "_", c.Alternatives[1].Name)
		assert.IsType(t, &types.Any{}, c.Alternatives[1].Type)
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown expression", "path: test\ndefinitions:\n  main: {frobnicate: [1, 2]}\n"},
		{"two kinds", "path: test\ndefinitions:\n  main: {add: [1, 2], subtract: [1, 2]}\n"},
		{"wrong operand count", "path: test\ndefinitions:\n  main: {add: [1]}\n"},
		{"records outside of type definitions", "path: test\ndefinitions:\n  main: {list: [], type: {record: {x: Number}}}\n"},
		{"records without type", "path: test\ndefinitions:\n  main: {record: {x: 1}}\n"},
		{"unknown definition keys", "path: test\ndefinitions:\n  f: {arguments: [x], body: x, returns: Number}\n"},
		{"missing path", "definitions:\n  main: 1\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fset := token.NewFileSet()
			_, err := document.DecodeModule(fset, "test.yaml", []byte(test.content))
			require.Error(t, err)
			ileErr, ok := ilerr.As(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, ilerr.Syntax, ileErr.Code())
			assert.Contains(t, ilerr.FormatWithPosition(ileErr, fset), "test.yaml:")
		})
	}

	t.Run("unknown top-level keys", func(t *testing.T) {
		_, err := document.DecodeModule(token.NewFileSet(), "test.yaml", []byte("path: test\nmodules: []\n"))
		require.Error(t, err)
		assert.Equal(t, ilerr.None, ilerr.CodeOf(err))
	})
}

func TestInterfaceRoundTrip(t *testing.T) {
	i := ast.NewModuleInterface("lib/geometry")
	point := &types.Record{Name: "lib/geometry.Point", Fields: []types.RecordField{
		{Name: "x", Type: &types.Number{}},
		{Name: "y", Type: &types.Number{}},
	}}
	pointRef := &types.Reference{Name: "lib/geometry.Point"}
	i.Types["lib/geometry.Point"] = point
	i.Variables["lib/geometry.norm1"] = types.NewFunction(&types.Number{}, pointRef)
	i.Variables["lib/geometry.all"] = &types.List{Element: types.NewUnion(pointRef, &types.None{})}
	i.Variables["lib/geometry.apply"] = types.NewFunction(&types.String{}, types.NewFunction(&types.Boolean{}, &types.Any{}), &types.Any{})

	encoded, err := document.EncodeInterface(i)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "path: lib/geometry\n")

	decoded, err := document.DecodeInterface(token.NewFileSet(), "geometry.interface.yaml", encoded)
	require.NoError(t, err, string(encoded))

	assert.Equal(t, i.Path, decoded.Path)
	require.Len(t, decoded.Types, 1)
	assert.Equal(t, types.Describe(point), types.Describe(decoded.Types["lib/geometry.Point"]))
	require.Len(t, decoded.Variables, len(i.Variables))
	for name, t1 := range i.Variables {
		assert.Equal(t, types.Describe(t1), types.Describe(decoded.Variables[name]), name)
	}
}
