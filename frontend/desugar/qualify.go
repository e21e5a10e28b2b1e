package desugar

import (
	"strings"

	"github.com/hashicorp/go-set/v3"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/infer"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/util"
)

// Qualify renames every top-level name of m so that it is unique across modules.
//
// Top-level definitions, type definitions and exports of m become "<module path>.<name>".
// Names of imported modules are written "<last segment of the import path>.<name>" in
// source, and become "<import path>.<name>". Local variables are never renamed, and
// they shadow top-level names.
func Qualify(m *ast.Module) (*ast.Module, error) {
	q := &qualifier{
		path:      m.Path,
		types:     set.New[string](len(m.TypeDefinitions)),
		variables: set.New[string](len(m.Definitions)),
		imports:   m.Imports,
	}
	for _, def := range m.TypeDefinitions {
		q.types.Insert(def.Name)
	}
	for _, def := range m.Definitions {
		q.variables.Insert(def.DefinitionName())
	}

	typed, err := ast.TransformTypes(m, func(t types.Type) (types.Type, error) {
		return types.Transform(t, q.qualifyType), nil
	})
	if err != nil {
		return nil, err
	}

	w := walker{onExpression: q.expression}
	definitions := make([]ast.Definition, 0, len(typed.Definitions))
	for _, def := range typed.Definitions {
		// top-level definitions are not local, so they are not part of the scope
		newDef, err := w.definition(def, newScope(infer.NewEnv(nil)))
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, renamed(newDef, q.qualified(newDef.DefinitionName())))
	}

	next := typed.WithDefinitions(definitions)
	next.TypeDefinitions = make([]*ast.TypeDefinition, 0, len(typed.TypeDefinitions))
	for _, def := range typed.TypeDefinitions {
		next.TypeDefinitions = append(next.TypeDefinitions, &ast.TypeDefinition{Range: def.Range, Name: q.qualified(def.Name), Type: def.Type})
	}
	next.Exports = make([]string, 0, len(m.Exports))
	for _, name := range m.Exports {
		if q.variables.Contains(name) || q.types.Contains(name) {
			name = q.qualified(name)
		}
		next.Exports = append(next.Exports, name)
	}
	return next, nil
}

type qualifier struct {
	path      string
	types     *set.Set[string]
	variables *set.Set[string]
	imports   []*ast.ModuleInterface
}

func (q *qualifier) qualified(name string) string {
	return q.path + "." + name
}

func (q *qualifier) qualifyType(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.Reference:
		if q.types.Contains(t.Name) {
			return &types.Reference{Range: t.Range, Name: q.qualified(t.Name)}
		}
		if name, ok := q.imported(t.Name, func(i *ast.ModuleInterface, name string) bool {
			_, ok := i.Types[name]
			return ok
		}); ok {
			return &types.Reference{Range: t.Range, Name: name}
		}
	case *types.Record:
		if q.types.Contains(t.Name) {
			return &types.Record{Range: t.Range, Name: q.qualified(t.Name), Fields: t.Fields}
		}
	}
	return t
}

func (q *qualifier) expression(e ast.Expression, s scope) (ast.Expression, error) {
	v, ok := e.(*ast.Variable)
	if !ok || s.isLocal(v.Name) {
		return e, nil
	}
	if q.variables.Contains(v.Name) {
		return &ast.Variable{Range: v.Range, Name: q.qualified(v.Name)}, nil
	}
	if name, ok := q.imported(v.Name, func(i *ast.ModuleInterface, name string) bool {
		_, ok := i.Variables[name]
		return ok
	}); ok {
		return &ast.Variable{Range: v.Range, Name: name}, nil
	}
	return e, nil
}

// imported finds the qualified name of a name written as "<last segment of an import path>.<name>"
func (q *qualifier) imported(name string, exists func(*ast.ModuleInterface, string) bool) (string, bool) {
	for _, i := range q.imports {
		_, last := util.StringTakeUntilLast(i.Path, '/')
		rest, ok := strings.CutPrefix(name, last+".")
		if !ok {
			continue
		}
		if qualified := i.Path + "." + rest; exists(i, qualified) {
			return qualified, true
		}
	}
	return "", false
}

func renamed(def ast.Definition, name string) ast.Definition {
	switch def := def.(type) {
	case *ast.FunctionDefinition:
		next := *def
		next.Name = name
		return &next
	case *ast.ValueDefinition:
		next := *def
		next.Name = name
		return &next
	}
	return def
}
