package infer

import (
	"github.com/benbjohnson/immutable"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/util"
)

// Env maps the variables in scope to their types.
// It is persistent: binding a name returns a new Env and leaves the old one untouched,
// which is what lexical scoping needs.
type Env struct {
	vars *immutable.Map[string, types.Type]
}

func NewEnv(entries map[string]types.Type) Env {
	b := immutable.NewMapBuilder[string, types.Type](nil)
	for _, name := range util.SortedKeys(entries) {
		b.Set(name, entries[name])
	}
	return Env{vars: b.Map()}
}

func (e Env) Bind(name string, t types.Type) Env {
	return Env{vars: e.vars.Set(name, t)}
}

func (e Env) Lookup(name string) (types.Type, bool) {
	return e.vars.Get(name)
}

// BindDefinitions binds the declared type of every definition in defs
func (e Env) BindDefinitions(defs []ast.Definition) Env {
	for _, def := range defs {
		e = e.Bind(def.DefinitionName(), def.DefinitionType())
	}
	return e
}

// ModuleEnv is the environment top-level definitions of m are checked in:
// the variables of its imports and its own top-level definitions
func ModuleEnv(m *ast.Module) Env {
	entries := make(map[string]types.Type)
	for _, imported := range m.Imports {
		for name, t := range imported.Variables {
			entries[name] = t
		}
	}
	for _, def := range m.Definitions {
		entries[def.DefinitionName()] = def.DefinitionType()
	}
	return NewEnv(entries)
}
