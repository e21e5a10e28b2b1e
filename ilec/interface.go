package ilec

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/desugar"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/util"
)

// Interface extracts what importers of the typed and qualified module m can see of it.
//
// Exporting a record type exports its accessors, and its value when it has no fields.
// Types the exported names refer to are part of the interface too, so that importers
// can resolve them, even when they are not exported themselves.
func Interface(m *ast.Module) (*ast.ModuleInterface, error) {
	iface := ast.NewModuleInterface(m.Path)
	visible := m.TypeDefinitionsMap()

	exported := set.From(m.Exports)
	for _, name := range m.Exports {
		t, ok := visible[name]
		if !ok {
			continue
		}
		if record, ok := t.(*types.Record); ok {
			for _, field := range record.Fields {
				exported.Insert(desugar.AccessorName(name, field.Name))
			}
		}
		iface.Types[name] = t
	}
	for _, def := range m.Definitions {
		if exported.Contains(def.DefinitionName()) {
			iface.Variables[def.DefinitionName()] = def.DefinitionType()
		}
	}

	var pending util.Stack[string]
	push := func(t types.Type) {
		types.Transform(t, func(t types.Type) types.Type {
			if ref, ok := t.(*types.Reference); ok {
				pending.Push(ref.Name)
			}
			return t
		})
	}
	for _, t := range iface.Types {
		push(t)
	}
	for _, t := range iface.Variables {
		push(t)
	}
	for name, ok := pending.Pop(); ok; name, ok = pending.Pop() {
		if _, done := iface.Types[name]; done {
			continue
		}
		t, found := visible[name]
		if !found {
			return nil, ilerr.New(ilerr.NewTypeNotFound{Positioner: source.Range{}, Name: name})
		}
		iface.Types[name] = t
		push(t)
	}
	logger.Debug("extracted interface", "module", m.Path, "types", len(iface.Types), "variables", len(iface.Variables))
	return iface, nil
}
