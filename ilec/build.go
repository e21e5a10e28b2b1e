package ilec

import (
	"github.com/pkg/errors"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/ir"
)

// Unit is a module to compile, along with the paths of the modules it imports
type Unit struct {
	Module  *ast.Module
	Imports []string
}

// Build compiles units in order, so a unit can only import units before it,
// the list library, or the interfaces already in compiled.
// The interface of every unit is added to compiled, by module path.
func Build(units []Unit, compiled map[string]*ast.ModuleInterface, cfg Configuration) ([]*ir.Module, error) {
	if _, ok := compiled[ListModulePath]; !ok {
		compiled[ListModulePath] = ListInterface(cfg)
	}
	out := make([]*ir.Module, 0, len(units))
	for _, unit := range units {
		m := *unit.Module
		m.Imports = nil
		for _, path := range unit.Imports {
			iface, ok := compiled[path]
			if !ok {
				return nil, errors.Errorf("module %s imports %s, which is not compiled before it", m.Path, path)
			}
			m.Imports = append(m.Imports, iface)
		}
		if _, ok := compiled[m.Path]; ok {
			return nil, errors.Errorf("module %s is compiled twice", m.Path)
		}

		lowered, iface, err := Compile(&m, cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug("built module", "module", m.Path, "imports", len(m.Imports))
		compiled[m.Path] = iface
		out = append(out, lowered)
	}
	return out, nil
}
