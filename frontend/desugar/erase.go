package desugar

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/types"
)

// EraseListTypes replaces every list type of m and of its imports with the opaque list type
// of the list library. Once lists are built with library calls, the element type of a list
// has no runtime meaning: elements are all stored as Any.
//
// Erasure can make members of a union equal, so types are canonicalized again, record
// fields of type definitions included. The services built for the canonical type
// definitions are returned too.
func EraseListTypes(m *ast.Module, list ListConfiguration) (*ast.Module, *types.Services, error) {
	erase := func(t types.Type) types.Type {
		return types.Transform(t, func(t types.Type) types.Type {
			if l, ok := t.(*types.List); ok {
				return &types.Reference{Range: l.Range, Name: list.ListTypeName}
			}
			return t
		})
	}

	withImports := *m
	withImports.Imports = make([]*ast.ModuleInterface, 0, len(m.Imports))
	for _, imported := range m.Imports {
		erased := imported.Clone()
		for name, t := range erased.Types {
			erased.Types[name] = erase(t)
		}
		for name, t := range erased.Variables {
			erased.Variables[name] = erase(t)
		}
		withImports.Imports = append(withImports.Imports, erased)
	}

	erased, err := ast.TransformTypes(&withImports, func(t types.Type) (types.Type, error) {
		return erase(t), nil
	})
	if err != nil {
		return nil, nil, err
	}
	services := types.NewServices(erased.TypeDefinitionsMap())
	canonical, err := ast.TransformTypes(erased, services.Canonicalizer.Canonicalize)
	if err != nil {
		return nil, nil, err
	}

	// record fields are only reached through their definitions
	for i, def := range canonical.TypeDefinitions {
		t, err := services.Canonicalizer.CanonicalizeDefinition(def.Type)
		if err != nil {
			return nil, nil, err
		}
		canonical.TypeDefinitions[i] = &ast.TypeDefinition{Range: def.Range, Name: def.Name, Type: t}
	}
	for _, imported := range canonical.Imports {
		for name, t := range imported.Types {
			if imported.Types[name], err = services.Canonicalizer.CanonicalizeDefinition(t); err != nil {
				return nil, nil, err
			}
		}
	}
	return canonical, types.NewServices(canonical.TypeDefinitionsMap()), nil
}
