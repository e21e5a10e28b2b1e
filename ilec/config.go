package ilec

import (
	"github.com/cottand/ilec/backend"
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/desugar"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/ir"
)

// ListModulePath is the path of the list library in DefaultConfiguration
const ListModulePath = "core/list"

// Configuration is what Compile needs to know beyond the module itself
type Configuration struct {
	List desugar.ListConfiguration
}

// DefaultConfiguration uses the list library at ListModulePath
func DefaultConfiguration() Configuration {
	qualified := func(name string) string { return ListModulePath + "." + name }
	return Configuration{List: desugar.ListConfiguration{
		EmptyVariable:       qualified("empty"),
		PrependFunction:     qualified("prepend"),
		ConcatenateFunction: qualified("concatenate"),
		EqualFunction:       qualified("equal"),
		DeconstructFunction: qualified("deconstruct"),
		FirstFunction:       qualified("first"),
		RestFunction:        qualified("rest"),
		ListTypeName:        qualified("List"),
		FirstRestTypeName:   qualified("FirstRest"),
	}}
}

// ListInterface is the interface of the list library of cfg.
// Modules using lists must import it.
//
// List and FirstRest are opaque: they are records without fields, so nothing
// but the library itself can build or read them.
func ListInterface(cfg Configuration) *ast.ModuleInterface {
	l := cfg.List
	i := ast.NewModuleInterface(ListModulePath)
	list := &types.Reference{Name: l.ListTypeName}
	firstRest := &types.Reference{Name: l.FirstRestTypeName}
	anything, boolean := &types.Any{}, &types.Boolean{}

	i.Types[l.ListTypeName] = &types.Record{Name: l.ListTypeName}
	i.Types[l.FirstRestTypeName] = &types.Record{Name: l.FirstRestTypeName}

	i.Variables[l.EmptyVariable] = list
	i.Variables[l.PrependFunction] = types.NewFunction(list, anything, list)
	i.Variables[l.ConcatenateFunction] = types.NewFunction(list, list, list)
	i.Variables[l.EqualFunction] = types.NewFunction(boolean, types.NewFunction(boolean, anything, anything), list, list)
	i.Variables[l.DeconstructFunction] = types.NewFunction(types.NewUnion(firstRest, &types.None{}), list)
	i.Variables[l.FirstFunction] = types.NewFunction(anything, firstRest)
	i.Variables[l.RestFunction] = types.NewFunction(list, firstRest)
	return i
}

// HostList implements the list library of cfg for ir.Interpreter
func HostList(cfg Configuration) (map[string]ir.Value, error) {
	l := cfg.List
	tags := backend.NewTagCalculator(types.NewResolver(ListInterface(cfg).Types))
	firstRest, err := tags.Tag(&types.Reference{Name: l.FirstRestTypeName})
	if err != nil {
		return nil, err
	}
	none, err := tags.Tag(&types.None{})
	if err != nil {
		return nil, err
	}
	names := ir.ListNames{
		Empty:       l.EmptyVariable,
		Prepend:     l.PrependFunction,
		Concatenate: l.ConcatenateFunction,
		Equal:       l.EqualFunction,
		Deconstruct: l.DeconstructFunction,
		First:       l.FirstFunction,
		Rest:        l.RestFunction,
	}
	return ir.HostList(names, ir.ListTags{FirstRest: firstRest, None: none}), nil
}
