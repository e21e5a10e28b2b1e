package ast

import (
	"maps"

	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
)

// Definition is either a FunctionDefinition or a ValueDefinition
type Definition interface {
	source.Positioner
	DefinitionName() string
	DefinitionType() types.Type
	definitionNode()
}

var (
	_ Definition = (*FunctionDefinition)(nil)
	_ Definition = (*ValueDefinition)(nil)
)

// FunctionDefinition defines Name(Arguments...) = Body.
//
// Type is the curried type of the whole function, so it has at least as
// many argument types as there are Arguments.
type FunctionDefinition struct {
	source.Range
	Name      string
	Arguments []string
	Type      types.Type
	Body      Expression
}

type ValueDefinition struct {
	source.Range
	Name string
	Type types.Type
	Body Expression
}

func (d *FunctionDefinition) DefinitionName() string     { return d.Name }
func (d *FunctionDefinition) DefinitionType() types.Type { return d.Type }
func (d *FunctionDefinition) definitionNode()            {}

func (d *ValueDefinition) DefinitionName() string     { return d.Name }
func (d *ValueDefinition) DefinitionType() types.Type { return d.Type }
func (d *ValueDefinition) definitionNode()            {}

// TypeDefinition names Type. Records are defined this way, as well as type aliases.
type TypeDefinition struct {
	source.Range
	Name string
	Type types.Type
}

// Module is one compilation unit.
// Its Imports are the interfaces of modules compiled before it.
type Module struct {
	Path            string
	Exports         []string
	Imports         []*ModuleInterface
	TypeDefinitions []*TypeDefinition
	Definitions     []Definition
}

// WithDefinitions returns a shallow copy of m with different definitions
func (m *Module) WithDefinitions(definitions []Definition) *Module {
	next := *m
	next.Definitions = definitions
	return &next
}

// ModuleInterface is what importers see of a module: the types of its exported
// definitions and its exported type definitions, by qualified name.
type ModuleInterface struct {
	Path      string
	Types     map[string]types.Type
	Variables map[string]types.Type
}

func NewModuleInterface(path string) *ModuleInterface {
	return &ModuleInterface{
		Path:      path,
		Types:     make(map[string]types.Type),
		Variables: make(map[string]types.Type),
	}
}

func (i *ModuleInterface) Clone() *ModuleInterface {
	return &ModuleInterface{
		Path:      i.Path,
		Types:     maps.Clone(i.Types),
		Variables: maps.Clone(i.Variables),
	}
}

// TypeDefinitionsMap returns all types visible in m by name:
// its own type definitions and those of its imports
func (m *Module) TypeDefinitionsMap() map[string]types.Type {
	definitions := make(map[string]types.Type)
	for _, imported := range m.Imports {
		maps.Copy(definitions, imported.Types)
	}
	for _, def := range m.TypeDefinitions {
		definitions[def.Name] = def.Type
	}
	return definitions
}

// DefinitionsByName returns the top-level definitions of m by name
func (m *Module) DefinitionsByName() map[string]Definition {
	byName := make(map[string]Definition, len(m.Definitions))
	for _, def := range m.Definitions {
		byName[def.DefinitionName()] = def
	}
	return byName
}
