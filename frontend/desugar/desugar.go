// Package desugar rewrites a module into the smaller language the backend understands.
//
// Passes run in a fixed order, and each one relies on the ones before it having run.
// The passes that come before inference work on an untyped tree; the others
// expect every type slot of the tree to be filled in and canonical.
package desugar

import (
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/internal/log"
)

var logger = ast.ExprLogger(log.Section("desugar"))

// ListConfiguration names the library lists are built with.
// All names are qualified, and the library's ModuleInterface must be imported
// by every module that is desugared with it.
type ListConfiguration struct {
	// EmptyVariable is the empty list
	EmptyVariable string
	// PrependFunction has type Any -> List -> List
	PrependFunction string
	// ConcatenateFunction has type List -> List -> List
	ConcatenateFunction string
	// EqualFunction has type (Any -> Any -> Boolean) -> List -> List -> Boolean
	EqualFunction string
	// DeconstructFunction has type List -> FirstRest | None
	DeconstructFunction string
	// FirstFunction has type FirstRest -> Any
	FirstFunction string
	// RestFunction has type FirstRest -> List
	RestFunction string

	// ListTypeName is the opaque type every list type becomes
	ListTypeName string
	// FirstRestTypeName is the opaque type of a non-empty list deconstructed by DeconstructFunction
	FirstRestTypeName string
}

// BeforeInference runs the passes that do not need types: record shorthands and
// accessors, name qualification, record update and pipe expansion.
func BeforeInference(m *ast.Module) (*ast.Module, error) {
	m = AddRecordDefinitions(m)
	m, err := Qualify(m)
	if err != nil {
		return nil, err
	}
	resolver := types.NewResolver(m.TypeDefinitionsMap())
	m, err = ExpandRecordUpdates(m, resolver)
	if err != nil {
		return nil, err
	}
	m, err = EliminatePipes(m)
	if err != nil {
		return nil, err
	}
	logger.Debug("desugared before inference", "module", m.Path)
	return m, nil
}

// AfterInference runs the passes that need a fully typed module, in order.
//
// Erasing list types changes type definitions, so the services the backend has to use
// on the result are returned alongside it.
func AfterInference(m *ast.Module, services *types.Services, list ListConfiguration) (*ast.Module, *types.Services, error) {
	m, err := ExpandLists(m, services.Resolver, list)
	if err != nil {
		return nil, nil, err
	}
	m, err = ExpandBooleanOperations(m)
	if err != nil {
		return nil, nil, err
	}
	m, err = ExpandEqualityOperations(m, services, list)
	if err != nil {
		return nil, nil, err
	}
	m, err = ExpandPartialApplications(m, services)
	if err != nil {
		return nil, nil, err
	}
	m, services, err = EraseListTypes(m, list)
	if err != nil {
		return nil, nil, err
	}
	m, err = InsertTypeCoercions(m, services)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("desugared after inference", "module", m.Path)
	return m, services, nil
}
