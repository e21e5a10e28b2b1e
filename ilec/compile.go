// Package ilec compiles modules, one at a time, into IR.
//
// A module is compiled against the interfaces of the modules it imports, which
// must have been compiled before it. Compiling produces the IR of the module and its
// own interface, for the modules importing it.
package ilec

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/cottand/ilec/backend"
	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/desugar"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/infer"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/internal/log"
	"github.com/cottand/ilec/ir"
)

var logger = ast.ExprLogger(log.Section("driver"))

// Compile runs the whole pipeline over m: desugaring, inference, lowering, and interface extraction.
//
// The returned error is an ilerr.IleError when m is not a valid program. Any other
// error is a bug in the compiler.
func Compile(m *ast.Module, cfg Configuration) (out *ir.Module, iface *ast.ModuleInterface, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = errors.Errorf("%v", r)
			}
			logger.Error("compiler panicked", "module", m.Path, "panic", cause)
			out, iface, err = nil, nil, errors.Wrapf(cause, "internal compiler error in module %s", m.Path)
		}
	}()

	if err := checkDuplicates(desugar.AddRecordDefinitions(m)); err != nil {
		return nil, nil, err
	}
	qualified, err := desugar.BeforeInference(m)
	if err != nil {
		return nil, nil, err
	}
	if err := checkExports(qualified); err != nil {
		return nil, nil, err
	}

	services := types.NewServices(qualified.TypeDefinitionsMap())
	inferred, err := infer.Module(qualified, services, types.NewFresher())
	if err != nil {
		return nil, nil, err
	}
	iface, err = Interface(inferred)
	if err != nil {
		return nil, nil, err
	}

	desugared, services, err := desugar.AfterInference(inferred, services, cfg.List)
	if err != nil {
		return nil, nil, err
	}
	out, err = backend.NewCompiler(services, backend.NewTagCalculator(services.Resolver)).Module(desugared)
	if err != nil {
		return nil, nil, err
	}
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		logger.Info("compiled module", "module", m.Path, "functions", len(out.Functions), "values", len(out.Values), "exports", len(iface.Variables))
	}
	return out, iface, nil
}

// checkDuplicates fails on the first name m defines twice, as a type or as a variable
func checkDuplicates(m *ast.Module) error {
	typeNames := make(map[string]struct{}, len(m.TypeDefinitions))
	for _, def := range m.TypeDefinitions {
		if _, ok := typeNames[def.Name]; ok {
			return ilerr.New(ilerr.NewDuplicateDefinition{Positioner: def.Range, Name: def.Name})
		}
		typeNames[def.Name] = struct{}{}
	}
	names := make(map[string]struct{}, len(m.Definitions))
	for _, def := range m.Definitions {
		if _, ok := names[def.DefinitionName()]; ok {
			return ilerr.New(ilerr.NewDuplicateDefinition{Positioner: def, Name: def.DefinitionName()})
		}
		names[def.DefinitionName()] = struct{}{}
	}
	return nil
}

// checkExports makes sure every export of the qualified module m names one of its definitions
func checkExports(m *ast.Module) error {
	definitions := m.DefinitionsByName()
	typeDefinitions := make(map[string]struct{}, len(m.TypeDefinitions))
	for _, def := range m.TypeDefinitions {
		typeDefinitions[def.Name] = struct{}{}
	}
	for _, name := range m.Exports {
		_, isType := typeDefinitions[name]
		if _, ok := definitions[name]; !ok && !isType {
			return ilerr.New(ilerr.NewExportNotFound{Positioner: source.Range{}, Name: name})
		}
	}
	return nil
}
