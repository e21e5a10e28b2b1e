// Package backend lowers a desugared, fully typed module into an ir.Module.
//
// By the time a module gets here, the frontend has left only expressions with a direct
// counterpart in ir, plus cases and type coercions. Those two are where the representation
// of values changes: values of unions and of Any are variants tagged by a TagCalculator,
// and every other value is stored as itself.
package backend

import (
	"context"
	"log/slog"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/infer"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/internal/log"
	"github.com/cottand/ilec/ir"
	"github.com/cottand/ilec/util"
)

var logger = ast.ExprLogger(log.Section("lower"))

type Compiler struct {
	services  *types.Services
	extractor *infer.TypeExtractor
	tags      *TagCalculator
	names     *util.NameGenerator
}

// NewCompiler builds a Compiler for modules whose types are described by services.
// tags may be shared between compilers, so that every module sees the same tags.
func NewCompiler(services *types.Services, tags *TagCalculator) *Compiler {
	return &Compiler{
		services:  services,
		extractor: infer.NewTypeExtractor(services),
		tags:      tags,
		names:     util.NewNameGenerator("lower"),
	}
}

// scope holds the types of the variables visible from an expression.
// locals is the part of env that is not global, and may be captured by closures.
type scope struct {
	env    infer.Env
	locals infer.Env
}

func (s scope) bind(name string, t types.Type) scope {
	return scope{env: s.env.Bind(name, t), locals: s.locals.Bind(name, t)}
}

// Module lowers m, which must have gone through the whole desugaring pipeline
func (c *Compiler) Module(m *ast.Module) (*ir.Module, error) {
	out := &ir.Module{Path: m.Path}
	var err error
	out.TypeDefinitions, err = c.typeDefinitions(m)
	if err != nil {
		return nil, err
	}
	out.Declarations, err = c.declarations(m)
	if err != nil {
		return nil, err
	}

	s := scope{env: infer.ModuleEnv(m), locals: infer.NewEnv(nil)}
	for _, def := range m.Definitions {
		switch def := def.(type) {
		case *ast.FunctionDefinition:
			if len(def.Arguments) == 0 {
				value, err := c.globalValue(def.Name, def.Type, def.Body, s)
				if err != nil {
					return nil, err
				}
				out.Values = append(out.Values, value)
				continue
			}
			f, err := c.function(def, s)
			if err != nil {
				return nil, err
			}
			ilerr.Assert(len(f.Environment) == 0, "top-level function %s captures %v", f.Name, f.Environment)
			out.Functions = append(out.Functions, f)
		case *ast.ValueDefinition:
			value, err := c.globalValue(def.Name, def.Type, def.Body, s)
			if err != nil {
				return nil, err
			}
			out.Values = append(out.Values, value)
		default:
			ilerr.Unreachable("unexpected definition %T", def)
		}
	}

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug("lowered module", "module", out.String())
	}
	return out, nil
}

func (c *Compiler) globalValue(name string, t types.Type, body ast.Expression, s scope) (*ir.GlobalValue, error) {
	irType, err := c.compileType(t)
	if err != nil {
		return nil, err
	}
	irBody, err := c.expression(body, s)
	if err != nil {
		return nil, err
	}
	return &ir.GlobalValue{Name: name, Type: irType, Body: irBody}, nil
}

// typeDefinitions lays out every record visible in m, including those of its imports
func (c *Compiler) typeDefinitions(m *ast.Module) ([]*ir.TypeDefinition, error) {
	definitions := m.TypeDefinitionsMap()
	var out []*ir.TypeDefinition
	laidOut := make(map[string]bool)
	for _, name := range util.SortedKeys(definitions) {
		record, ok, err := c.services.Resolver.ResolveToRecord(definitions[name])
		if err != nil {
			return nil, err
		}
		if !ok || laidOut[record.Name] {
			continue
		}
		laidOut[record.Name] = true
		def, err := c.compileRecord(record)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

// declarations lists the variables m imports
func (c *Compiler) declarations(m *ast.Module) ([]ir.Declaration, error) {
	var out []ir.Declaration
	for _, imported := range m.Imports {
		for _, name := range util.SortedKeys(imported.Variables) {
			t, err := c.compileType(imported.Variables[name])
			if err != nil {
				return nil, err
			}
			out = append(out, ir.Declaration{Name: name, Type: t})
		}
	}
	return out, nil
}
