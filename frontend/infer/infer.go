// Package infer fills in the types a module leaves out and checks the ones it declares.
//
// Inference happens in four steps. Every missing type is replaced by a fresh type variable,
// then constraints are collected over the whole module, solved into bounds for every
// variable, and finally every variable is replaced by its solution.
// Once solutions are known, all constraints are verified again with plain subtyping.
package infer

import (
	"context"
	"log/slog"

	"github.com/cottand/ilec/frontend/ast"
	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
	"github.com/cottand/ilec/internal/log"
)

var logger = ast.ExprLogger(log.Section("inference"))

// Module returns m with every type slot filled in with a canonical, variable-free type
func Module(m *ast.Module, services *types.Services, fresher *types.Fresher) (*ast.Module, error) {
	annotated, err := annotate(m, fresher)
	if err != nil {
		return nil, err
	}

	c := newCollector(services, fresher)
	if err := c.module(annotated); err != nil {
		return nil, err
	}
	logger.Debug("collected constraints", "module", m.Path, "solved", len(c.solved), "checked", len(c.checked))

	s := newSolver(services)
	for _, constraint := range c.solved {
		if err := s.constrain(constraint); err != nil {
			logger.Debug("constraint failed", "constraint", constraint.String(), ilerr.LogAttr(err))
			return nil, err
		}
	}

	if err := s.resolveAccesses(c.accesses); err != nil {
		return nil, err
	}

	inferred, err := ast.TransformTypes(annotated, s.Substitute)
	if err != nil {
		return nil, err
	}

	for _, constraint := range c.solved {
		if err := verify(constraint, s, services); err != nil {
			return nil, err
		}
	}
	for _, constraint := range c.checked {
		if err := verify(constraint, s, services); err != nil {
			return nil, err
		}
	}

	_, _ = ast.TransformTypes(inferred, func(t types.Type) (types.Type, error) {
		ilerr.Assert(!types.ContainsVariable(t), "type variable left in %v after inference", t)
		return t, nil
	})
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug("inferred module", "module", inferred.String())
	}
	return inferred, nil
}

func annotate(m *ast.Module, fresher *types.Fresher) (*ast.Module, error) {
	return ast.Transformer{
		OnUnknownType: func(at source.Positioner) types.Type {
			return fresher.Fresh(at)
		},
	}.TransformModule(m)
}

// verify checks a constraint once the variables in it are known
func verify(c constraint, s *solver, services *types.Services) error {
	lower, err := s.Substitute(c.Lower)
	if err != nil {
		return err
	}
	upper, err := s.Substitute(c.Upper)
	if err != nil {
		return err
	}
	if c.kind == pattern {
		// an Any alternative is the default branch of a case
		isAny, err := services.Resolver.IsAny(lower)
		if err != nil || isAny {
			return err
		}
	}
	ok, err := services.Subtype.IsSubtype(lower, upper)
	if err != nil || ok {
		return err
	}
	if c.kind == pattern {
		return ilerr.New(ilerr.NewCasePatternNotSubtype{Positioner: c.At, Pattern: lower, Subject: upper})
	}
	return ilerr.New(ilerr.NewTypesNotMatched{Positioner: c.At, Lower: lower, Upper: upper})
}
