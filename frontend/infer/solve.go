package infer

import (
	"reflect"

	"github.com/hashicorp/go-set/v3"

	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
)

// maxConstrainDepth bounds how deep recursive types are unfolded while decomposing a constraint
const maxConstrainDepth = 64

// solver accumulates lower and upper bounds for type variables.
//
// Whenever a bound is added to a variable, it is checked against all the bounds
// of the opposite polarity the variable already has, so that bounds flow through
// chains of variables.
type solver struct {
	services *types.Services

	lower map[uint64][]types.Type
	upper map[uint64][]types.Type
	seen  *set.Set[string]

	solutions map[uint64]types.Type
}

func newSolver(services *types.Services) *solver {
	return &solver{
		services:  services,
		lower:     make(map[uint64][]types.Type),
		upper:     make(map[uint64][]types.Type),
		seen:      set.New[string](64),
		solutions: make(map[uint64]types.Type),
	}
}

func (s *solver) constrain(c constraint) error {
	return s.constrainAt(c.Lower, c.Upper, c.At, 0)
}

func (s *solver) constrainAt(l, u types.Type, at source.Range, depth int) error {
	if depth > maxConstrainDepth {
		return nil
	}
	key := types.Describe(l) + "<:" + types.Describe(u)
	if s.seen.Contains(key) {
		return nil
	}
	s.seen.Insert(key)

	if lv, ok := l.(*types.Variable); ok {
		if uv, ok := u.(*types.Variable); ok && uv.ID == lv.ID {
			return nil
		}
		s.upper[lv.ID] = append(s.upper[lv.ID], u)
		for _, bound := range s.lower[lv.ID] {
			if err := s.constrainAt(bound, u, at, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if uv, ok := u.(*types.Variable); ok {
		s.lower[uv.ID] = append(s.lower[uv.ID], l)
		for _, bound := range s.upper[uv.ID] {
			if err := s.constrainAt(l, bound, at, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	lRef, lIsRef := l.(*types.Reference)
	uRef, uIsRef := u.(*types.Reference)
	if lIsRef && uIsRef && lRef.Name == uRef.Name {
		return nil
	}
	if lIsRef || uIsRef {
		resolvedL, err := s.services.Resolver.Resolve(l)
		if err != nil {
			return err
		}
		resolvedU, err := s.services.Resolver.Resolve(u)
		if err != nil {
			return err
		}
		return s.constrainAt(resolvedL, resolvedU, at, depth+1)
	}

	if _, ok := u.(*types.Any); ok {
		return nil
	}
	if _, ok := l.(*types.Union); ok {
		members, err := s.services.Members(l)
		if err != nil {
			return err
		}
		for _, m := range members {
			if err := s.constrainAt(m, u, at, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if _, ok := u.(*types.Union); ok {
		return s.constrainToUnion(l, u, at, depth)
	}

	mismatch := func(reason string) error {
		return ilerr.New(ilerr.NewTypesNotMatched{Positioner: at, Lower: l, Upper: u, Reason: reason})
	}
	switch l := l.(type) {
	case *types.Function:
		other, ok := u.(*types.Function)
		if !ok {
			return mismatch("a function is not expected here")
		}
		if err := s.constrainAt(other.Argument, l.Argument, at, depth+1); err != nil {
			return err
		}
		return s.constrainAt(l.Result, other.Result, at, depth+1)
	case *types.List:
		other, ok := u.(*types.List)
		if !ok {
			return mismatch("a list is not expected here")
		}
		return s.constrainAt(l.Element, other.Element, at, depth+1)
	case *types.Record:
		other, ok := u.(*types.Record)
		if !ok || other.Name != l.Name {
			return mismatch("")
		}
		return nil
	case *types.Any:
		return mismatch("Any is only a subtype of itself")
	}
	if reflect.TypeOf(l) != reflect.TypeOf(u) {
		return mismatch("")
	}
	return nil
}

// constrainToUnion picks the union member a lower bound has to fit into
func (s *solver) constrainToUnion(l, u types.Type, at source.Range, depth int) error {
	members, err := s.services.Members(u)
	if err != nil {
		return err
	}
	if !types.ContainsVariable(l) {
		for _, m := range members {
			if types.ContainsVariable(m) {
				continue
			}
			ok, err := s.services.Subtype.IsSubtype(l, m)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
	}
	resolvedL, err := s.services.Resolver.Resolve(l)
	if err != nil {
		return err
	}
	for _, m := range members {
		resolvedM, err := s.services.Resolver.Resolve(m)
		if err != nil {
			return err
		}
		if sameShape(resolvedL, resolvedM) {
			return s.constrainAt(l, m, at, depth+1)
		}
	}
	for _, m := range members {
		if _, ok := m.(*types.Variable); ok {
			return s.constrainAt(l, m, at, depth+1)
		}
	}
	return ilerr.New(ilerr.NewTypesNotMatched{
		Positioner: at,
		Lower:      l,
		Upper:      u,
		Reason:     "no member of the union accepts it",
	})
}

func sameShape(a, b types.Type) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if ra, ok := a.(*types.Record); ok {
		return ra.Name == b.(*types.Record).Name
	}
	return true
}

// solution is the type a variable stands for, given its bounds:
// the union of its lower bounds if it has any, the most specific of its
// upper bounds otherwise, and Any when it is not constrained at all
func (s *solver) solution(id uint64, visiting *set.Set[uint64]) (types.Type, error) {
	if solved, ok := s.solutions[id]; ok {
		return solved, nil
	}
	if visiting.Contains(id) {
		return &types.Any{}, nil
	}
	visiting.Insert(id)
	defer visiting.Remove(id)

	concreteLower, variableLower := splitVariables(s.lower[id])
	concreteUpper, variableUpper := splitVariables(s.upper[id])

	var solved types.Type
	var err error
	switch {
	case len(concreteLower) != 0:
		solved, err = s.unionOf(concreteLower, visiting)
	case len(concreteUpper) != 0:
		solved, err = s.mostSpecific(concreteUpper, visiting)
	case len(variableLower) != 0:
		solved, err = s.unionOf(variableLower, visiting)
	case len(variableUpper) != 0:
		solved, err = s.substitute(variableUpper[0], visiting)
	default:
		solved = &types.Any{}
	}
	if err != nil {
		return nil, err
	}
	s.solutions[id] = solved
	return solved, nil
}

func splitVariables(ts []types.Type) (concrete, variables []types.Type) {
	for _, t := range ts {
		if _, ok := t.(*types.Variable); ok {
			variables = append(variables, t)
		} else {
			concrete = append(concrete, t)
		}
	}
	return concrete, variables
}

func (s *solver) unionOf(ts []types.Type, visiting *set.Set[uint64]) (types.Type, error) {
	substituted := make([]types.Type, 0, len(ts))
	for _, t := range ts {
		sub, err := s.substitute(t, visiting)
		if err != nil {
			return nil, err
		}
		substituted = append(substituted, sub)
	}
	return s.services.Union(substituted...)
}

func (s *solver) mostSpecific(ts []types.Type, visiting *set.Set[uint64]) (types.Type, error) {
	substituted := make([]types.Type, 0, len(ts))
	for _, t := range ts {
		sub, err := s.substitute(t, visiting)
		if err != nil {
			return nil, err
		}
		substituted = append(substituted, sub)
	}
candidates:
	for _, candidate := range substituted {
		for _, other := range substituted {
			ok, err := s.services.Subtype.IsSubtype(candidate, other)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue candidates
			}
		}
		return candidate, nil
	}
	return substituted[0], nil
}

// substitute replaces every variable in t by its solution
func (s *solver) substitute(t types.Type, visiting *set.Set[uint64]) (types.Type, error) {
	var err error
	out := types.Transform(t, func(t types.Type) types.Type {
		v, ok := t.(*types.Variable)
		if !ok || err != nil {
			return t
		}
		var solved types.Type
		solved, err = s.solution(v.ID, visiting)
		if err != nil {
			return t
		}
		return types.WithRange(solved, v.Range)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Substitute replaces every variable in t by its solution and canonicalizes the result
func (s *solver) Substitute(t types.Type) (types.Type, error) {
	sub, err := s.substitute(t, set.New[uint64](8))
	if err != nil {
		return nil, err
	}
	return s.services.Canonicalizer.Canonicalize(sub)
}

// reset forgets solutions computed so far, so new bounds are taken into account
func (s *solver) reset() {
	clear(s.solutions)
}

// resolveAccesses solves record field reads once the records they read from are known.
// A field read may depend on another one, so this goes on for as long as any read gets resolved.
func (s *solver) resolveAccesses(pending []fieldAccess) error {
	for len(pending) != 0 {
		var next []fieldAccess
		var lastErr error
		for _, access := range pending {
			s.reset()
			recordType, err := s.Substitute(access.Record)
			if err != nil {
				return err
			}
			record, ok, err := s.services.Resolver.ResolveToRecord(recordType)
			if err != nil {
				return err
			}
			if !ok {
				next = append(next, access)
				lastErr = ilerr.New(ilerr.NewRecordExpected{Positioner: access.At, Type: recordType})
				continue
			}
			field, _, ok := record.Field(access.Field)
			if !ok {
				return ilerr.New(ilerr.NewRecordFieldNotFound{Positioner: access.At, Record: record.Name, Field: access.Field})
			}
			if err := s.constrainAt(field.Type, access.Result, access.At, 0); err != nil {
				return err
			}
		}
		if len(next) == len(pending) {
			return lastErr
		}
		pending = next
	}
	s.reset()
	return nil
}
