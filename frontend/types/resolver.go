package types

import (
	"slices"

	"github.com/cottand/ilec/frontend/ilerr"
)

// Resolver looks up named types.
//
// Resolution happens one level at a time: resolving a Reference yields the first
// non-reference type of its alias chain, and never looks inside records or unions.
// This is what keeps recursive types finite.
//
// All alias chains are resolved once in NewResolver. After that a Resolver is read-only.
type Resolver struct {
	definitions map[string]Type
	memo        map[string]resolution
}

type resolution struct {
	t   Type
	err error
}

func NewResolver(definitions map[string]Type) *Resolver {
	r := &Resolver{
		definitions: definitions,
		memo:        make(map[string]resolution, len(definitions)),
	}
	for name := range definitions {
		r.memo[name] = r.follow(name)
	}
	return r
}

func (r *Resolver) follow(name string) resolution {
	chain := []string{name}
	current := r.definitions[name]
	for {
		ref, isRef := current.(*Reference)
		if !isRef {
			return resolution{t: current}
		}
		if slices.Contains(chain, ref.Name) {
			return resolution{err: ilerr.New(ilerr.NewCyclicTypeAlias{
				Positioner: ref.Range,
				Names:      append(chain, ref.Name),
			})}
		}
		next, ok := r.definitions[ref.Name]
		if !ok {
			return resolution{err: ilerr.New(ilerr.NewTypeNotFound{
				Positioner: ref.Range,
				Name:       ref.Name,
			})}
		}
		chain = append(chain, ref.Name)
		current = next
	}
}

// Definition returns the type registered under name, without resolving it
func (r *Resolver) Definition(name string) (Type, bool) {
	t, ok := r.definitions[name]
	return t, ok
}

// Resolve returns t itself when it is not a Reference, and the type the reference
// points to otherwise, following alias chains
func (r *Resolver) Resolve(t Type) (Type, error) {
	ref, isRef := t.(*Reference)
	if !isRef {
		return t, nil
	}
	res, ok := r.memo[ref.Name]
	if !ok {
		return nil, ilerr.New(ilerr.NewTypeNotFound{
			Positioner: ref.Range,
			Name:       ref.Name,
		})
	}
	return res.t, res.err
}

func (r *Resolver) ResolveToRecord(t Type) (*Record, bool, error) {
	resolved, err := r.Resolve(t)
	if err != nil {
		return nil, false, err
	}
	record, ok := resolved.(*Record)
	return record, ok, nil
}

func (r *Resolver) ResolveToFunction(t Type) (*Function, bool, error) {
	resolved, err := r.Resolve(t)
	if err != nil {
		return nil, false, err
	}
	function, ok := resolved.(*Function)
	return function, ok, nil
}

func (r *Resolver) ResolveToList(t Type) (*List, bool, error) {
	resolved, err := r.Resolve(t)
	if err != nil {
		return nil, false, err
	}
	list, ok := resolved.(*List)
	return list, ok, nil
}

func (r *Resolver) ResolveToUnion(t Type) (*Union, bool, error) {
	resolved, err := r.Resolve(t)
	if err != nil {
		return nil, false, err
	}
	union, ok := resolved.(*Union)
	return union, ok, nil
}

func (r *Resolver) IsAny(t Type) (bool, error) {
	resolved, err := r.Resolve(t)
	if err != nil {
		return false, err
	}
	_, ok := resolved.(*Any)
	return ok, nil
}
