package types

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/cottand/ilec/frontend/ilerr"
)

// typePair identifies a pair of types by their descriptions,
// and is used to remember which pairs of (possibly recursive) types are being compared
type typePair struct {
	lhs, rhs string
}

func pairOf(a, b Type) typePair {
	return typePair{Describe(a), Describe(b)}
}

// EqualityChecker decides structural equality of types up to reference resolution
// and union flattening.
//
// Equality over recursive types is co-inductive: a pair of references already being
// compared is assumed equal, and equality fails only on a genuine mismatch.
type EqualityChecker struct {
	resolver *Resolver
}

func NewEqualityChecker(resolver *Resolver) *EqualityChecker {
	return &EqualityChecker{resolver: resolver}
}

func (c *EqualityChecker) Equal(a, b Type) (bool, error) {
	return c.equal(a, b, set.New[typePair](8))
}

func (c *EqualityChecker) equal(a, b Type, visited *set.Set[typePair]) (bool, error) {
	refA, isRefA := a.(*Reference)
	refB, isRefB := b.(*Reference)
	if isRefA && isRefB && refA.Name == refB.Name {
		return true, nil
	}
	if isRefA || isRefB {
		pair := pairOf(a, b)
		if visited.Contains(pair) {
			return true, nil
		}
		visited.Insert(pair)
		resolvedA, err := c.resolver.Resolve(a)
		if err != nil {
			return false, err
		}
		resolvedB, err := c.resolver.Resolve(b)
		if err != nil {
			return false, err
		}
		return c.equal(resolvedA, resolvedB, visited)
	}

	_, isUnionA := a.(*Union)
	_, isUnionB := b.(*Union)
	if isUnionA || isUnionB {
		return c.unionsEqual(a, b, visited)
	}

	switch a := a.(type) {
	case *Any:
		_, ok := b.(*Any)
		return ok, nil
	case *Boolean:
		_, ok := b.(*Boolean)
		return ok, nil
	case *Number:
		_, ok := b.(*Number)
		return ok, nil
	case *String:
		_, ok := b.(*String)
		return ok, nil
	case *None:
		_, ok := b.(*None)
		return ok, nil
	case *Variable:
		other, ok := b.(*Variable)
		return ok && other.ID == a.ID, nil
	case *Function:
		other, ok := b.(*Function)
		if !ok {
			return false, nil
		}
		argsEqual, err := c.equal(a.Argument, other.Argument, visited)
		if err != nil || !argsEqual {
			return false, err
		}
		return c.equal(a.Result, other.Result, visited)
	case *List:
		other, ok := b.(*List)
		if !ok {
			return false, nil
		}
		return c.equal(a.Element, other.Element, visited)
	case *Record:
		other, ok := b.(*Record)
		if !ok || other.Name != a.Name || len(other.Fields) != len(a.Fields) {
			return false, nil
		}
		for _, field := range a.Fields {
			otherField, _, found := other.Field(field.Name)
			if !found {
				return false, nil
			}
			fieldsEqual, err := c.equal(field.Type, otherField.Type, visited)
			if err != nil || !fieldsEqual {
				return false, err
			}
		}
		return true, nil
	}
	ilerr.Unreachable("unexpected type %T in equality", a)
	return false, nil
}

func (c *EqualityChecker) unionsEqual(a, b Type, visited *set.Set[typePair]) (bool, error) {
	membersA, err := flatten(c.resolver, a)
	if err != nil {
		return false, err
	}
	membersB, err := flatten(c.resolver, b)
	if err != nil {
		return false, err
	}
	contained := func(members, in []Type) (bool, error) {
		for _, m := range members {
			found := false
			for _, other := range in {
				eq, err := c.equal(m, other, visited)
				if err != nil {
					return false, err
				}
				if eq {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		}
		return true, nil
	}
	aInB, err := contained(membersA, membersB)
	if err != nil || !aInB {
		return false, err
	}
	return contained(membersB, membersA)
}

// flatten returns the members of t, looking through nested unions and through
// references that resolve to unions. Non-union types flatten to themselves.
// If any member is Any, the result is just that Any.
func flatten(resolver *Resolver, t Type) ([]Type, error) {
	var members []Type
	seen := set.New[string](4)
	var rec func(t Type) error
	rec = func(t Type) error {
		switch t := t.(type) {
		case *Union:
			for _, m := range t.Members {
				if err := rec(m); err != nil {
					return err
				}
			}
			return nil
		case *Reference:
			if seen.Contains(t.Name) {
				return nil
			}
			resolved, err := resolver.Resolve(t)
			if err != nil {
				return err
			}
			if _, isUnion := resolved.(*Union); isUnion {
				seen.Insert(t.Name)
				return rec(resolved)
			}
			if _, isAny := resolved.(*Any); isAny {
				members = append(members, resolved)
				return nil
			}
		}
		members = append(members, t)
		return nil
	}
	if err := rec(t); err != nil {
		return nil, err
	}
	for _, m := range members {
		if _, isAny := m.(*Any); isAny {
			return []Type{m}, nil
		}
	}
	return members, nil
}
