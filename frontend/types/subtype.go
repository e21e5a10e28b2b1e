package types

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/cottand/ilec/frontend/ilerr"
)

// SubtypeChecker decides whether a value of one (fully known) type can be used where
// another is expected. Like equality, it is co-inductive over references.
//
// Functions are contravariant in their argument and covariant in their result,
// lists are covariant, and records are invariant.
type SubtypeChecker struct {
	resolver *Resolver
	equality *EqualityChecker
}

func NewSubtypeChecker(resolver *Resolver, equality *EqualityChecker) *SubtypeChecker {
	return &SubtypeChecker{resolver: resolver, equality: equality}
}

func (c *SubtypeChecker) IsSubtype(lower, upper Type) (bool, error) {
	return c.isSubtype(lower, upper, set.New[typePair](8))
}

func (c *SubtypeChecker) isSubtype(lower, upper Type, visited *set.Set[typePair]) (bool, error) {
	refL, isRefL := lower.(*Reference)
	refU, isRefU := upper.(*Reference)
	if isRefL && isRefU && refL.Name == refU.Name {
		return true, nil
	}
	if isRefL || isRefU {
		pair := pairOf(lower, upper)
		if visited.Contains(pair) {
			return true, nil
		}
		visited.Insert(pair)
		resolvedL, err := c.resolver.Resolve(lower)
		if err != nil {
			return false, err
		}
		resolvedU, err := c.resolver.Resolve(upper)
		if err != nil {
			return false, err
		}
		return c.isSubtype(resolvedL, resolvedU, visited)
	}

	if _, isAny := upper.(*Any); isAny {
		return true, nil
	}
	if _, isUnion := lower.(*Union); isUnion {
		members, err := flatten(c.resolver, lower)
		if err != nil {
			return false, err
		}
		for _, m := range members {
			ok, err := c.isSubtype(m, upper, visited)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
	if _, isUnion := upper.(*Union); isUnion {
		members, err := flatten(c.resolver, upper)
		if err != nil {
			return false, err
		}
		for _, m := range members {
			ok, err := c.isSubtype(lower, m, visited)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}

	switch lower := lower.(type) {
	case *Any:
		return false, nil
	case *Boolean, *Number, *String, *None, *Variable:
		return c.equality.equal(lower, upper, visited)
	case *Function:
		other, ok := upper.(*Function)
		if !ok {
			return false, nil
		}
		argOk, err := c.isSubtype(other.Argument, lower.Argument, visited)
		if err != nil || !argOk {
			return false, err
		}
		return c.isSubtype(lower.Result, other.Result, visited)
	case *List:
		other, ok := upper.(*List)
		if !ok {
			return false, nil
		}
		return c.isSubtype(lower.Element, other.Element, visited)
	case *Record:
		return c.equality.equal(lower, upper, visited)
	}
	ilerr.Unreachable("unexpected type %T in subtyping", lower)
	return false, nil
}
