package types

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/cottand/ilec/frontend/ilerr"
)

// ComparabilityChecker decides whether values of a type can be compared
// for structural equality: functions never can, and neither can Any until it is narrowed.
type ComparabilityChecker struct {
	resolver *Resolver
}

func NewComparabilityChecker(resolver *Resolver) *ComparabilityChecker {
	return &ComparabilityChecker{resolver: resolver}
}

func (c *ComparabilityChecker) Comparable(t Type) (bool, error) {
	return c.comparable(t, set.New[string](4))
}

func (c *ComparabilityChecker) comparable(t Type, visited *set.Set[string]) (bool, error) {
	switch t := t.(type) {
	case *Boolean, *Number, *String, *None:
		return true, nil
	case *Any, *Function:
		return false, nil
	case *List:
		return c.comparable(t.Element, visited)
	case *Reference:
		// a record being checked is assumed comparable until one of its fields says otherwise
		if visited.Contains(t.Name) {
			return true, nil
		}
		visited.Insert(t.Name)
		resolved, err := c.resolver.Resolve(t)
		if err != nil {
			return false, err
		}
		return c.comparable(resolved, visited)
	case *Record:
		if t.Name != "" {
			visited.Insert(t.Name)
		}
		for _, field := range t.Fields {
			ok, err := c.comparable(field.Type, visited)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case *Union:
		for _, m := range t.Members {
			ok, err := c.comparable(m, visited)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case *Variable:
		ilerr.Unreachable("type variable %v left after inference", t)
	}
	ilerr.Unreachable("unexpected type %T", t)
	return false, nil
}
