package types

// Services bundles the read-only type services built for one module:
// every pass that reasons about types holds on to the same Services.
type Services struct {
	Resolver      *Resolver
	Equality      *EqualityChecker
	Canonicalizer *Canonicalizer
	Comparability *ComparabilityChecker
	Subtype       *SubtypeChecker
}

func NewServices(definitions map[string]Type) *Services {
	resolver := NewResolver(definitions)
	equality := NewEqualityChecker(resolver)
	return &Services{
		Resolver:      resolver,
		Equality:      equality,
		Canonicalizer: NewCanonicalizer(resolver, equality),
		Comparability: NewComparabilityChecker(resolver),
		Subtype:       NewSubtypeChecker(resolver, equality),
	}
}

// Union canonicalizes the union of ts
func (s *Services) Union(ts ...Type) (Type, error) {
	return s.Canonicalizer.Canonicalize(NewUnion(ts...))
}

// Members returns the members of t as a flat list, looking through nested unions
// and references to unions. A type that is not a union is its only member.
func (s *Services) Members(t Type) ([]Type, error) {
	return flatten(s.Resolver, t)
}
