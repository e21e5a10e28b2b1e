package types

import (
	"sort"

	xset "github.com/xtgo/set"

	"github.com/cottand/ilec/frontend/ilerr"
)

// Canonicalizer brings unions into their normal form:
// nested unions (including references to unions) are flattened, a union with Any in it
// becomes Any, duplicate members are removed and single-member unions collapse into that member.
//
// Members are ordered by their description, so canonicalization does not depend
// on the order members were written in.
type Canonicalizer struct {
	resolver *Resolver
	equality *EqualityChecker
}

func NewCanonicalizer(resolver *Resolver, equality *EqualityChecker) *Canonicalizer {
	return &Canonicalizer{resolver: resolver, equality: equality}
}

// Canonicalize normalises every union inside t, looking into function and list types.
// Record fields are left alone: records are only ever canonicalized where they are defined.
func (c *Canonicalizer) Canonicalize(t Type) (Type, error) {
	switch t := t.(type) {
	case *Function:
		arg, err := c.Canonicalize(t.Argument)
		if err != nil {
			return nil, err
		}
		res, err := c.Canonicalize(t.Result)
		if err != nil {
			return nil, err
		}
		if arg == t.Argument && res == t.Result {
			return t, nil
		}
		return &Function{Range: t.Range, Argument: arg, Result: res}, nil
	case *List:
		elem, err := c.Canonicalize(t.Element)
		if err != nil {
			return nil, err
		}
		if elem == t.Element {
			return t, nil
		}
		return &List{Range: t.Range, Element: elem}, nil
	case *Union:
		return c.canonicalizeUnion(t)
	}
	return t, nil
}

// CanonicalizeDefinition canonicalizes the type t is defined as.
// Unlike Canonicalize, it looks into the fields of a record.
func (c *Canonicalizer) CanonicalizeDefinition(t Type) (Type, error) {
	record, ok := t.(*Record)
	if !ok {
		return c.Canonicalize(t)
	}
	fields := make([]RecordField, len(record.Fields))
	changed := false
	for i, field := range record.Fields {
		canonical, err := c.Canonicalize(field.Type)
		if err != nil {
			return nil, err
		}
		changed = changed || canonical != field.Type
		fields[i] = RecordField{Name: field.Name, Type: canonical}
	}
	if !changed {
		return record, nil
	}
	return &Record{Range: record.Range, Name: record.Name, Fields: fields}, nil
}

func (c *Canonicalizer) canonicalizeUnion(union *Union) (Type, error) {
	flat, err := flatten(c.resolver, union)
	if err != nil {
		return nil, err
	}
	if len(flat) == 0 {
		ilerr.Unreachable("union without members at %v", union.Range)
	}
	if _, isAny := flat[0].(*Any); isAny {
		return &Any{Range: union.Range}, nil
	}

	members := make([]Type, 0, len(flat))
	for _, m := range flat {
		canonical, err := c.Canonicalize(m)
		if err != nil {
			return nil, err
		}
		members = append(members, canonical)
	}

	byDesc := newByDescription(members)
	sort.Sort(byDesc)
	members = byDesc.types[:xset.Uniq(byDesc)]

	// members can still be equal while being described differently,
	// like a reference and the record it points to
	unique := make([]Type, 0, len(members))
	for _, m := range members {
		duplicate := false
		for _, u := range unique {
			eq, err := c.equality.Equal(m, u)
			if err != nil {
				return nil, err
			}
			if eq {
				duplicate = true
				break
			}
		}
		if !duplicate {
			unique = append(unique, m)
		}
	}

	if len(unique) == 1 {
		return unique[0], nil
	}
	return &Union{Range: union.Range, Members: unique}, nil
}

// byDescription sorts types by Describe, computing each description once
type byDescription struct {
	types []Type
	descs []string
}

func newByDescription(ts []Type) *byDescription {
	descs := make([]string, len(ts))
	for i, t := range ts {
		descs[i] = Describe(t)
	}
	return &byDescription{types: ts, descs: descs}
}

func (b *byDescription) Len() int           { return len(b.types) }
func (b *byDescription) Less(i, j int) bool { return b.descs[i] < b.descs[j] }
func (b *byDescription) Swap(i, j int) {
	b.types[i], b.types[j] = b.types[j], b.types[i]
	b.descs[i], b.descs[j] = b.descs[j], b.descs[i]
}
