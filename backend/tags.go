package backend

import (
	"encoding/binary"
	"hash/fnv"
	"slices"
	"sort"
	"strings"

	"github.com/benbjohnson/immutable"
	"github.com/hashicorp/go-set/v3"
	xset "github.com/xtgo/set"

	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/types"
)

// TagCalculator assigns every type the tag its values carry once they are stored in a variant.
//
// A tag is derived from the content of the type, so it is the same in every module and in every
// run: two types that are equal get the same tag, whatever references or union member order
// they were written with. Records are nominal, so a record is tagged by its name only.
type TagCalculator struct {
	resolver *types.Resolver
	// descriptions holds the normalised type behind every tag handed out so far
	descriptions map[uint64]string
}

func NewTagCalculator(resolver *types.Resolver) *TagCalculator {
	return &TagCalculator{resolver: resolver, descriptions: make(map[uint64]string)}
}

func (c *TagCalculator) Tag(t types.Type) (uint64, error) {
	sb := &strings.Builder{}
	if err := c.describe(sb, t, set.New[string](0)); err != nil {
		return 0, err
	}
	description := sb.String()

	h := fnv.New64a()
	_, _ = h.Write([]byte(description))
	tag := h.Sum64()

	if seen, ok := c.descriptions[tag]; ok {
		ilerr.Assert(seen == description, "types %s and %s share the tag %016x", seen, description, tag)
	}
	c.descriptions[tag] = description
	return tag, nil
}

// Tags returns the sorted tags of members, without duplicates
func (c *TagCalculator) Tags(members []types.Type) ([]uint64, error) {
	tags := make(tagSlice, 0, len(members))
	for _, m := range members {
		tag, err := c.Tag(m)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	sort.Sort(tags)
	return tags[:xset.Uniq(tags)], nil
}

// describe writes the normalised form of t: references are looked through, union members
// are sorted, and records are reduced to their name
func (c *TagCalculator) describe(sb *strings.Builder, t types.Type, visiting *set.Set[string]) error {
	switch t := t.(type) {
	case *types.Any, *types.Boolean, *types.Number, *types.String, *types.None:
		sb.WriteString(types.Describe(t))
	case *types.Function:
		sb.WriteString("(")
		if err := c.describe(sb, t.Argument, visiting); err != nil {
			return err
		}
		sb.WriteString("->")
		if err := c.describe(sb, t.Result, visiting); err != nil {
			return err
		}
		sb.WriteString(")")
	case *types.List:
		sb.WriteString("[")
		if err := c.describe(sb, t.Element, visiting); err != nil {
			return err
		}
		sb.WriteString("]")
	case *types.Record:
		sb.WriteString("{" + t.Name + "}")
	case *types.Union:
		members := make([]string, 0, len(t.Members))
		for _, m := range t.Members {
			member := &strings.Builder{}
			if err := c.describe(member, m, visiting); err != nil {
				return err
			}
			members = append(members, member.String())
		}
		slices.Sort(members)
		sb.WriteString("<" + strings.Join(slices.Compact(members), "|") + ">")
	case *types.Reference:
		if visiting.Contains(t.Name) {
			sb.WriteString("@" + t.Name)
			return nil
		}
		resolved, err := c.resolver.Resolve(t)
		if err != nil {
			return err
		}
		inner := visiting.Copy()
		inner.Insert(t.Name)
		return c.describe(sb, resolved, inner)
	default:
		ilerr.Unreachable("no tag for type %v (%T)", t, t)
	}
	return nil
}

// Hasher identifies types by their tag, so that types with the same tag are the same
// member of a set. Types are expected to resolve: a type that does not is an internal error.
func (c *TagCalculator) Hasher() immutable.Hasher[types.Type] {
	return tagHasher{c}
}

type tagHasher struct{ tags *TagCalculator }

func (h tagHasher) tag(t types.Type) uint64 {
	tag, err := h.tags.Tag(t)
	if err != nil {
		ilerr.Unreachable("type %v does not resolve: %v", t, err)
	}
	return tag
}

func (h tagHasher) Hash(t types.Type) uint32 {
	arr := binary.LittleEndian.AppendUint64(nil, h.tag(t))
	return binary.LittleEndian.Uint32(arr[:4]) ^ binary.LittleEndian.Uint32(arr[4:])
}

func (h tagHasher) Equal(a, b types.Type) bool {
	return h.tag(a) == h.tag(b)
}
