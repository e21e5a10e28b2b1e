package types_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cottand/ilec/frontend/ilerr"
	"github.com/cottand/ilec/frontend/source"
	"github.com/cottand/ilec/frontend/types"
)

var (
	number  = &types.Number{}
	str     = &types.String{}
	boolean = &types.Boolean{}
	none    = &types.None{}
	anyT    = &types.Any{}

	testRange = source.Range{PosStart: 3, PosEnd: 9}
)

func ref(name string) *types.Reference { return &types.Reference{Name: name} }

func union(ts ...types.Type) *types.Union { return types.NewUnion(ts...) }

func fn(arg, res types.Type) *types.Function { return &types.Function{Argument: arg, Result: res} }

func list(elem types.Type) *types.List { return &types.List{Element: elem} }

// definitions used throughout: a recursive linked list of numbers, an alias chain to it,
// a record holding a function, and a union alias
func testDefinitions() map[string]types.Type {
	return map[string]types.Type{
		"Node": &types.Record{Name: "Node", Fields: []types.RecordField{
			{Name: "value", Type: number},
			{Name: "next", Type: ref("MaybeNode")},
		}},
		"MaybeNode": union(ref("Node"), none),
		"NodeAlias": ref("Node"),
		"Alias2":    ref("NodeAlias"),
		"Callback": &types.Record{Name: "Callback", Fields: []types.RecordField{
			{Name: "f", Type: fn(number, number)},
		}},
		"Point": &types.Record{Name: "Point", Fields: []types.RecordField{
			{Name: "x", Type: number},
			{Name: "y", Type: number},
		}},
		"Loop1":  ref("Loop2"),
		"Loop2":  ref("Loop1"),
		"Broken": ref("Missing"),
	}
}

func services() *types.Services {
	return types.NewServices(testDefinitions())
}

func describe(t *testing.T, typ types.Type, err error) string {
	require.NoError(t, err)
	return types.Describe(typ)
}

func TestCanonicalizeIsIdempotentAndOrderIndependent(t *testing.T) {
	s := services()
	cases := [][]types.Type{
		{number, str},
		{number, number, none},
		{union(number, str), none, str},
		{ref("MaybeNode"), none, number},
		{ref("Point"), testDefinitions()["Point"], boolean},
		{fn(number, union(number, number)), list(union(str, none, str)), none},
		{list(number), list(number), list(str)},
	}
	for _, members := range cases {
		t.Run(types.Describe(union(members...)), func(t *testing.T) {
			once, err := s.Canonicalizer.Canonicalize(union(members...))
			expected := describe(t, once, err)

			twice, err := s.Canonicalizer.Canonicalize(once)
			assert.Equal(t, expected, describe(t, twice, err), "canonicalize is not idempotent")

			reversed := slices.Clone(members)
			slices.Reverse(reversed)
			fromReversed, err := s.Canonicalizer.Canonicalize(union(reversed...))
			assert.Equal(t, expected, describe(t, fromReversed, err), "canonicalize depends on member order")

			rotated := append(slices.Clone(members[1:]), members[0])
			fromRotated, err := s.Canonicalizer.Canonicalize(union(rotated...))
			assert.Equal(t, expected, describe(t, fromRotated, err), "canonicalize depends on member order")
		})
	}
}

func TestCanonicalizeNormalForm(t *testing.T) {
	s := services()

	t.Run("singleton collapses", func(t *testing.T) {
		c, err := s.Canonicalizer.Canonicalize(union(number, number))
		require.NoError(t, err)
		assert.IsType(t, &types.Number{}, c)
	})
	t.Run("any absorbs", func(t *testing.T) {
		c, err := s.Canonicalizer.Canonicalize(union(number, union(str, anyT)))
		require.NoError(t, err)
		assert.IsType(t, &types.Any{}, c)
	})
	t.Run("nested unions flatten", func(t *testing.T) {
		c, err := s.Canonicalizer.Canonicalize(union(number, union(str, union(none, boolean))))
		require.NoError(t, err)
		asUnion, ok := c.(*types.Union)
		require.True(t, ok)
		assert.Len(t, asUnion.Members, 4)
		for _, m := range asUnion.Members {
			assert.NotEqual(t, "*types.Union", fmt.Sprintf("%T", m))
		}
	})
	t.Run("references to unions flatten", func(t *testing.T) {
		c, err := s.Canonicalizer.Canonicalize(union(ref("MaybeNode"), number))
		require.NoError(t, err)
		assert.Len(t, c.(*types.Union).Members, 3)
	})
	t.Run("reference and its record are one member", func(t *testing.T) {
		c, err := s.Canonicalizer.Canonicalize(union(ref("Point"), testDefinitions()["Point"]))
		require.NoError(t, err)
		_, isUnion := c.(*types.Union)
		assert.False(t, isUnion)
	})
	t.Run("empty union is a bug", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = s.Canonicalizer.Canonicalize(union())
		})
	})
	t.Run("record fields of definitions", func(t *testing.T) {
		pair := &types.Record{Name: "Pair", Fields: []types.RecordField{
			{Name: "left", Type: union(number, number)},
			{Name: "right", Type: str},
		}}
		unchanged, err := s.Canonicalizer.Canonicalize(pair)
		require.NoError(t, err)
		assert.Same(t, pair, unchanged)

		c, err := s.Canonicalizer.CanonicalizeDefinition(pair)
		require.NoError(t, err)
		assert.Equal(t, "{Pair|left:number,right:string}", types.Describe(c))
		assert.Same(t, str, c.(*types.Record).Fields[1].Type)
	})
}

func TestEqualityIsReflexiveAndSymmetric(t *testing.T) {
	s := services()
	all := []types.Type{
		number, str, boolean, none, anyT,
		fn(number, str), fn(str, number),
		list(number), list(union(number, none)),
		union(number, none), union(none, number), union(number, str),
		ref("Node"), ref("NodeAlias"), ref("MaybeNode"), ref("Point"),
		testDefinitions()["Node"],
	}
	for _, a := range all {
		eq, err := s.Equality.Equal(a, a)
		require.NoError(t, err)
		assert.True(t, eq, "%v is not equal to itself", a)
		for _, b := range all {
			ab, err := s.Equality.Equal(a, b)
			require.NoError(t, err)
			ba, err := s.Equality.Equal(b, a)
			require.NoError(t, err)
			assert.Equal(t, ab, ba, "equality of %v and %v is not symmetric", a, b)
		}
	}

	eq, err := s.Equality.Equal(union(number, none), union(none, number))
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = s.Equality.Equal(fn(number, str), fn(str, number))
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqualityIsStableUnderResolution(t *testing.T) {
	s := services()
	for name, definition := range testDefinitions() {
		if name == "Loop1" || name == "Loop2" || name == "Broken" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			eq, err := s.Equality.Equal(ref(name), definition)
			require.NoError(t, err)
			assert.True(t, eq)
		})
	}
}

func TestRecursiveEqualityTerminates(t *testing.T) {
	s := services()

	// the same shape as Node, spelled out instead of referenced
	inline := &types.Record{Name: "Node", Fields: []types.RecordField{
		{Name: "next", Type: union(none, ref("Alias2"))},
		{Name: "value", Type: number},
	}}
	eq, err := s.Equality.Equal(ref("Node"), inline)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = s.Equality.Equal(list(ref("Alias2")), list(ref("NodeAlias")))
	require.NoError(t, err)
	assert.True(t, eq)

	different := &types.Record{Name: "Node", Fields: []types.RecordField{
		{Name: "next", Type: union(none, ref("Alias2"))},
		{Name: "value", Type: str},
	}}
	eq, err = s.Equality.Equal(ref("Node"), different)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestResolver(t *testing.T) {
	s := services()

	resolved, err := s.Resolver.Resolve(ref("Alias2"))
	require.NoError(t, err)
	assert.Equal(t, "Node", resolved.(*types.Record).Name)

	// resolution does not look inside records
	record, ok, err := s.Resolver.ResolveToRecord(ref("Node"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.IsType(t, &types.Reference{}, record.Fields[1].Type)

	_, err = s.Resolver.Resolve(ref("Nope"))
	assert.Equal(t, ilerr.TypeNotFound, ilerr.CodeOf(err))

	_, err = s.Resolver.Resolve(ref("Broken"))
	assert.Equal(t, ilerr.TypeNotFound, ilerr.CodeOf(err))

	_, err = s.Resolver.Resolve(ref("Loop1"))
	assert.Equal(t, ilerr.CyclicTypeAlias, ilerr.CodeOf(err))

	_, err = s.Equality.Equal(ref("Nope"), number)
	assert.Equal(t, ilerr.TypeNotFound, ilerr.CodeOf(err))
}

func TestComparable(t *testing.T) {
	s := services()
	cases := []struct {
		t          types.Type
		comparable bool
	}{
		{number, true},
		{str, true},
		{none, true},
		{anyT, false},
		{fn(number, number), false},
		{list(number), true},
		{list(fn(number, number)), false},
		{ref("Node"), true},
		{ref("Callback"), false},
		{union(number, ref("Point")), true},
		{union(number, ref("Callback")), false},
	}
	for _, c := range cases {
		t.Run(c.t.String(), func(t *testing.T) {
			ok, err := s.Comparability.Comparable(c.t)
			require.NoError(t, err)
			assert.Equal(t, c.comparable, ok)
		})
	}
}

func TestSubtype(t *testing.T) {
	s := services()
	cases := []struct {
		lower, upper types.Type
		subtype      bool
	}{
		{number, union(number, none), true},
		{union(number, none), number, false},
		{union(number, none), anyT, true},
		{anyT, number, false},
		{ref("Node"), ref("MaybeNode"), true},
		{none, ref("MaybeNode"), true},
		{fn(union(number, none), number), fn(number, union(number, none)), true},
		{fn(number, number), fn(union(number, none), number), false},
		{list(number), list(union(number, str)), true},
		{ref("Point"), ref("Node"), false},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%v <: %v", c.lower, c.upper), func(t *testing.T) {
			ok, err := s.Subtype.IsSubtype(c.lower, c.upper)
			require.NoError(t, err)
			assert.Equal(t, c.subtype, ok)
		})
	}
}

func TestDescribeIgnoresOrderAndPositions(t *testing.T) {
	a := &types.Record{Name: "R", Fields: []types.RecordField{{Name: "a", Type: number}, {Name: "b", Type: str}}}
	b := &types.Record{Name: "R", Fields: []types.RecordField{{Name: "b", Type: str}, {Name: "a", Type: number}}}
	assert.Equal(t, types.Describe(a), types.Describe(b))
	assert.Equal(t, types.Hash(union(number, str)), types.Hash(union(str, number)))
	assert.NotEqual(t, types.Hash(list(number)), types.Hash(list(str)))

	positioned := types.WithRange(number, testRange)
	assert.Equal(t, types.Describe(number), types.Describe(positioned))
}
