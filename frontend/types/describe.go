package types

import (
	"encoding/binary"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/benbjohnson/immutable"
)

// Describe returns the canonical structural description of t: two types that are
// syntactically the same up to the order of union members and record fields
// have the same description. Positions are not part of it.
//
// References are described by name and never resolved, so Describe always terminates.
func Describe(t Type) string {
	sb := &strings.Builder{}
	describe(sb, t)
	return sb.String()
}

func describe(sb *strings.Builder, t Type) {
	switch t := t.(type) {
	case *Any:
		sb.WriteString("any")
	case *Boolean:
		sb.WriteString("boolean")
	case *Number:
		sb.WriteString("number")
	case *String:
		sb.WriteString("string")
	case *None:
		sb.WriteString("none")
	case *Function:
		sb.WriteString("(")
		describe(sb, t.Argument)
		sb.WriteString("->")
		describe(sb, t.Result)
		sb.WriteString(")")
	case *List:
		sb.WriteString("[")
		describe(sb, t.Element)
		sb.WriteString("]")
	case *Record:
		fields := make([]string, 0, len(t.Fields))
		for _, field := range t.Fields {
			fields = append(fields, field.Name+":"+Describe(field.Type))
		}
		slices.Sort(fields)
		sb.WriteString("{")
		sb.WriteString(t.Name)
		sb.WriteString("|")
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteString("}")
	case *Union:
		members := make([]string, 0, len(t.Members))
		for _, m := range t.Members {
			members = append(members, Describe(m))
		}
		slices.Sort(members)
		sb.WriteString("<")
		sb.WriteString(strings.Join(members, "|"))
		sb.WriteString(">")
	case *Reference:
		sb.WriteString("@")
		sb.WriteString(t.Name)
	case *Variable:
		sb.WriteString(t.String())
	}
}

// Hash returns a structural hash of t, consistent with Describe
func Hash(t Type) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(Describe(t)))
	return h.Sum64()
}

// Hasher lets types be keys of immutable collections and of hset.HSet,
// identifying types with the same Describe
type Hasher struct{}

var _ immutable.Hasher[Type] = Hasher{}

func (Hasher) Hash(key Type) uint32 {
	h := Hash(key)
	arr := binary.LittleEndian.AppendUint64(nil, h)
	return binary.LittleEndian.Uint32(arr[:4]) ^ binary.LittleEndian.Uint32(arr[4:])
}

func (Hasher) Equal(a, b Type) bool {
	return Describe(a) == Describe(b)
}
