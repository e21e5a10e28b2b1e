package util

import "strconv"

// NameGenerator hands out identifiers that cannot clash with user-written names,
// because they start with '$'.
//
// Names are deterministic: the same sequence of calls on a fresh generator
// always yields the same names, which keeps generated IR stable across runs.
type NameGenerator struct {
	prefix string
	count  int
}

func NewNameGenerator(prefix string) *NameGenerator {
	return &NameGenerator{prefix: "$" + prefix}
}

func (g *NameGenerator) Next() string {
	defer func() { g.count++ }()
	return g.prefix + strconv.Itoa(g.count)
}

// StringTakeUntilLast returns the string up to and excluding the last occurrence of char,
// as well as the remainder after it.
//
// if char was not found, then head is the empty string and tail is s
func StringTakeUntilLast(s string, char byte) (head string, tail string) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == char {
			return s[:i], s[i+1:]
		}
	}
	return "", s
}
