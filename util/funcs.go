package util

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Reverse iterates over slice from its last element
func Reverse[A any](slice []A) iter.Seq[A] {
	return func(yield func(A) bool) {
		for i := len(slice) - 1; i >= 0; i-- {
			if !yield(slice[i]) {
				return
			}
		}
	}
}

// MapSlice applies f to every element of slice, preserving order
func MapSlice[A, B any](slice []A, f func(A) B) []B {
	out := make([]B, 0, len(slice))
	for _, a := range slice {
		out = append(out, f(a))
	}
	return out
}

// MapSliceErr is MapSlice for a fallible f, stopping at the first error
func MapSliceErr[A, B any](slice []A, f func(A) (B, error)) ([]B, error) {
	out := make([]B, 0, len(slice))
	for _, a := range slice {
		b, err := f(a)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// SortedKeys returns the keys of m in ascending order, so that map iteration
// does not leak non-determinism into generated code
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// JoinString renders elems separated by sep
func JoinString[A fmt.Stringer](elems []A, sep string) string {
	sb := strings.Builder{}
	for i, elem := range elems {
		if i != 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(elem.String())
	}
	return sb.String()
}
