// Package hset implements a set of elements that are not comparable with ==,
// identified instead through an immutable.Hasher
package hset

import (
	"iter"

	"github.com/benbjohnson/immutable"
)

// HSet is a mutable set keyed by the hash of its elements.
// Elements whose hashes collide but which the hasher does not consider equal are kept apart.
type HSet[A any] struct {
	hasher  immutable.Hasher[A]
	buckets map[uint32][]A
	size    int
}

func Empty[A any](hasher immutable.Hasher[A]) *HSet[A] {
	return &HSet[A]{hasher: hasher, buckets: make(map[uint32][]A)}
}

func New[A any](hasher immutable.Hasher[A], elems ...A) *HSet[A] {
	s := Empty(hasher)
	s.Add(elems...)
	return s
}

func (s *HSet[A]) Add(elems ...A) {
	for _, elem := range elems {
		if s.Contains(elem) {
			continue
		}
		h := s.hasher.Hash(elem)
		s.buckets[h] = append(s.buckets[h], elem)
		s.size++
	}
}

func (s *HSet[A]) Remove(elems ...A) {
	for _, elem := range elems {
		h := s.hasher.Hash(elem)
		bucket := s.buckets[h]
		for i, other := range bucket {
			if s.hasher.Equal(elem, other) {
				s.buckets[h] = append(bucket[:i], bucket[i+1:]...)
				s.size--
				break
			}
		}
		if len(s.buckets[h]) == 0 {
			delete(s.buckets, h)
		}
	}
}

func (s *HSet[A]) Contains(elem A) bool {
	for _, other := range s.buckets[s.hasher.Hash(elem)] {
		if s.hasher.Equal(elem, other) {
			return true
		}
	}
	return false
}

func (s *HSet[A]) Len() int {
	return s.size
}

// All iterates over the elements of s, in no particular order
func (s *HSet[A]) All() iter.Seq[A] {
	return func(yield func(A) bool) {
		for _, bucket := range s.buckets {
			for _, elem := range bucket {
				if !yield(elem) {
					return
				}
			}
		}
	}
}
