package util

import (
	"iter"
)

// OrderedSet is a set which additionally remembers first-insertion order.
// Iteration order is deterministic, which matters when the set drives
// discovery order in a fixed-point computation.
//
// There is deliberately no removal: callers rely on insertion order staying
// stable for the lifetime of the set.
type OrderedSet[A comparable] struct {
	order []A
	seen  MSet[A]
}

func NewOrderedSet[A comparable]() OrderedSet[A] {
	return OrderedSet[A]{
		seen: NewEmptySet[A](),
	}
}

// Insert adds v if absent and reports whether it was newly added.
func (s *OrderedSet[A]) Insert(v A) bool {
	if s.seen.Contains(v) {
		return false
	}
	s.seen.Add(v)
	s.order = append(s.order, v)
	return true
}

func (s *OrderedSet[A]) Contains(v A) bool {
	return s.seen.Contains(v)
}

func (s *OrderedSet[A]) Len() int {
	return len(s.order)
}

// All yields elements in first-insertion order.
func (s *OrderedSet[A]) All() iter.Seq[A] {
	return func(yield func(A) bool) {
		for _, elem := range s.order {
			if !yield(elem) {
				return
			}
		}
	}
}

func (s *OrderedSet[A]) AsSlice() []A {
	slice := make([]A, len(s.order))
	copy(slice, s.order)
	return slice
}
