// Package lattice holds concrete type lattices for the flow solver: pure
// data plus a pure converge operation, with no knowledge of the graph or
// the fixed point that consumes them.
package lattice

import (
	"github.com/pkg/errors"
)

// ErrConverge is the failure every lattice reports when two elements have
// no common, more constrained interpretation.
var ErrConverge = errors.New("unable to converge types")

// Entity is the contract a type lattice element satisfies.
type Entity[T any] interface {
	// Unconstrained is the least constrained element; in many lattices this
	// is an Any type. The flow solver itself never needs it, but variants
	// that materialise defaults for placeholders do.
	Unconstrained() T

	// Arity reports the structural shape of the element, when it has one.
	// Advisory: consumed by callers that validate structural alignment
	// before converging.
	Arity() (int, bool)

	// Converge attempts to combine two elements into their more constrained
	// commonality, failing with (a wrapper of) ErrConverge when they are
	// incompatible.
	Converge(other T) (T, error)
}
