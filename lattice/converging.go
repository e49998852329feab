package lattice

import (
	"github.com/cottand/typeflow/solver"
)

// Converging adapts any symmetric Entity lattice to the solver's Meet
// contract: a value flows into a use exactly when the two elements
// converge, and the decomposition implies no further flows.
type Converging[T Entity[T]] struct{}

var _ solver.Lattice[Primitive, Primitive] = Converging[Primitive]{}

func (Converging[T]) Meet(value T, use T) ([]solver.Assertion, error) {
	if _, err := value.Converge(use); err != nil {
		return nil, err
	}
	return nil, nil
}
