package solver

import (
	"fmt"
)

// ConvergeError is the terminal error of AssertFlow: the lattice reported
// two incompatible payloads for a pair the graph proved must flow into one
// another. There is no fallback interpretation and no retry.
type ConvergeError struct {
	Val   Value
	Use   Use
	cause error
}

func (e *ConvergeError) Error() string {
	return fmt.Sprintf("cannot converge value at node %d with use at node %d: %v", e.Val.id, e.Use.id, e.cause)
}

func (e *ConvergeError) Unwrap() error {
	return e.cause
}

// BudgetError reports that lattice-driven growth allocated past the node
// budget configured with WithNodeBudget, which would otherwise propagate
// without bound.
type BudgetError struct {
	Budget int
	Nodes  int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("propagation exceeded node budget: %d nodes allocated, budget is %d", e.Nodes, e.Budget)
}
