// Package solver drives flow assertions between values and uses to a fixed
// point over a transitive-closure reachability graph, delegating
// compatibility decisions to a caller-supplied lattice.
package solver

import (
	"github.com/benbjohnson/immutable"
	"github.com/cottand/typeflow/internal/log"
	set "github.com/hashicorp/go-set/v3"
)

var logger = log.DefaultLogger.With("section", "solver")

// Lattice decides what a proven value -> use flow means. Meet is invoked
// exactly once per implied (value, use) node pair and either fails, which
// terminates the whole assertion, or yields further assertions implied by
// structural decomposition of the two payloads.
type Lattice[V, U any] interface {
	Meet(value V, use U) ([]Assertion, error)
}

// flowPair is a checked (value node, use node) pair.
type flowPair struct {
	val, use int
}

func (p *flowPair) Hash() uint64 {
	return uint64(p.val)<<32 | uint64(uint32(p.use))
}

// Solver owns one inference session: a Store, its graph, and the pending
// assertion queue. It is single-threaded; run one Solver per session.
type Solver[V, U any] struct {
	*Store[V, U]
	lattice Lattice[V, U]

	pending []Assertion
	checked *set.HashSet[*flowPair, uint64]
	history *immutable.List[Assertion]

	nodeBudget int
}

type Option func(*options)

type options struct {
	nodeBudget int
}

// WithNodeBudget bounds how many nodes one session may allocate before
// AssertFlow gives up with a BudgetError. An infinitely generative lattice is a
// caller bug; the budget turns the resulting hang into an error. Zero means
// no bound.
func WithNodeBudget(n int) Option {
	return func(o *options) {
		o.nodeBudget = n
	}
}

func New[V, U any](lattice Lattice[V, U], opts ...Option) *Solver[V, U] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Solver[V, U]{
		Store:      NewStore[V, U](),
		lattice:    lattice,
		checked:    set.NewHashSet[*flowPair, uint64](0),
		history:    immutable.NewList[Assertion](),
		nodeBudget: o.nodeBudget,
	}
}

// AssertFlow asserts that val flows into use and propagates every
// consequence until no new edges and no new assertions remain.
//
// Each edge insertion may imply many node pairs beyond the one requested;
// of those only value -> use pairs carry an obligation and are handed to
// the lattice. Pairs with a placeholder on either side, or with two values
// or two uses, never reach the lattice.
//
// On a lattice failure the error is terminal: graph and store growth is not
// rolled back (snapshot beforehand if atomicity is needed) but the pending
// queue is cleared, so later unrelated assertions behave normally.
func (s *Solver[V, U]) AssertFlow(val Value, use Use) error {
	logger.Debug("solver: asserting flow", "val", val.id, "use", use.id)
	s.pending = append(s.pending, Assertion{Val: val, Use: use})

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]

		if err := s.step(next); err != nil {
			s.pending = s.pending[:0]
			return err
		}
		if s.nodeBudget > 0 && s.Len() > s.nodeBudget {
			s.pending = s.pending[:0]
			return &BudgetError{Budget: s.nodeBudget, Nodes: s.Len()}
		}
	}
	return nil
}

// step inserts one asserted edge and checks every newly implied pair.
func (s *Solver[V, U]) step(a Assertion) error {
	for _, edge := range s.graph.AddEdge(a.Val.id, a.Use.id) {
		x, y := edge.Fst, edge.Snd
		if s.nodes[x].tag != tagValue || s.nodes[y].tag != tagUse {
			continue
		}

		pair := Assertion{Val: Value{id: x}, Use: Use{id: y}}
		s.checked.Insert(&flowPair{val: int(x), use: int(y)})
		s.history = s.history.Append(pair)

		logger.Debug("solver: meeting implied pair", "val", x, "use", y)
		consequences, err := s.lattice.Meet(s.nodes[x].value, s.nodes[y].use)
		if err != nil {
			return &ConvergeError{Val: pair.Val, Use: pair.Use, cause: err}
		}
		s.pending = append(s.pending, consequences...)
	}
	return nil
}

// Checked reports whether the pair has ever been proven mutually reachable
// and handed to the lattice. Useful for introspection and debugging; not
// needed for correctness.
func (s *Solver[V, U]) Checked(val Value, use Use) bool {
	return s.checked.Contains(&flowPair{val: int(val.id), use: int(use.id)})
}

// History returns every value -> use pair checked so far, in the order the
// fixed point discovered them. The returned slice is a fresh copy.
func (s *Solver[V, U]) History() []Assertion {
	all := make([]Assertion, 0, s.history.Len())
	itr := s.history.Iterator()
	for !itr.Done() {
		_, a := itr.Next()
		all = append(all, a)
	}
	return all
}
