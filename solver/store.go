package solver

import (
	"github.com/cottand/typeflow/graph"
)

// Value is a typed handle to a node known to produce a value of payload type V.
// Handles are only ever obtained from a Store.
type Value struct {
	id graph.NodeID
}

// Use is a typed handle to a node known to consume a value; the mirror of Value.
type Use struct {
	id graph.NodeID
}

func (v Value) ID() graph.NodeID { return v.id }

func (u Use) ID() graph.NodeID { return u.id }

// Assertion is a directed flow constraint: "this value may be used where
// this use is expected". It is not symmetric.
type Assertion struct {
	Val Value
	Use Use
}

type constraintTag uint8

const (
	tagPlaceholder constraintTag = iota
	tagValue
	tagUse
)

// constraintNode is the payload slot for one graph node. Exactly one of
// value/use is meaningful, selected by tag; a placeholder carries neither.
type constraintNode[V, U any] struct {
	tag   constraintTag
	value V
	use   U
}

// Store allocates graph nodes together with their tagged payloads.
// Lookup is array indexing by the id carried in each handle; nodes are
// append-only and live for the whole inference session.
type Store[V, U any] struct {
	graph *graph.Graph
	nodes []constraintNode[V, U]
}

func NewStore[V, U any]() *Store[V, U] {
	return &Store[V, U]{
		graph: graph.New(),
	}
}

// NewValue allocates a node producing the given value payload.
func (st *Store[V, U]) NewValue(payload V) Value {
	id := st.graph.AddNode()
	st.nodes = append(st.nodes, constraintNode[V, U]{tag: tagValue, value: payload})
	return Value{id: id}
}

// NewUse allocates a node consuming the given use payload.
func (st *Store[V, U]) NewUse(payload U) Use {
	id := st.graph.AddNode()
	st.nodes = append(st.nodes, constraintNode[V, U]{tag: tagUse, use: payload})
	return Use{id: id}
}

// NewPlaceholder allocates a single node that is simultaneously a value and
// a use of itself: both returned handles alias the same id. This is the
// encoding of a type variable, so consequences of either role reach the
// same node.
func (st *Store[V, U]) NewPlaceholder() (Value, Use) {
	id := st.graph.AddNode()
	st.nodes = append(st.nodes, constraintNode[V, U]{tag: tagPlaceholder})
	return Value{id: id}, Use{id: id}
}

// Len is the number of nodes allocated so far.
func (st *Store[V, U]) Len() int {
	return len(st.nodes)
}

// Graph exposes the underlying reachability graph for introspection.
func (st *Store[V, U]) Graph() *graph.Graph {
	return st.graph
}
