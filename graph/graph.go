// Package graph provides a directed graph over dense integer node ids which
// eagerly maintains its own transitive closure: an edge (a, b) exists iff b
// is reachable from a by a path of length >= 1.
package graph

import (
	"github.com/cottand/typeflow/internal/log"
	"github.com/cottand/typeflow/util"
)

var logger = log.DefaultLogger.With("section", "graph")

// NodeID is a dense handle into the graph's node table.
// IDs are never reused and nodes are never removed.
type NodeID int

// Edge is a directed (from, to) pair of nodes.
type Edge = util.Pair[NodeID, NodeID]

// Graph keeps, for every node n, the exact set of nodes reachable from n
// (downstream) and the exact set of nodes n is reachable from (upstream).
// Both sets are closed under transitivity at all times, not mere adjacency.
//
// The zero value is an empty graph ready for use.
type Graph struct {
	upstream   []util.OrderedSet[NodeID]
	downstream []util.OrderedSet[NodeID]
}

func New() *Graph {
	return &Graph{}
}

func (g *Graph) Len() int {
	return len(g.downstream)
}

// AddNode appends a fresh node with no edges and returns its id,
// which is always the node count before the call.
func (g *Graph) AddNode() NodeID {
	g.upstream = append(g.upstream, util.NewOrderedSet[NodeID]())
	g.downstream = append(g.downstream, util.NewOrderedSet[NodeID]())
	return NodeID(len(g.downstream) - 1)
}

// AddEdge records that rhs is reachable from lhs and restores the closure
// invariant, returning every edge that became newly implied, in discovery
// order. The result includes (lhs, rhs) itself when it was not already
// implied, and is empty when it was.
//
// Passing an id not returned by AddNode is a programming error and panics.
func (g *Graph) AddEdge(lhs, rhs NodeID) []Edge {
	var newEdges []Edge
	var work util.Stack[Edge]
	work.Push(util.NewPair(lhs, rhs))

	for {
		edge, ok := work.Pop()
		if !ok {
			break
		}
		lhs, rhs := edge.Fst, edge.Snd
		if !g.downstream[lhs].Insert(rhs) {
			// already implied, nothing new to propagate
			continue
		}
		g.upstream[rhs].Insert(lhs)
		newEdges = append(newEdges, edge)

		// closure leftward: everything upstream of lhs now reaches rhs
		for lhs2 := range g.upstream[lhs].All() {
			work.Push(util.NewPair(lhs2, rhs))
		}
		// closure rightward: lhs now reaches everything downstream of rhs
		for rhs2 := range g.downstream[rhs].All() {
			work.Push(util.NewPair(lhs, rhs2))
		}
	}

	if len(newEdges) > 0 {
		logger.Debug("graph: implied new edges", "requested", util.NewPair(lhs, rhs), "count", len(newEdges))
	}
	return newEdges
}

// HasEdge reports whether rhs is reachable from lhs by a path of length >= 1.
func (g *Graph) HasEdge(lhs, rhs NodeID) bool {
	return g.downstream[lhs].Contains(rhs)
}

// Downstream yields the nodes reachable from n, in discovery order.
func (g *Graph) Downstream(n NodeID) []NodeID {
	return g.downstream[n].AsSlice()
}

// Upstream yields the nodes n is reachable from, in discovery order.
func (g *Graph) Upstream(n NodeID) []NodeID {
	return g.upstream[n].AsSlice()
}
