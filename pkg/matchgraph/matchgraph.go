// Package matchgraph defines the detector graph consumed by the decoder.
//
// A detector graph has a fixed set of detector nodes (vertices that can
// light up when an error syndrome is measured), weighted edges between
// them, and weighted boundary edges connecting individual nodes to the
// virtual boundary. Each edge carries a bitmask of logical observables
// that flip when the corresponding error mechanism occurs.
//
// Graphs are built once with [New], [Graph.AddEdge] and
// [Graph.AddBoundaryEdge], then handed to the solver. A graph is
// immutable once decoding starts; multiple solvers may share one graph
// as long as each runs on its own solver instance.
package matchgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrNodeOutOfRange is returned when an edge references a detector
	// node index outside [0, NumNodes).
	ErrNodeOutOfRange = errors.New("detector node index out of range")

	// ErrNegativeWeight is returned when an edge weight is negative.
	// All weights must be non-negative for the flood-fill to terminate.
	ErrNegativeWeight = errors.New("edge weight must be non-negative")

	// ErrSelfLoop is returned when an edge connects a node to itself.
	// Self-loops carry no matching information.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrDuplicateEdge is returned when an edge between the same pair of
	// nodes (or a second boundary edge on the same node) is added twice.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrDuplicateDetection is returned by [Graph.ValidateSyndrome] when
	// the same detector node appears twice in a detection event list.
	ErrDuplicateDetection = errors.New("duplicate detection event")
)

// Edge is a weighted edge between two detector nodes. Observables is a
// bitmask of logical observable indices flipped by the underlying error
// mechanism.
type Edge struct {
	U, V        int
	Weight      int64
	Observables uint64
}

// BoundaryEdge connects a detector node to the virtual boundary.
type BoundaryEdge struct {
	Node        int
	Weight      int64
	Observables uint64
}

// Graph is a detector graph under construction. The zero value is not
// usable; create instances with [New].
type Graph struct {
	numNodes      int
	edges         []Edge
	boundaryEdges []BoundaryEdge

	seen         map[[2]int]bool
	boundarySeen map[int]bool
}

// New creates an empty detector graph with numNodes detector nodes,
// indexed [0, numNodes).
func New(numNodes int) *Graph {
	if numNodes < 0 {
		numNodes = 0
	}
	return &Graph{
		numNodes:     numNodes,
		seen:         make(map[[2]int]bool),
		boundarySeen: make(map[int]bool),
	}
}

// NumNodes returns the number of detector nodes.
func (g *Graph) NumNodes() int { return g.numNodes }

// Edges returns the node-to-node edges in insertion order.
// The returned slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// BoundaryEdges returns the boundary edges in insertion order.
// The returned slice must not be modified.
func (g *Graph) BoundaryEdges() []BoundaryEdge { return g.boundaryEdges }

// AddEdge adds a weighted edge between detector nodes u and v.
// Returns ErrNodeOutOfRange, ErrSelfLoop, ErrNegativeWeight or
// ErrDuplicateEdge on invalid input.
func (g *Graph) AddEdge(u, v int, weight int64, observables uint64) error {
	if u < 0 || u >= g.numNodes {
		return fmt.Errorf("%w: %d (graph has %d nodes)", ErrNodeOutOfRange, u, g.numNodes)
	}
	if v < 0 || v >= g.numNodes {
		return fmt.Errorf("%w: %d (graph has %d nodes)", ErrNodeOutOfRange, v, g.numNodes)
	}
	if u == v {
		return fmt.Errorf("%w: %d", ErrSelfLoop, u)
	}
	if weight < 0 {
		return fmt.Errorf("%w: edge %d-%d has weight %d", ErrNegativeWeight, u, v, weight)
	}
	key := edgeKey(u, v)
	if g.seen[key] {
		return fmt.Errorf("%w: %d-%d", ErrDuplicateEdge, u, v)
	}
	g.seen[key] = true
	g.edges = append(g.edges, Edge{U: u, V: v, Weight: weight, Observables: observables})
	return nil
}

// AddBoundaryEdge adds a weighted edge from detector node u to the
// virtual boundary. A node may have at most one boundary edge.
func (g *Graph) AddBoundaryEdge(u int, weight int64, observables uint64) error {
	if u < 0 || u >= g.numNodes {
		return fmt.Errorf("%w: %d (graph has %d nodes)", ErrNodeOutOfRange, u, g.numNodes)
	}
	if weight < 0 {
		return fmt.Errorf("%w: boundary edge at %d has weight %d", ErrNegativeWeight, u, weight)
	}
	if g.boundarySeen[u] {
		return fmt.Errorf("%w: boundary edge at %d", ErrDuplicateEdge, u)
	}
	g.boundarySeen[u] = true
	g.boundaryEdges = append(g.boundaryEdges, BoundaryEdge{Node: u, Weight: weight, Observables: observables})
	return nil
}

// HasBoundaryEdge reports whether node u has a boundary edge.
func (g *Graph) HasBoundaryEdge(u int) bool { return g.boundarySeen[u] }

// NumObservables returns one past the highest observable index used by
// any edge, i.e. the length of the observable parity vector.
func (g *Graph) NumObservables() int {
	var mask uint64
	for _, e := range g.edges {
		mask |= e.Observables
	}
	for _, e := range g.boundaryEdges {
		mask |= e.Observables
	}
	n := 0
	for mask != 0 {
		n++
		mask >>= 1
	}
	return n
}

// ValidateSyndrome checks a detection event list: every index must be a
// valid detector node and no index may repeat.
func (g *Graph) ValidateSyndrome(detectionEvents []int) error {
	seen := make(map[int]bool, len(detectionEvents))
	for _, d := range detectionEvents {
		if d < 0 || d >= g.numNodes {
			return fmt.Errorf("%w: detection event %d (graph has %d nodes)", ErrNodeOutOfRange, d, g.numNodes)
		}
		if seen[d] {
			return fmt.Errorf("%w: %d", ErrDuplicateDetection, d)
		}
		seen[d] = true
	}
	return nil
}

func edgeKey(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}
