package blossom

import "github.com/daypatu/ers-pymatching/pkg/varying"

// CompressedEdge is a directed connection between two detection events,
// standing in for the whole chain of graph edges between them at the
// moment two growth fronts touched. Observables is the parity of every
// observable crossed along that chain. A nil To means the chain leads to
// the virtual boundary.
type CompressedEdge struct {
	From, To    *DetectorNode
	Observables uint64
}

// Reversed returns the edge traversed in the opposite direction.
func (e CompressedEdge) Reversed() CompressedEdge {
	return CompressedEdge{From: e.To, To: e.From, Observables: e.Observables}
}

// isSet reports whether the edge has been populated. From is always
// non-nil on a populated edge, even for boundary edges.
func (e CompressedEdge) isSet() bool { return e.From != nil }

// Match records which region (or boundary) a region is matched to and the
// edge the match runs through. A zero Match means unmatched; a Match with
// a nil Region but a populated Edge is a match against the boundary.
type Match struct {
	Region *Region
	Edge   CompressedEdge
}

// IsMatched reports whether the match record is populated.
func (m Match) IsMatched() bool { return m.Edge.isSet() }

// RegionEdge is one entry of a blossom cycle: a child region and the edge
// connecting it to the next child around the cycle.
type RegionEdge struct {
	Region *Region
	Edge   CompressedEdge
}

// Region is a unit of growth: either a primal region grown from a single
// detection event, or a blossom formed by contracting an odd alternating
// cycle of regions.
//
// Only a root region's radius varies with time. When a region is absorbed
// into a blossom its radius is frozen at the absorption value and never
// recomputed; effective radii are reconstructed by summing frozen radii up
// the hierarchy.
type Region struct {
	id     int
	source *DetectorNode // the originating detection event; nil for blossoms

	radius varying.Varying

	blossomParent *Region
	// blossomChildren is the contracted odd cycle, in cycle order; entry
	// i's edge connects child i to child (i+1) mod len. Empty for primal
	// regions.
	blossomChildren []RegionEdge

	// altTreeNode is the region's position in the global alternating
	// tree: non-nil while the region is an inner or outer member of a
	// tree, nil while matched or absorbed into a blossom.
	altTreeNode *AltTreeNode

	match Match

	// shellArea holds the nodes this region claimed directly, in arrival
	// order. The most recently claimed node is the first to be released
	// when the region shrinks.
	shellArea []*DetectorNode

	shrinkTracker eventTracker
}

// IsBlossom reports whether the region is a contracted odd cycle.
func (r *Region) IsBlossom() bool { return len(r.blossomChildren) > 0 }

// Top follows blossom parent pointers to the root of the hierarchy.
func (r *Region) Top() *Region {
	for r.blossomParent != nil {
		r = r.blossomParent
	}
	return r
}

// Radius returns the region's radius function.
func (r *Region) Radius() varying.Varying { return r.radius }

// outerTreeNode returns the alternating-tree node in which r is the outer
// (growing) region, or nil.
func (r *Region) outerTreeNode() *AltTreeNode {
	if r.altTreeNode != nil && r.altTreeNode.outerRegion == r {
		return r.altTreeNode
	}
	return nil
}

// forEachNodeInTotalArea visits every detector node owned by r or by any
// region in r's blossom subtree.
func (r *Region) forEachNodeInTotalArea(fn func(*DetectorNode)) {
	for _, n := range r.shellArea {
		fn(n)
	}
	for _, c := range r.blossomChildren {
		c.Region.forEachNodeInTotalArea(fn)
	}
}

// childContaining returns the direct blossom child of r whose subtree
// contains descendant. descendant must be a strict descendant of r.
func (r *Region) childContaining(descendant *Region) *Region {
	for descendant.blossomParent != r {
		descendant = descendant.blossomParent
	}
	return descendant
}

// cycleIndexOf returns the blossom-cycle position of the given direct
// child, or -1.
func (r *Region) cycleIndexOf(child *Region) int {
	for i, c := range r.blossomChildren {
		if c.Region == child {
			return i
		}
	}
	return -1
}
