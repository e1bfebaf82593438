package blossom

import (
	"errors"
	"fmt"

	"github.com/daypatu/ers-pymatching/pkg/varying"
)

// ErrNeighborNotFound is returned by [DetectorNode.IndexOfNeighbor] when
// the target node is not adjacent to the receiver. It indicates a
// malformed adjacency query, not a recoverable runtime condition.
var ErrNeighborNotFound = errors.New("detector node has no such neighbor")

// DetectorNode is a vertex of the detector graph together with the
// decoder's per-node runtime state: who owns the node, at which radius the
// owning front arrived, and which logical observables the path back to the
// owning detection event crosses.
//
// A nil entry in the neighbor list represents the virtual boundary.
type DetectorNode struct {
	index int

	neighbors           []*DetectorNode
	neighborWeights     []int64 // doubled weights
	neighborObservables []uint64

	// reachedFromSource is the detection event whose growth front first
	// claimed this node; nil while the node is unreached.
	reachedFromSource *DetectorNode

	// observablesCrossed is the observable parity of the path from
	// reachedFromSource to this node.
	observablesCrossed uint64

	// radiusOfArrival is the claiming region's radius at the moment its
	// front reached this node.
	radiusOfArrival int64

	// regionThatArrived is the region that claimed the node; it may since
	// have been absorbed into blossoms. regionThatArrivedTop is the
	// current root of that blossom hierarchy, kept up to date by every
	// operation that re-roots the hierarchy.
	regionThatArrived    *Region
	regionThatArrivedTop *Region

	// wrappedRadius caches the accumulated frozen radii between
	// regionThatArrived and regionThatArrivedTop, minus radiusOfArrival.
	// Refreshed whenever regionThatArrivedTop changes.
	wrappedRadius int64

	tracker eventTracker
}

// Index returns the node's detector index in the graph.
func (n *DetectorNode) Index() int { return n.index }

// IsReached reports whether any growth front has claimed this node.
func (n *DetectorNode) IsReached() bool { return n.reachedFromSource != nil }

// Owner returns the node's top-level owning region, or nil if unreached.
func (n *DetectorNode) Owner() *Region { return n.regionThatArrivedTop }

// LocalRadius returns the node's effective radius as a function of
// simulation time: the owning root's radius adjusted by the frozen radii
// of intermediate blossom ancestors and the radius recorded at arrival.
// For an unreached node it returns the frozen zero sentinel.
func (n *DetectorNode) LocalRadius() varying.Varying {
	if n.regionThatArrivedTop == nil {
		return varying.Frozen(0)
	}
	return n.regionThatArrivedTop.radius.AddConst(n.wrappedRadius)
}

// computeWrappedRadius walks from the node's immediate region up to (but
// excluding) the top of the blossom hierarchy, summing frozen radii, and
// subtracts the radius of arrival. The walk is bounded by blossom nesting
// depth, not graph size.
func (n *DetectorNode) computeWrappedRadius() int64 {
	if n.reachedFromSource == nil {
		return 0
	}
	var total int64
	for r := n.regionThatArrived; r != n.regionThatArrivedTop; r = r.blossomParent {
		total += r.radius.Intercept()
	}
	return total - n.radiusOfArrival
}

// HasSameOwnerAs reports whether both nodes are currently owned by the
// same top-level region. Two fronts meeting inside a single merged region
// is a no-op; this is the primary test that distinguishes that case from
// a genuine collision.
func (n *DetectorNode) HasSameOwnerAs(other *DetectorNode) bool {
	return n.regionThatArrivedTop == other.regionThatArrivedTop
}

// IndexOfNeighbor returns the adjacency-list position of target, which may
// be nil to look up the boundary edge. Returns ErrNeighborNotFound if
// target is not adjacent. Node degree is small, so a linear scan suffices.
func (n *DetectorNode) IndexOfNeighbor(target *DetectorNode) (int, error) {
	for k, nb := range n.neighbors {
		if nb == target {
			return k, nil
		}
	}
	if target == nil {
		return 0, fmt.Errorf("%w: node %d has no boundary edge", ErrNeighborNotFound, n.index)
	}
	return 0, fmt.Errorf("%w: node %d is not adjacent to node %d", ErrNeighborNotFound, n.index, target.index)
}

// reset restores the node to the unreached state and invalidates any
// pending events that reference it. Afterwards the node is observably
// identical to a freshly constructed one.
func (n *DetectorNode) reset() {
	n.reachedFromSource = nil
	n.observablesCrossed = 0
	n.radiusOfArrival = 0
	n.regionThatArrived = nil
	n.regionThatArrivedTop = nil
	n.wrappedRadius = 0
	n.tracker.invalidate()
}
