package blossom

import (
	"math"

	"github.com/daypatu/ers-pymatching/pkg/varying"
)

// The flooder half of the solver: predicting when growth fronts arrive at
// empty nodes, collide with each other or with the boundary, and when
// shrinking regions release nodes they no longer cover. Every prediction
// is solved in closed form on the varying radii and pushed onto the
// queue; the matcher half (matcher.go) handles the structural
// consequences of collisions.

// scheduleLook computes the next interesting time for a node owned by a
// frozen or growing region and enqueues a look event for it. Any
// previously scheduled event for the node is invalidated.
func (s *Solver) scheduleLook(n *DetectorNode) {
	n.tracker.invalidate()
	t, _, found := s.nextEventAtNode(n)
	if !found {
		return
	}
	s.queue.push(event{
		time:  t,
		kind:  eventLookAtNode,
		owner: n.index,
		gen:   n.tracker.current(),
		node:  n,
	})
}

// nextEventAtNode finds the earliest arrival or collision involving node
// n, returning its time and the adjacency index it happens at. Times that
// have already passed (possible after a neighbor's slope change) are
// clamped to the current time so the interaction is handled immediately.
func (s *Solver) nextEventAtNode(n *DetectorNode) (int64, int, bool) {
	top := n.regionThatArrivedTop
	if top == nil || top.radius.IsShrinking() {
		return 0, 0, false
	}
	rad1 := n.LocalRadius()

	bestT := int64(math.MaxInt64)
	bestK := -1
	for k, nb := range n.neighbors {
		w := n.neighborWeights[k]
		var t int64
		var ok bool
		switch {
		case nb == nil:
			// Boundary: the front alone must cover the edge.
			t, ok = s.frontReaches(rad1, w)
		case nb.regionThatArrivedTop == nil:
			// Empty neighbor: arrival when the front covers the edge.
			t, ok = s.frontReaches(rad1, w)
		case nb.regionThatArrivedTop == top:
			// Same owner; fronts meeting inside one region is a no-op.
			continue
		default:
			// Collision when the combined radii cover the edge.
			t, ok = s.frontReaches(rad1.Add(nb.LocalRadius()), w)
		}
		if ok && t < bestT {
			bestT, bestK = t, k
		}
	}
	if bestK < 0 {
		return 0, 0, false
	}
	return bestT, bestK, true
}

// frontReaches solves radius(t) == w for the next time at or after now.
func (s *Solver) frontReaches(radius varying.Varying, w int64) (int64, bool) {
	slope := radius.Slope()
	if slope <= 0 {
		return 0, false
	}
	num := w - radius.Intercept()
	t := num / slope
	if num%slope != 0 && num > 0 {
		t++ // round up; doubled weights keep divisions exact in practice
	}
	if t < s.time {
		// Over-tight after a slope change elsewhere; handle now.
		t = s.time
	}
	return t, true
}

// lookAtNode fires a node's look event: if the predicted interaction is
// due now it is acted on, otherwise the node is rescheduled for the
// recomputed time.
func (s *Solver) lookAtNode(n *DetectorNode) {
	t, k, found := s.nextEventAtNode(n)
	if !found {
		return
	}
	if t > s.time {
		n.tracker.invalidate()
		s.queue.push(event{
			time:  t,
			kind:  eventLookAtNode,
			owner: n.index,
			gen:   n.tracker.current(),
			node:  n,
		})
		return
	}

	top := n.regionThatArrivedTop
	nb := n.neighbors[k]
	switch {
	case nb == nil:
		s.stats.Collisions++
		s.regionHitBoundary(top, CompressedEdge{
			From:        n.reachedFromSource,
			Observables: n.observablesCrossed ^ n.neighborObservables[k],
		})
	case nb.regionThatArrivedTop == nil:
		s.arriveAt(top, n, k)
	default:
		// Compress on contact: the edge endpoints are the two source
		// detection events, and the mask is the parity of the whole
		// path between them. Both must be captured now, while the
		// contact nodes still belong to the colliding regions.
		s.stats.Collisions++
		s.regionHitRegion(top, nb.regionThatArrivedTop, CompressedEdge{
			From:        n.reachedFromSource,
			To:          nb.reachedFromSource,
			Observables: n.observablesCrossed ^ n.neighborObservables[k] ^ nb.observablesCrossed,
		})
	}
	// The handled interaction is no longer schedulable, so this always
	// makes progress; scheduleLook is a no-op for nodes whose owner is
	// now shrinking or gone.
	s.scheduleLook(n)
}

// arriveAt claims an empty neighbor for a growing region: ownership,
// arrival radius, and observable parity are recorded and the new frontier
// node starts looking for its own events.
func (s *Solver) arriveAt(top *Region, from *DetectorNode, k int) {
	nb := from.neighbors[k]
	nb.reachedFromSource = from.reachedFromSource
	nb.observablesCrossed = from.observablesCrossed ^ from.neighborObservables[k]
	nb.radiusOfArrival = top.radius.ValueAt(s.time)
	nb.regionThatArrived = top
	nb.regionThatArrivedTop = top
	nb.wrappedRadius = -nb.radiusOfArrival
	top.shellArea = append(top.shellArea, nb)
	s.scheduleLook(nb)
}

// scheduleShrink enqueues the next release or implosion event for a
// shrinking root region: the earlier of the outermost shell node's
// release time and, for blossoms, the moment the radius hits zero.
func (s *Solver) scheduleShrink(r *Region) {
	r.shrinkTracker.invalidate()

	bestT := int64(math.MaxInt64)
	found := false
	if t, ok := s.nextShellRelease(r); ok && t < bestT {
		bestT, found = t, true
	}
	if r.IsBlossom() {
		if t, ok := r.radius.TimeOfZero(); ok {
			if t < s.time {
				t = s.time
			}
			if t < bestT {
				bestT, found = t, true
			}
		}
	}
	if !found {
		return
	}
	s.queue.push(event{
		time:   bestT,
		kind:   eventLookAtShrinkingRegion,
		owner:  r.id,
		gen:    r.shrinkTracker.current(),
		region: r,
	})
}

// nextShellRelease returns when the most recently claimed node of r's own
// shell stops being covered. The source node of a primal region is never
// released; its region simply goes negative.
func (s *Solver) nextShellRelease(r *Region) (int64, bool) {
	if len(r.shellArea) == 0 {
		return 0, false
	}
	n := r.shellArea[len(r.shellArea)-1]
	if n == r.source {
		return 0, false
	}
	t, ok := n.LocalRadius().TimeOfZero()
	if !ok {
		return 0, false
	}
	if t < s.time {
		t = s.time
	}
	return t, true
}

// lookAtShrinkingRegion fires a shrinking region's event: a blossom whose
// radius has reached zero shatters; otherwise nodes whose arrival radius
// the retreating front has passed are released back to the empty state.
func (s *Solver) lookAtShrinkingRegion(r *Region) {
	if !r.radius.IsShrinking() {
		return
	}
	if r.IsBlossom() && r.radius.ValueAt(s.time) == 0 {
		s.blossomImplodes(r)
		return
	}
	for len(r.shellArea) > 0 {
		n := r.shellArea[len(r.shellArea)-1]
		if n == r.source || n.LocalRadius().ValueAt(s.time) != 0 {
			break
		}
		r.shellArea = r.shellArea[:len(r.shellArea)-1]
		s.releaseNode(n)
	}
	s.scheduleShrink(r)
}

// releaseNode returns a node to the unreached state and wakes adjacent
// growing fronts so they can claim the vacated territory.
func (s *Solver) releaseNode(n *DetectorNode) {
	n.reset()
	for _, nb := range n.neighbors {
		if nb == nil || nb.regionThatArrivedTop == nil {
			continue
		}
		if !nb.regionThatArrivedTop.radius.IsShrinking() {
			s.scheduleLook(nb)
		}
	}
}

// rescheduleRegion refreshes every pending event that depends on the
// region's growth rate. Called after any slope change or re-rooting of
// the blossom hierarchy.
func (s *Solver) rescheduleRegion(r *Region) {
	r.shrinkTracker.invalidate()
	if r.radius.IsShrinking() {
		r.forEachNodeInTotalArea(func(n *DetectorNode) {
			n.tracker.invalidate()
		})
		s.scheduleShrink(r)
		return
	}
	r.forEachNodeInTotalArea(func(n *DetectorNode) {
		s.scheduleLook(n)
	})
}

// setGrowing, setFrozen and setShrinking change a root region's growth
// rate at the current time and refresh dependent events.

func (s *Solver) setGrowing(r *Region) {
	r.radius = r.radius.ThenGrowingAt(s.time)
	s.rescheduleRegion(r)
}

func (s *Solver) setFrozen(r *Region) {
	r.radius = r.radius.ThenFrozenAt(s.time)
	s.rescheduleRegion(r)
}

func (s *Solver) setShrinking(r *Region) {
	r.radius = r.radius.ThenShrinkingAt(s.time)
	s.rescheduleRegion(r)
}
