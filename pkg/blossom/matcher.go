package blossom

import "github.com/daypatu/ers-pymatching/pkg/varying"

// The matcher half of the solver: structural reactions to collisions
// between growth fronts. Collisions between outer regions of the same
// alternating tree contract an odd cycle into a blossom; collisions
// between different trees (or with the boundary, or with a region matched
// to the boundary) augment and dissolve the trees into matches; a
// collision with a matched pair grows the tree by two regions; an inner
// blossom shrinking to zero radius shatters back into its children.

// regionHitRegion dispatches a collision between two distinct top-level
// regions. edge runs from a node owned by r1 to a node owned by r2.
func (s *Solver) regionHitRegion(r1, r2 *Region, edge CompressedEdge) {
	if r1 == r2 {
		return // fronts already merged; stale
	}
	o1, o2 := r1.outerTreeNode(), r2.outerTreeNode()
	switch {
	case o1 != nil && o2 != nil:
		if o1.root() == o2.root() {
			s.formBlossom(o1, o2, edge)
		} else {
			s.matchTrees(o1, o2, edge)
		}
	case o1 != nil:
		s.outerHitNonTree(o1, r2, edge)
	case o2 != nil:
		s.outerHitNonTree(o2, r1, edge.Reversed())
	}
}

// outerHitNonTree handles an outer region's front reaching a region that
// is not part of any alternating tree: either a matched pair (the tree
// grows through it) or a region resting against the boundary (the
// boundary match is stolen, augmenting the tree).
func (s *Solver) outerHitNonTree(o *AltTreeNode, other *Region, edge CompressedEdge) {
	switch {
	case other.match.Region != nil:
		s.treeGrow(o, other, edge)
	case other.match.IsMatched():
		// other rests against the boundary; its match is replaced.
		s.augmentToMatched(o, other, edge)
	default:
		// A shrinking inner region; its front cannot collide with a
		// growing one, so the event is stale.
	}
}

// matchTrees augments along the path between two exposed regions in
// different trees: both trees are re-rooted at the colliding regions,
// dissolved into matched pairs, and the colliding regions matched to each
// other through the collision edge.
func (s *Solver) matchTrees(o1, o2 *AltTreeNode, edge CompressedEdge) {
	o1.becomeRoot()
	o2.becomeRoot()
	s.dissolveTree(o1)
	s.dissolveTree(o2)
	s.setMatchedPair(o1.outerRegion, o2.outerRegion, edge)
	s.activeTrees -= 2
	s.stats.Augmentations++
}

// regionHitBoundary augments a tree whose outer region reached the
// boundary directly.
func (s *Solver) regionHitBoundary(r *Region, edge CompressedEdge) {
	o := r.outerTreeNode()
	if o == nil {
		return // stale: the region froze since the event was scheduled
	}
	o.becomeRoot()
	s.dissolveTree(o)
	s.setMatchedToBoundary(r, edge)
	s.activeTrees--
	s.stats.Augmentations++
}

// augmentToMatched augments a tree through a region that is matched to
// the boundary: the tree dissolves and the boundary-matched region is
// re-matched to the colliding outer region instead.
func (s *Solver) augmentToMatched(o *AltTreeNode, other *Region, edge CompressedEdge) {
	o.becomeRoot()
	s.dissolveTree(o)
	s.setMatchedPair(o.outerRegion, other, edge)
	s.activeTrees--
	s.stats.Augmentations++
}

// dissolveTree converts every (inner, outer) pair of the tree rooted at o
// into a frozen matched pair and removes all of them from the tree. The
// root's outer region is left for the caller to match externally.
func (s *Solver) dissolveTree(o *AltTreeNode) {
	nodes := o.allNodes(nil)
	for _, n := range nodes {
		if n.innerRegion != nil {
			s.setMatchedPair(n.innerRegion, n.outerRegion, n.innerToOuterEdge)
		}
	}
	// Detach tree bookkeeping; the regions' tree links were already
	// cleared by setMatchedPair, and the root region's by the caller's
	// own match.
	for _, n := range nodes {
		n.parent = nil
		n.children = nil
	}
}

// setMatchedPair records a mutual match and freezes both regions.
func (s *Solver) setMatchedPair(a, b *Region, edge CompressedEdge) {
	a.match = Match{Region: b, Edge: edge}
	b.match = Match{Region: a, Edge: edge.Reversed()}
	a.altTreeNode = nil
	b.altTreeNode = nil
	s.setFrozen(a)
	s.setFrozen(b)
}

// setMatchedToBoundary records a match against the virtual boundary.
func (s *Solver) setMatchedToBoundary(r *Region, edge CompressedEdge) {
	r.match = Match{Region: nil, Edge: edge}
	r.altTreeNode = nil
	s.setFrozen(r)
}

// treeGrow attaches a matched pair to the tree below an outer region: the
// hit region becomes a shrinking inner node, its match partner the
// growing outer region of the new tree node.
func (s *Solver) treeGrow(o *AltTreeNode, hit *Region, edge CompressedEdge) {
	partner := hit.match.Region
	matchEdge := hit.match.Edge
	hit.match = Match{}
	partner.match = Match{}

	child := &AltTreeNode{
		innerRegion:      hit,
		outerRegion:      partner,
		innerToOuterEdge: matchEdge,
	}
	hit.altTreeNode = child
	partner.altTreeNode = child
	o.addChild(child, edge)

	s.setShrinking(hit)
	s.setGrowing(partner)
}

// formBlossom contracts the odd cycle closed by a collision between two
// outer regions of the same tree. The cycle's regions become children of
// a new blossom region that takes the common ancestor's place in the
// tree, growing from radius zero on top of its children's frozen radii.
func (s *Solver) formBlossom(o1, o2 *AltTreeNode, edge CompressedEdge) {
	lca := commonAncestor(o1, o2)
	path1 := o1.pathToAncestor(lca)
	path2 := o2.pathToAncestor(lca)

	// Assemble the cycle in order: up from o1 to the ancestor, across,
	// and down to o2, closed by the collision edge. Entry i's edge leads
	// to entry i+1.
	var cycle []RegionEdge
	for _, x := range path1 {
		cycle = append(cycle,
			RegionEdge{Region: x.outerRegion, Edge: x.innerToOuterEdge.Reversed()},
			RegionEdge{Region: x.innerRegion, Edge: x.parentEdge.Reversed()},
		)
	}
	closing := edge.Reversed() // from o2's outer region back to o1's
	if len(path2) == 0 {
		cycle = append(cycle, RegionEdge{Region: lca.outerRegion, Edge: closing})
	} else {
		cycle = append(cycle, RegionEdge{Region: lca.outerRegion, Edge: path2[len(path2)-1].parentEdge})
		for i := len(path2) - 1; i >= 0; i-- {
			x := path2[i]
			next := closing
			if i > 0 {
				next = path2[i-1].parentEdge
			}
			cycle = append(cycle,
				RegionEdge{Region: x.innerRegion, Edge: x.innerToOuterEdge},
				RegionEdge{Region: x.outerRegion, Edge: next},
			)
		}
	}

	b := s.newRegion(nil)
	b.radius = varying.GrowingAt(s.time, 0)
	b.blossomChildren = cycle
	for _, c := range cycle {
		c.Region.blossomParent = b
		c.Region.radius = c.Region.radius.ThenFrozenAt(s.time)
		c.Region.altTreeNode = nil
		c.Region.shrinkTracker.invalidate()
	}

	// The blossom takes the ancestor's place in the tree; subtrees
	// hanging off any cycle node are re-parented to it.
	node := &AltTreeNode{
		innerRegion:      lca.innerRegion,
		innerToOuterEdge: lca.innerToOuterEdge,
		outerRegion:      b,
	}
	if lca.innerRegion != nil {
		lca.innerRegion.altTreeNode = node
	}
	b.altTreeNode = node
	if lca.parent != nil {
		parent := lca.parent
		parentEdge := lca.parentEdge
		parent.removeChild(lca)
		parent.addChild(node, parentEdge)
	}

	cycleNodes := append(append([]*AltTreeNode{lca}, path1...), path2...)
	onCycle := make(map[*AltTreeNode]bool, len(cycleNodes))
	for _, x := range cycleNodes {
		onCycle[x] = true
	}
	for _, x := range cycleNodes {
		for _, c := range x.children {
			if !onCycle[c] {
				node.addChild(c, c.parentEdge)
			}
		}
		x.children = nil
	}

	// Re-root ownership of every node in the contracted area and restart
	// their event prediction under the new top.
	b.forEachNodeInTotalArea(func(n *DetectorNode) {
		n.regionThatArrivedTop = b
		n.wrappedRadius = n.computeWrappedRadius()
	})
	s.rescheduleRegion(b)
	s.stats.BlossomsFormed++
}

// blossomImplodes shatters an inner blossom whose radius reached zero.
// The odd side of its cycle between the tree entry and exit points is
// spliced into the tree as alternating inner/outer regions; the even
// side pairs up as matches. Every child resumes from its frozen radius.
func (s *Solver) blossomImplodes(b *Region) {
	node := b.altTreeNode
	parent := node.parent
	parentEdge := node.parentEdge
	outer := node.outerRegion
	innerToOuter := node.innerToOuterEdge
	subtrees := node.children

	// Nodes the blossom claimed at formation radius zero are still in
	// its shell; vacate them before handing the area to the children.
	for len(b.shellArea) > 0 {
		n := b.shellArea[len(b.shellArea)-1]
		b.shellArea = b.shellArea[:len(b.shellArea)-1]
		s.releaseNode(n)
	}

	entry := b.childContaining(sourceRegionOf(parentEdge.To))
	exit := b.childContaining(sourceRegionOf(innerToOuter.From))

	path, offPath := splitCycle(b.blossomChildren, b.cycleIndexOf(entry), b.cycleIndexOf(exit))

	for _, c := range b.blossomChildren {
		c.Region.blossomParent = nil
	}
	b.blossomChildren = nil
	b.altTreeNode = nil
	// The blossom ceases to exist; zero its radius so it drops out of
	// the dual weight sum.
	b.radius = varying.Frozen(0)

	// Splice the odd path into the tree between the parent and the
	// former outer region.
	parent.removeChild(node)
	prev := parent
	prevEdge := parentEdge
	for i := 0; i+1 < len(path); i += 2 {
		nd := &AltTreeNode{
			innerRegion:      path[i].Region,
			outerRegion:      path[i+1].Region,
			innerToOuterEdge: path[i].Edge,
		}
		path[i].Region.altTreeNode = nd
		path[i+1].Region.altTreeNode = nd
		prev.addChild(nd, prevEdge)
		prev = nd
		prevEdge = path[i+1].Edge
	}
	last := &AltTreeNode{
		innerRegion:      path[len(path)-1].Region,
		outerRegion:      outer,
		innerToOuterEdge: innerToOuter,
	}
	path[len(path)-1].Region.altTreeNode = last
	outer.altTreeNode = last
	prev.addChild(last, prevEdge)
	for _, c := range subtrees {
		last.addChild(c, c.parentEdge)
	}

	// Restore ownership to the children and restart the released
	// regions at their frozen radii under the new rates.
	for _, c := range path {
		c.Region.forEachNodeInTotalArea(func(n *DetectorNode) {
			n.regionThatArrivedTop = c.Region
			n.wrappedRadius = n.computeWrappedRadius()
		})
	}
	for _, c := range offPath {
		c.Region.forEachNodeInTotalArea(func(n *DetectorNode) {
			n.regionThatArrivedTop = c.Region
			n.wrappedRadius = n.computeWrappedRadius()
		})
	}
	for i := 0; i+1 < len(offPath); i += 2 {
		s.setMatchedPair(offPath[i].Region, offPath[i+1].Region, offPath[i].Edge)
	}
	for i, c := range path {
		if i%2 == 0 {
			s.setShrinking(c.Region)
		} else {
			s.setGrowing(c.Region)
		}
	}
	s.stats.BlossomsShattered++
}

// sourceRegionOf returns the primal region grown from the given source
// detection event. Compressed-edge endpoints are always sources, and a
// source's immediate region never changes while it exists.
func sourceRegionOf(n *DetectorNode) *Region {
	return n.regionThatArrived
}

// splitCycle splits a blossom cycle at the entry and exit children,
// returning the arc from entry to exit containing an odd number of
// regions (path) and the remaining even arc (offPath). Edges stay
// oriented from each entry toward the next.
func splitCycle(cycle []RegionEdge, entry, exit int) (path, offPath []RegionEdge) {
	n := len(cycle)
	forward := (exit-entry+n)%n + 1
	if forward%2 == 1 {
		for i, k := 0, entry; i < forward; i, k = i+1, (k+1)%n {
			path = append(path, cycle[k])
		}
		for i, k := 0, (exit+1)%n; i < n-forward; i, k = i+1, (k+1)%n {
			offPath = append(offPath, cycle[k])
		}
		return path, offPath
	}
	// Walk backward from entry to exit; edges reverse orientation.
	backward := n - forward + 2
	for i, k := 0, entry; i < backward; i, k = i+1, (k-1+n)%n {
		prev := (k - 1 + n) % n
		path = append(path, RegionEdge{Region: cycle[k].Region, Edge: cycle[prev].Edge.Reversed()})
	}
	for i, k := 0, (entry+1)%n; i < n-backward; i, k = i+1, (k+1)%n {
		offPath = append(offPath, cycle[k])
	}
	return path, offPath
}
