package blossom

// AltTreeNode is one node of the global alternating tree explored while
// searching for augmenting paths. Except at the root, each node is an
// (inner, outer) pair of regions: the inner region shrinks, the outer
// region grows, and the two are matched through innerToOuterEdge. The
// root has no inner region; its outer region is the exposed (unmatched)
// region the tree is rooted at.
//
// Edge orientation conventions:
//   - parentEdge runs from a node in the parent's outer region to a node
//     in this node's inner region.
//   - innerToOuterEdge runs from a node in the inner region to a node in
//     the outer region.
type AltTreeNode struct {
	innerRegion      *Region // nil at the root
	outerRegion      *Region
	innerToOuterEdge CompressedEdge

	parent     *AltTreeNode
	parentEdge CompressedEdge
	children   []*AltTreeNode

	visited bool // scratch flag for common-ancestor search
}

func (a *AltTreeNode) addChild(child *AltTreeNode, edge CompressedEdge) {
	child.parent = a
	child.parentEdge = edge
	a.children = append(a.children, child)
}

func (a *AltTreeNode) removeChild(child *AltTreeNode) {
	for i, c := range a.children {
		if c == child {
			a.children = append(a.children[:i], a.children[i+1:]...)
			child.parent = nil
			child.parentEdge = CompressedEdge{}
			return
		}
	}
}

// root follows parent pointers to the tree root.
func (a *AltTreeNode) root() *AltTreeNode {
	for a.parent != nil {
		a = a.parent
	}
	return a
}

// becomeRoot re-roots the alternating tree at this node by rotating
// matched edges along the path to the old root: each ancestor's inner
// region moves one step rootward, so that afterwards this node has no
// inner region and every former ancestor is matched through what used to
// be a tree edge. This is the first half of augmenting along a path.
func (a *AltTreeNode) becomeRoot() {
	if a.parent == nil {
		return
	}
	p := a.parent
	p.becomeRoot()

	edgeToParent := a.parentEdge
	p.removeChild(a)

	// The old parent inherits this node's inner region, matched through
	// the former tree edge, and becomes a child of this node through the
	// former matched edge.
	p.innerRegion = a.innerRegion
	p.innerToOuterEdge = edgeToParent.Reversed()
	p.innerRegion.altTreeNode = p
	a.addChild(p, a.innerToOuterEdge.Reversed())

	a.innerRegion = nil
	a.innerToOuterEdge = CompressedEdge{}
	a.parent = nil
	a.parentEdge = CompressedEdge{}
}

// commonAncestor returns the lowest common ancestor of a and b, or nil if
// they are in different trees. The scratch visited flags are cleared
// before returning.
func commonAncestor(a, b *AltTreeNode) *AltTreeNode {
	for x := a; x != nil; x = x.parent {
		x.visited = true
	}
	var lca *AltTreeNode
	for y := b; y != nil; y = y.parent {
		if y.visited {
			lca = y
			break
		}
	}
	for x := a; x != nil; x = x.parent {
		x.visited = false
	}
	return lca
}

// pathToAncestor returns the nodes from a (inclusive) up to ancestor
// (exclusive).
func (a *AltTreeNode) pathToAncestor(ancestor *AltTreeNode) []*AltTreeNode {
	var path []*AltTreeNode
	for x := a; x != ancestor; x = x.parent {
		path = append(path, x)
	}
	return path
}

// allNodes appends a and every node below it, in deterministic
// depth-first child order.
func (a *AltTreeNode) allNodes(out []*AltTreeNode) []*AltTreeNode {
	out = append(out, a)
	for _, c := range a.children {
		out = c.allNodes(out)
	}
	return out
}
