package blossom

// Turning the matched forest left behind by the event loop into explicit
// pairs of detection events. Top-level regions are matched to each other
// or to the boundary; blossoms are shattered recursively, pairing their
// bypassed cycle arcs off among themselves.

// extractMatches reads out the final matching. Every region is frozen
// when this runs, so the dual weight is a plain sum of radii; pairs are
// produced in region creation order, canonicalized to Source1 < Source2.
func (s *Solver) extractMatches() *Matching {
	m := &Matching{}

	var doubled int64
	for _, r := range s.regions {
		doubled += r.radius.ValueAt(s.time)
	}
	m.Weight = doubled / weightScale

	done := make(map[*Region]bool, len(s.regions))
	for _, r := range s.regions {
		if r.blossomParent != nil || done[r] || !r.match.IsMatched() {
			continue
		}
		done[r] = true
		if r.match.Region != nil {
			done[r.match.Region] = true
		}
		s.extractPair(r, r.match.Region, r.match.Edge, m)
	}
	m.Stats = s.stats
	return m
}

// extractPair emits the pair for one match edge, shattering both sides
// down to the primal regions holding the edge's endpoints. b is nil for
// a boundary match.
func (s *Solver) extractPair(a, b *Region, edge CompressedEdge, m *Matching) {
	pa := s.resolveToPrimal(a, edge.From, m)
	p := Pair{Source1: pa.source.index, Source2: Boundary, Observables: edge.Observables}
	if b != nil {
		pb := s.resolveToPrimal(b, edge.To, m)
		p.Source2 = pb.source.index
		if p.Source2 < p.Source1 {
			p.Source1, p.Source2 = p.Source2, p.Source1
		}
	}
	m.Pairs = append(m.Pairs, p)
	m.Observables ^= edge.Observables
}

// resolveToPrimal descends the blossom hierarchy of r to the primal
// region whose subtree contains the source node src. At each level the
// remaining children of the shattered blossom form an even arc of the
// cycle and are paired off with their own cycle edges.
func (s *Solver) resolveToPrimal(r *Region, src *DetectorNode, m *Matching) *Region {
	target := sourceRegionOf(src)
	for r.IsBlossom() {
		c := r.childContaining(target)
		i := r.cycleIndexOf(c)
		cyc := r.blossomChildren
		n := len(cyc)
		for k := 1; k < n; k += 2 {
			x := cyc[(i+k)%n]
			y := cyc[(i+k+1)%n]
			s.extractPair(x.Region, y.Region, x.Edge, m)
		}
		s.stats.BlossomsShattered++
		r = c
	}
	return r
}
