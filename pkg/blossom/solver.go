package blossom

import (
	"errors"
	"fmt"
	"slices"

	"github.com/daypatu/ers-pymatching/pkg/matchgraph"
	"github.com/daypatu/ers-pymatching/pkg/varying"
)

var (
	// ErrIncompleteMatching is returned when the event queue drains while
	// exposed (unmatched) regions remain. On a well-formed graph with a
	// boundary this cannot happen; it indicates a graph whose connected
	// components cannot absorb the given syndrome.
	ErrIncompleteMatching = errors.New("event queue exhausted with unmatched regions")

	// ErrGrowthBudgetExceeded is returned when the next event lies beyond
	// the configured growth budget while unmatched regions remain.
	ErrGrowthBudgetExceeded = errors.New("growth budget exceeded with unmatched regions")
)

// weightScale doubles all edge weights internally so that two fronts
// splitting an odd weight still meet at an integer time.
const weightScale = 2

// Stats counts the work done by one Solve call.
type Stats struct {
	EventsProcessed   int64
	Collisions        int64
	BlossomsFormed    int64
	BlossomsShattered int64
	Augmentations     int64
}

// Pair is one entry of the final matching: two detection events matched
// to each other, or one detection event matched to the boundary
// (Source2 == Boundary). Observables is the parity mask of logical
// observables crossed by the matched path.
type Pair struct {
	Source1     int
	Source2     int
	Observables uint64
}

// Boundary is the Source2 value of a pair matched against the boundary.
const Boundary = -1

// Matching is the output of one Solve call.
type Matching struct {
	// Pairs covers every detection event exactly once, in deterministic
	// order.
	Pairs []Pair

	// Observables is the cumulative parity mask over all pairs.
	Observables uint64

	// Weight is the total weight of the matching, in the graph's original
	// (undoubled) weight units.
	Weight int64

	Stats Stats
}

// Options configures a Solver.
type Options struct {
	// MaxGrowth bounds the simulation timeline in original weight units.
	// Zero means unbounded. If the budget is reached while unmatched
	// regions remain, Solve fails with ErrGrowthBudgetExceeded.
	MaxGrowth int64
}

// Solver runs the flood-fill matching simulation on one detector graph.
// It exclusively owns all node and region state for the duration of a
// Solve call and may be reused across calls, but is not safe for
// concurrent use.
type Solver struct {
	nodes []DetectorNode
	queue eventQueue

	time        int64
	regionSeq   int
	regions     []*Region
	activeTrees int
	maxGrowth   int64 // doubled; 0 = unbounded

	stats Stats
}

// NewSolver builds a solver for the given detector graph. The graph's
// edges are loaded into per-node adjacency lists with doubled weights;
// the graph itself is not retained and may be shared between solvers.
func NewSolver(g *matchgraph.Graph, opts Options) (*Solver, error) {
	if g == nil {
		return nil, errors.New("nil graph")
	}
	s := &Solver{
		nodes:     make([]DetectorNode, g.NumNodes()),
		maxGrowth: opts.MaxGrowth * weightScale,
	}
	for i := range s.nodes {
		s.nodes[i].index = i
	}
	for _, e := range g.Edges() {
		u, v := &s.nodes[e.U], &s.nodes[e.V]
		w := e.Weight * weightScale
		u.neighbors = append(u.neighbors, v)
		u.neighborWeights = append(u.neighborWeights, w)
		u.neighborObservables = append(u.neighborObservables, e.Observables)
		v.neighbors = append(v.neighbors, u)
		v.neighborWeights = append(v.neighborWeights, w)
		v.neighborObservables = append(v.neighborObservables, e.Observables)
	}
	for _, e := range g.BoundaryEdges() {
		u := &s.nodes[e.Node]
		u.neighbors = append(u.neighbors, nil)
		u.neighborWeights = append(u.neighborWeights, e.Weight*weightScale)
		u.neighborObservables = append(u.neighborObservables, e.Observables)
	}
	return s, nil
}

// NumNodes returns the number of detector nodes the solver operates on.
func (s *Solver) NumNodes() int { return len(s.nodes) }

// Node exposes a detector node for state queries. The returned pointer is
// owned by the solver.
func (s *Solver) Node(i int) *DetectorNode { return &s.nodes[i] }

// Solve decodes one syndrome, given as a list of lit detector node
// indices, and returns the minimum-weight matching. The result is
// identical across repeated calls with the same graph and syndrome.
func (s *Solver) Solve(detectionEvents []int) (*Matching, error) {
	if err := s.validateSyndrome(detectionEvents); err != nil {
		return nil, err
	}
	s.reset()

	// Sort a copy so the result depends only on the syndrome set, not
	// the order the caller listed it in.
	events := append([]int(nil), detectionEvents...)
	slices.Sort(events)
	for _, d := range events {
		s.createRegion(&s.nodes[d])
	}

	if err := s.run(); err != nil {
		return nil, err
	}
	return s.extractMatches(), nil
}

func (s *Solver) validateSyndrome(detectionEvents []int) error {
	seen := make(map[int]bool, len(detectionEvents))
	for _, d := range detectionEvents {
		if d < 0 || d >= len(s.nodes) {
			return fmt.Errorf("%w: detection event %d (graph has %d nodes)",
				matchgraph.ErrNodeOutOfRange, d, len(s.nodes))
		}
		if seen[d] {
			return fmt.Errorf("%w: %d", matchgraph.ErrDuplicateDetection, d)
		}
		seen[d] = true
	}
	return nil
}

// reset returns all per-call state to the idle configuration.
func (s *Solver) reset() {
	for i := range s.nodes {
		s.nodes[i].reset()
	}
	s.queue = s.queue[:0]
	s.time = 0
	s.regionSeq = 0
	s.regions = s.regions[:0]
	s.activeTrees = 0
	s.stats = Stats{}
}

// createRegion activates a detection event: the node becomes the source
// of a fresh growing region rooted at its own alternating tree.
func (s *Solver) createRegion(src *DetectorNode) {
	r := s.newRegion(src)
	r.radius = varying.GrowingAt(s.time, 0)
	r.altTreeNode = &AltTreeNode{outerRegion: r}
	s.activeTrees++

	src.reachedFromSource = src
	src.observablesCrossed = 0
	src.radiusOfArrival = 0
	src.regionThatArrived = r
	src.regionThatArrivedTop = r
	src.wrappedRadius = 0
	r.shellArea = append(r.shellArea, src)

	s.scheduleLook(src)
}

func (s *Solver) newRegion(src *DetectorNode) *Region {
	r := &Region{id: s.regionSeq, source: src}
	s.regionSeq++
	s.regions = append(s.regions, r)
	return r
}

// run drives the event loop until every region is matched, the queue
// drains, or the growth budget is hit.
func (s *Solver) run() error {
	for len(s.queue) > 0 && s.activeTrees > 0 {
		ev := s.queue.pop()
		if !s.eventValid(ev) {
			continue
		}
		if s.maxGrowth > 0 && ev.time > s.maxGrowth {
			return fmt.Errorf("%w: next event at %d, budget %d",
				ErrGrowthBudgetExceeded, ev.time/weightScale, s.maxGrowth/weightScale)
		}
		s.time = ev.time
		s.stats.EventsProcessed++
		switch ev.kind {
		case eventLookAtNode:
			s.lookAtNode(ev.node)
		case eventLookAtShrinkingRegion:
			s.lookAtShrinkingRegion(ev.region)
		}
	}
	if s.activeTrees > 0 {
		return fmt.Errorf("%w: %d alternating trees still active", ErrIncompleteMatching, s.activeTrees)
	}
	return nil
}

func (s *Solver) eventValid(ev event) bool {
	switch ev.kind {
	case eventLookAtNode:
		return ev.node.tracker.isCurrent(ev.gen)
	case eventLookAtShrinkingRegion:
		return ev.region.shrinkTracker.isCurrent(ev.gen)
	}
	return false
}
