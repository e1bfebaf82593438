package blossom

import (
	"errors"
	"reflect"
	"testing"

	"github.com/daypatu/ers-pymatching/pkg/matchgraph"
)

// buildGraph constructs a graph from edge lists, failing the test on any
// malformed input.
func buildGraph(t *testing.T, numNodes int, edges []matchgraph.Edge, boundary []matchgraph.BoundaryEdge) *matchgraph.Graph {
	t.Helper()
	g := matchgraph.New(numNodes)
	for _, e := range edges {
		if err := g.AddEdge(e.U, e.V, e.Weight, e.Observables); err != nil {
			t.Fatalf("AddEdge(%d, %d) error: %v", e.U, e.V, err)
		}
	}
	for _, b := range boundary {
		if err := g.AddBoundaryEdge(b.Node, b.Weight, b.Observables); err != nil {
			t.Fatalf("AddBoundaryEdge(%d) error: %v", b.Node, err)
		}
	}
	return g
}

func solve(t *testing.T, g *matchgraph.Graph, syndrome []int) *Matching {
	t.Helper()
	s, err := NewSolver(g, Options{})
	if err != nil {
		t.Fatalf("NewSolver error: %v", err)
	}
	m, err := s.Solve(syndrome)
	if err != nil {
		t.Fatalf("Solve(%v) error: %v", syndrome, err)
	}
	return m
}

func TestSolveEmptySyndrome(t *testing.T) {
	g := buildGraph(t, 2,
		[]matchgraph.Edge{{U: 0, V: 1, Weight: 3}},
		nil)
	m := solve(t, g, nil)
	if len(m.Pairs) != 0 {
		t.Errorf("Pairs = %v, want empty", m.Pairs)
	}
	if m.Weight != 0 {
		t.Errorf("Weight = %d, want 0", m.Weight)
	}
	if m.Observables != 0 {
		t.Errorf("Observables = %d, want 0", m.Observables)
	}
}

func TestSolveBoundaryMatch(t *testing.T) {
	g := buildGraph(t, 1, nil,
		[]matchgraph.BoundaryEdge{{Node: 0, Weight: 10, Observables: 1}})
	m := solve(t, g, []int{0})

	want := []Pair{{Source1: 0, Source2: Boundary, Observables: 1}}
	if !reflect.DeepEqual(m.Pairs, want) {
		t.Errorf("Pairs = %v, want %v", m.Pairs, want)
	}
	if m.Weight != 10 {
		t.Errorf("Weight = %d, want 10", m.Weight)
	}
	if m.Observables != 1 {
		t.Errorf("Observables = %d, want 1", m.Observables)
	}
}

func TestSolveTwoEventPair(t *testing.T) {
	g := buildGraph(t, 2,
		[]matchgraph.Edge{{U: 0, V: 1, Weight: 10, Observables: 1 << 2}},
		nil)
	m := solve(t, g, []int{0, 1})

	want := []Pair{{Source1: 0, Source2: 1, Observables: 1 << 2}}
	if !reflect.DeepEqual(m.Pairs, want) {
		t.Errorf("Pairs = %v, want %v", m.Pairs, want)
	}
	if m.Weight != 10 {
		t.Errorf("Weight = %d, want 10", m.Weight)
	}
}

// Matching two far-apart events routes through intermediate detectors,
// accumulating the weight and observable parity of the whole chain.
func TestSolveChainObservables(t *testing.T) {
	g := buildGraph(t, 4,
		[]matchgraph.Edge{
			{U: 0, V: 1, Weight: 2, Observables: 1},
			{U: 1, V: 2, Weight: 4, Observables: 2},
			{U: 2, V: 3, Weight: 2, Observables: 4},
		},
		nil)
	m := solve(t, g, []int{0, 3})

	want := []Pair{{Source1: 0, Source2: 3, Observables: 7}}
	if !reflect.DeepEqual(m.Pairs, want) {
		t.Errorf("Pairs = %v, want %v", m.Pairs, want)
	}
	if m.Weight != 8 {
		t.Errorf("Weight = %d, want 8", m.Weight)
	}
	if m.Observables != 7 {
		t.Errorf("Observables = %d, want 7", m.Observables)
	}
}

// Opposite corners of a unit square match straight through either side
// at weight 2; the even cycle never forms a blossom.
func TestSolveSquareNoBlossom(t *testing.T) {
	g := buildGraph(t, 4,
		[]matchgraph.Edge{
			{U: 0, V: 1, Weight: 1, Observables: 1},
			{U: 1, V: 2, Weight: 1, Observables: 2},
			{U: 2, V: 3, Weight: 1, Observables: 4},
			{U: 3, V: 0, Weight: 1, Observables: 8},
		},
		nil)
	m := solve(t, g, []int{0, 2})

	if len(m.Pairs) != 1 {
		t.Fatalf("Pairs = %v, want one pair", m.Pairs)
	}
	p := m.Pairs[0]
	if p.Source1 != 0 || p.Source2 != 2 {
		t.Errorf("pair = (%d, %d), want (0, 2)", p.Source1, p.Source2)
	}
	if p.Observables != 1^2 && p.Observables != 4^8 {
		t.Errorf("Observables = %d, want parity of one side of the square", p.Observables)
	}
	if m.Weight != 2 {
		t.Errorf("Weight = %d, want 2", m.Weight)
	}
	if m.Stats.BlossomsFormed != 0 {
		t.Errorf("BlossomsFormed = %d, want 0", m.Stats.BlossomsFormed)
	}
}

// Three mutually adjacent events form a blossom; when the blossom
// reaches the boundary it shatters into one internal pair and one
// boundary match. The optimal matching has weight 1 + 3.
func TestSolveTriangleBlossom(t *testing.T) {
	g := buildGraph(t, 3,
		[]matchgraph.Edge{
			{U: 0, V: 1, Weight: 1, Observables: 1},
			{U: 0, V: 2, Weight: 1, Observables: 2},
			{U: 1, V: 2, Weight: 1, Observables: 4},
		},
		[]matchgraph.BoundaryEdge{{Node: 2, Weight: 3, Observables: 8}})
	m := solve(t, g, []int{0, 1, 2})

	want := []Pair{
		{Source1: 0, Source2: 1, Observables: 1},
		{Source1: 2, Source2: Boundary, Observables: 8},
	}
	if !reflect.DeepEqual(m.Pairs, want) {
		t.Errorf("Pairs = %v, want %v", m.Pairs, want)
	}
	if m.Weight != 4 {
		t.Errorf("Weight = %d, want 4", m.Weight)
	}
	if m.Stats.BlossomsFormed != 1 {
		t.Errorf("BlossomsFormed = %d, want 1", m.Stats.BlossomsFormed)
	}
	if m.Stats.BlossomsShattered != 1 {
		t.Errorf("BlossomsShattered = %d, want 1", m.Stats.BlossomsShattered)
	}
	if m.Observables != 1^8 {
		t.Errorf("Observables = %d, want %d", m.Observables, 1^8)
	}
}

// An inner blossom shrinking to radius zero must dissolve back into its
// cycle mid-run: the triangle forms a blossom, matches detector 3, then
// region 4's front turns the blossom into a shrinking inner tree node
// that implodes before the final boundary augmentation.
func TestSolveInnerBlossomImplosion(t *testing.T) {
	g := buildGraph(t, 5,
		[]matchgraph.Edge{
			{U: 0, V: 1, Weight: 2, Observables: 1},
			{U: 1, V: 2, Weight: 2, Observables: 2},
			{U: 0, V: 2, Weight: 2, Observables: 4},
			{U: 0, V: 3, Weight: 4, Observables: 8},
			{U: 1, V: 4, Weight: 20, Observables: 16},
		},
		[]matchgraph.BoundaryEdge{{Node: 4, Weight: 30, Observables: 32}})
	m := solve(t, g, []int{0, 1, 2, 3, 4})

	want := []Pair{
		{Source1: 0, Source2: 3, Observables: 8},
		{Source1: 1, Source2: 2, Observables: 2},
		{Source1: 4, Source2: Boundary, Observables: 32},
	}
	if !reflect.DeepEqual(m.Pairs, want) {
		t.Errorf("Pairs = %v, want %v", m.Pairs, want)
	}
	if m.Weight != 36 {
		t.Errorf("Weight = %d, want 36", m.Weight)
	}
	if m.Observables != 8^2^32 {
		t.Errorf("Observables = %d, want %d", m.Observables, 8^2^32)
	}
	if m.Stats.BlossomsFormed != 1 {
		t.Errorf("BlossomsFormed = %d, want 1", m.Stats.BlossomsFormed)
	}
	if m.Stats.BlossomsShattered != 1 {
		t.Errorf("BlossomsShattered = %d, want 1", m.Stats.BlossomsShattered)
	}
	if m.Stats.Augmentations != 3 {
		t.Errorf("Augmentations = %d, want 3", m.Stats.Augmentations)
	}
}

// A repetition-code style chain with boundaries on both ends.
func TestSolveRepetitionChain(t *testing.T) {
	chain := func(t *testing.T) *matchgraph.Graph {
		t.Helper()
		return buildGraph(t, 5,
			[]matchgraph.Edge{
				{U: 0, V: 1, Weight: 1, Observables: 1 << 1},
				{U: 1, V: 2, Weight: 1, Observables: 1 << 2},
				{U: 2, V: 3, Weight: 1, Observables: 1 << 3},
				{U: 3, V: 4, Weight: 1, Observables: 1 << 4},
			},
			[]matchgraph.BoundaryEdge{
				{Node: 0, Weight: 1, Observables: 1 << 0},
				{Node: 4, Weight: 1, Observables: 1 << 5},
			})
	}

	tests := []struct {
		name     string
		syndrome []int
		weight   int64
		obs      uint64
		pairs    int
	}{
		{"single near left boundary", []int{1}, 2, 1<<0 | 1<<1, 1},
		{"adjacent interior pair", []int{1, 3}, 2, 1<<2 | 1<<3, 1},
		{"both ends to their boundaries", []int{0, 4}, 2, 1<<0 | 1<<5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := solve(t, chain(t), tt.syndrome)
			if m.Weight != tt.weight {
				t.Errorf("Weight = %d, want %d", m.Weight, tt.weight)
			}
			if m.Observables != tt.obs {
				t.Errorf("Observables = %d, want %d", m.Observables, tt.obs)
			}
			if len(m.Pairs) != tt.pairs {
				t.Errorf("Pairs = %v, want %d pairs", m.Pairs, tt.pairs)
			}
		})
	}
}

// The result must not depend on syndrome ordering or on solver reuse.
func TestSolveDeterministic(t *testing.T) {
	g := buildGraph(t, 6,
		[]matchgraph.Edge{
			{U: 0, V: 1, Weight: 3, Observables: 1},
			{U: 1, V: 2, Weight: 2, Observables: 2},
			{U: 2, V: 3, Weight: 5, Observables: 4},
			{U: 3, V: 4, Weight: 2, Observables: 8},
			{U: 4, V: 5, Weight: 3, Observables: 16},
			{U: 0, V: 5, Weight: 4, Observables: 32},
			{U: 1, V: 4, Weight: 7, Observables: 64},
		},
		[]matchgraph.BoundaryEdge{{Node: 0, Weight: 6}, {Node: 3, Weight: 6}})

	s, err := NewSolver(g, Options{})
	if err != nil {
		t.Fatalf("NewSolver error: %v", err)
	}
	first, err := s.Solve([]int{1, 2, 4, 5})
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	again, err := s.Solve([]int{5, 4, 2, 1})
	if err != nil {
		t.Fatalf("Solve (reordered) error: %v", err)
	}
	if !reflect.DeepEqual(first, again) {
		t.Errorf("reordered syndrome result differs:\n  %+v\n  %+v", first, again)
	}

	fresh := solve(t, g, []int{1, 2, 4, 5})
	if !reflect.DeepEqual(first, fresh) {
		t.Errorf("reused solver result differs from fresh solver:\n  %+v\n  %+v", first, fresh)
	}
}

func TestSolveIncompleteMatching(t *testing.T) {
	g := buildGraph(t, 2,
		[]matchgraph.Edge{{U: 0, V: 1, Weight: 1}},
		nil)
	s, err := NewSolver(g, Options{})
	if err != nil {
		t.Fatalf("NewSolver error: %v", err)
	}
	if _, err := s.Solve([]int{0}); !errors.Is(err, ErrIncompleteMatching) {
		t.Errorf("Solve error = %v, want ErrIncompleteMatching", err)
	}
}

func TestSolveGrowthBudget(t *testing.T) {
	g := buildGraph(t, 2,
		[]matchgraph.Edge{{U: 0, V: 1, Weight: 10}},
		nil)
	s, err := NewSolver(g, Options{MaxGrowth: 3})
	if err != nil {
		t.Fatalf("NewSolver error: %v", err)
	}
	if _, err := s.Solve([]int{0, 1}); !errors.Is(err, ErrGrowthBudgetExceeded) {
		t.Errorf("Solve error = %v, want ErrGrowthBudgetExceeded", err)
	}

	// A budget that the decode fits inside must not trip.
	s, err = NewSolver(g, Options{MaxGrowth: 10})
	if err != nil {
		t.Fatalf("NewSolver error: %v", err)
	}
	if _, err := s.Solve([]int{0, 1}); err != nil {
		t.Errorf("Solve error = %v, want success within budget", err)
	}
}

func TestSolveSyndromeValidation(t *testing.T) {
	g := buildGraph(t, 2,
		[]matchgraph.Edge{{U: 0, V: 1, Weight: 1}},
		nil)
	s, err := NewSolver(g, Options{})
	if err != nil {
		t.Fatalf("NewSolver error: %v", err)
	}

	if _, err := s.Solve([]int{0, 2}); !errors.Is(err, matchgraph.ErrNodeOutOfRange) {
		t.Errorf("Solve([0 2]) error = %v, want ErrNodeOutOfRange", err)
	}
	if _, err := s.Solve([]int{-1}); !errors.Is(err, matchgraph.ErrNodeOutOfRange) {
		t.Errorf("Solve([-1]) error = %v, want ErrNodeOutOfRange", err)
	}
	if _, err := s.Solve([]int{0, 0}); !errors.Is(err, matchgraph.ErrDuplicateDetection) {
		t.Errorf("Solve([0 0]) error = %v, want ErrDuplicateDetection", err)
	}
}

func TestNewSolverNilGraph(t *testing.T) {
	if _, err := NewSolver(nil, Options{}); err == nil {
		t.Error("NewSolver(nil) should fail")
	}
}
