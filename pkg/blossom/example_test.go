package blossom_test

import (
	"fmt"
	"log"

	"github.com/daypatu/ers-pymatching/pkg/blossom"
	"github.com/daypatu/ers-pymatching/pkg/matchgraph"
)

// Decode a three-detector chain where the two outer detectors fired: the
// cheapest explanation pairs them through the middle detector.
func ExampleSolver_Solve() {
	g := matchgraph.New(3)
	if err := g.AddEdge(0, 1, 2, 0b01); err != nil {
		log.Fatal(err)
	}
	if err := g.AddEdge(1, 2, 3, 0b10); err != nil {
		log.Fatal(err)
	}

	s, err := blossom.NewSolver(g, blossom.Options{})
	if err != nil {
		log.Fatal(err)
	}
	m, err := s.Solve([]int{0, 2})
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range m.Pairs {
		fmt.Printf("detector %d matches detector %d crossing observables %02b\n",
			p.Source1, p.Source2, p.Observables)
	}
	fmt.Println("total weight:", m.Weight)
	// Output:
	// detector 0 matches detector 2 crossing observables 11
	// total weight: 5
}
