package render

import (
	"strings"
	"testing"

	"github.com/daypatu/ers-pymatching/pkg/blossom"
	"github.com/daypatu/ers-pymatching/pkg/matchgraph"
)

func testGraph(t *testing.T) *matchgraph.Graph {
	t.Helper()
	g := matchgraph.New(3)
	if err := g.AddEdge(0, 1, 2, 1<<0); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(1, 2, 3, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.AddBoundaryEdge(2, 4, 1<<1); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{})

	for _, want := range []string{
		"graph G {",
		`d0 [label="0"];`,
		`d2 [label="2"];`,
		"d0 -- d1;",
		"d1 -- d2;",
		"d2 -- boundary;",
		"boundary [shape=doublecircle",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "label=\"2 ") {
		t.Error("ToDOT() rendered weight labels without ShowWeights")
	}
}

func TestToDOTSyndrome(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{Syndrome: []int{1}})

	if !strings.Contains(dot, `d1 [label="1", fillcolor=firebrick1, fontcolor=white];`) {
		t.Errorf("ToDOT() did not highlight lit detector:\n%s", dot)
	}
	if strings.Contains(dot, `d0 [label="0", fillcolor=firebrick1`) {
		t.Errorf("ToDOT() highlighted an unlit detector:\n%s", dot)
	}
}

func TestToDOTWeights(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{ShowWeights: true})

	if !strings.Contains(dot, `d0 -- d1 [label="2 (obs 0x1)", fontsize=10];`) {
		t.Errorf("ToDOT() missing weight label:\n%s", dot)
	}
	// Edge without observables gets a bare weight
	if !strings.Contains(dot, `d1 -- d2 [label="3", fontsize=10];`) {
		t.Errorf("ToDOT() missing bare weight label:\n%s", dot)
	}
}

func TestToDOTMatching(t *testing.T) {
	m := &blossom.Matching{
		Pairs: []blossom.Pair{
			{Source1: 0, Source2: 1},
			{Source1: 2, Source2: blossom.Boundary},
		},
	}
	dot := ToDOT(testGraph(t), Options{Matching: m})

	if !strings.Contains(dot, "d0 -- d1 [color=firebrick1, penwidth=3, constraint=false];") {
		t.Errorf("ToDOT() missing matched pair overlay:\n%s", dot)
	}
	if !strings.Contains(dot, "d2 -- boundary [color=firebrick1, penwidth=3, constraint=false];") {
		t.Errorf("ToDOT() missing boundary match overlay:\n%s", dot)
	}
}

func TestToDOTNoBoundary(t *testing.T) {
	g := matchgraph.New(2)
	if err := g.AddEdge(0, 1, 1, 0); err != nil {
		t.Fatal(err)
	}
	if dot := ToDOT(g, Options{}); strings.Contains(dot, "boundary") {
		t.Errorf("ToDOT() emitted boundary node for graph without boundary edges:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() kept pt sizes: %s", out)
	}

	// SVG without a view box passes through unchanged
	raw := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(raw); string(got) != string(raw) {
		t.Errorf("normalizeViewBox() modified svg without viewBox: %s", got)
	}
}
