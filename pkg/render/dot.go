// Package render turns detector graphs and decode results into visual
// outputs.
//
// The pipeline is DOT first, pixels second: [ToDOT] produces a Graphviz
// DOT description of the detector graph, optionally highlighting a
// syndrome and its matching, and [RenderSVG] or [RenderPNG] rasterize it
// with Graphviz. [ToPDF] converts SVG output to PDF via the external
// rsvg-convert tool.
//
//	dot := render.ToDOT(g, render.Options{Syndrome: events, Matching: m})
//	svg, err := render.RenderSVG(dot)
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/daypatu/ers-pymatching/pkg/blossom"
	"github.com/daypatu/ers-pymatching/pkg/matchgraph"
)

// Options configures detector graph rendering.
type Options struct {
	// Syndrome lists detection events to highlight. Lit detectors are
	// drawn filled.
	Syndrome []int

	// Matching overlays matched pairs as bold red edges.
	Matching *blossom.Matching

	// ShowWeights labels every edge with its weight and observable mask.
	ShowWeights bool
}

// ToDOT converts a detector graph to Graphviz DOT format. The resulting
// DOT string can be rendered with [RenderSVG] or [RenderPNG].
//
// The virtual boundary appears as a single dashed node; every boundary
// edge connects to it.
func ToDOT(g *matchgraph.Graph, opts Options) string {
	lit := make(map[int]bool, len(opts.Syndrome))
	for _, d := range opts.Syndrome {
		lit[d] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for i := 0; i < g.NumNodes(); i++ {
		attrs := []string{fmt.Sprintf("label=%q", fmt.Sprint(i))}
		if lit[i] {
			attrs = append(attrs, "fillcolor=firebrick1", "fontcolor=white")
		}
		fmt.Fprintf(&buf, "  d%d [%s];\n", i, strings.Join(attrs, ", "))
	}
	if len(g.BoundaryEdges()) > 0 {
		buf.WriteString("  boundary [shape=doublecircle, style=\"filled,dashed\", fillcolor=lightgrey, label=\"B\"];\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  d%d -- d%d%s;\n", e.U, e.V, edgeAttrs(e.Weight, e.Observables, opts))
	}
	for _, b := range g.BoundaryEdges() {
		fmt.Fprintf(&buf, "  d%d -- boundary%s;\n", b.Node, edgeAttrs(b.Weight, b.Observables, opts))
	}

	if opts.Matching != nil {
		buf.WriteString("\n")
		for _, p := range opts.Matching.Pairs {
			to := fmt.Sprintf("d%d", p.Source2)
			if p.Source2 == blossom.Boundary {
				to = "boundary"
			}
			fmt.Fprintf(&buf, "  d%d -- %s [color=firebrick1, penwidth=3, constraint=false];\n", p.Source1, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(weight int64, observables uint64, opts Options) string {
	if !opts.ShowWeights {
		return ""
	}
	label := fmt.Sprintf("%d", weight)
	if observables != 0 {
		label += fmt.Sprintf(" (obs %#x)", observables)
	}
	return fmt.Sprintf(" [label=%q, fontsize=10]", label)
}
