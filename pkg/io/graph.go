package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/daypatu/ers-pymatching/pkg/matchgraph"
)

type graphFile struct {
	Name          string        `json:"name,omitempty"`
	NumNodes      int           `json:"num_nodes"`
	Edges         []edgeRec     `json:"edges"`
	BoundaryEdges []boundaryRec `json:"boundary_edges,omitempty"`
}

type edgeRec struct {
	U           int   `json:"u"`
	V           int   `json:"v"`
	Weight      int64 `json:"weight"`
	Observables []int `json:"observables,omitempty"`
}

type boundaryRec struct {
	Node        int   `json:"node"`
	Weight      int64 `json:"weight"`
	Observables []int `json:"observables,omitempty"`
}

// ReadGraph decodes a JSON detector graph from r. The returned name is
// empty if the file does not carry one.
//
// ReadGraph returns an error if the JSON is malformed, an observable
// index is outside 0..63, or the edges violate graph constraints
// (out-of-range nodes, negative weights, duplicates). Errors are wrapped
// with context describing which edge caused the problem; use errors.Is
// to check for specific [matchgraph] errors.
func ReadGraph(r io.Reader) (*matchgraph.Graph, string, error) {
	var data graphFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}

	g := matchgraph.New(data.NumNodes)
	for _, e := range data.Edges {
		mask, err := observablesMask(e.Observables)
		if err != nil {
			return nil, "", fmt.Errorf("edge %d-%d: %w", e.U, e.V, err)
		}
		if err := g.AddEdge(e.U, e.V, e.Weight, mask); err != nil {
			return nil, "", fmt.Errorf("edge %d-%d: %w", e.U, e.V, err)
		}
	}
	for _, b := range data.BoundaryEdges {
		mask, err := observablesMask(b.Observables)
		if err != nil {
			return nil, "", fmt.Errorf("boundary edge %d: %w", b.Node, err)
		}
		if err := g.AddBoundaryEdge(b.Node, b.Weight, mask); err != nil {
			return nil, "", fmt.Errorf("boundary edge %d: %w", b.Node, err)
		}
	}
	return g, data.Name, nil
}

// ImportGraph reads a JSON graph file at path.
func ImportGraph(path string) (*matchgraph.Graph, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, name, err := ReadGraph(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return g, name, nil
}

// WriteGraph encodes a detector graph as JSON and writes it to w.
// The output can be re-imported with [ReadGraph] for round-trip
// processing.
func WriteGraph(g *matchgraph.Graph, name string, w io.Writer) error {
	out := graphFile{
		Name:     name,
		NumNodes: g.NumNodes(),
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edgeRec{
			U: e.U, V: e.V, Weight: e.Weight,
			Observables: observablesList(e.Observables),
		})
	}
	for _, b := range g.BoundaryEdges() {
		out.BoundaryEdges = append(out.BoundaryEdges, boundaryRec{
			Node: b.Node, Weight: b.Weight,
			Observables: observablesList(b.Observables),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportGraph writes a JSON graph file at path.
func ExportGraph(g *matchgraph.Graph, name, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(g, name, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// MarshalGraph serializes a graph to its canonical JSON bytes, used for
// content hashing and caching.
func MarshalGraph(g *matchgraph.Graph, name string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, name, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// observablesMask folds a list of observable indices into a bit mask.
func observablesMask(indices []int) (uint64, error) {
	var mask uint64
	for _, i := range indices {
		if i < 0 || i > 63 {
			return 0, fmt.Errorf("observable index %d out of range 0..63", i)
		}
		mask |= 1 << uint(i)
	}
	return mask, nil
}

// observablesList expands a bit mask into sorted observable indices.
func observablesList(mask uint64) []int {
	var out []int
	for i := 0; i < 64; i++ {
		if mask&(1<<uint(i)) != 0 {
			out = append(out, i)
		}
	}
	return out
}
