// Package pkg provides the core libraries for the ersmatch decoder.
//
// # Overview
//
// ersmatch decodes syndromes from quantum error correction experiments by
// minimum-weight perfect matching on a detector graph. The pkg directory
// is organized into a small number of areas:
//
//  1. [matchgraph] - Detector graph construction and validation
//  2. [blossom] - The sparse blossom matching solver
//  3. [decode] - Orchestration with caching and hashing
//  4. [io] / [render] - Graph, shot and result files; Graphviz output
//  5. [cache] / [store] - Result caching and run history
//
// # Architecture
//
// The typical data flow through a decode:
//
//	Graph JSON + detection events
//	         ↓
//	    [matchgraph] package (build and validate the detector graph)
//	         ↓
//	    [blossom] package (flood-fill sparse blossom matching)
//	         ↓
//	    [decode] package (cache keyed by graph and syndrome hashes)
//	         ↓
//	    Matching pairs, observable flips, total weight
//
// # Quick Start
//
// Build a graph and decode a single syndrome:
//
//	g := matchgraph.New(3)
//	g.AddEdge(0, 1, 2, 0b001)
//	g.AddEdge(1, 2, 3, 0b010)
//	g.AddBoundaryEdge(2, 4, 0b100)
//
//	solver := blossom.NewSolver(g, blossom.Options{})
//	m, err := solver.Solve([]int{0, 2})
//
// Or use the decode runner for cached batch decoding:
//
//	runner := decode.NewRunner(nil, nil, nil)
//	defer runner.Close()
//	batch, err := runner.DecodeBatch(ctx, g, graphHash, shots, decode.Options{})
//
// The [errors] package defines structured error codes shared across the
// CLI and HTTP API, and [observability] exposes hook points for decode,
// cache and HTTP events.
package pkg
