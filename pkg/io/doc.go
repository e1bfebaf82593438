// Package io provides JSON import and export for detector graphs, shot
// batches, and matching results.
//
// # Overview
//
// This package enables serialization of decoder inputs and outputs to a
// simple JSON format. The format is designed for:
//
//   - Hand-written graphs in tests and examples
//   - Integration with external tools that produce syndrome data
//   - Archiving decode results alongside the inputs that produced them
//
// # Graph Format
//
// A graph is a JSON object with a node count and edge arrays:
//
//	{
//	  "name": "repetition-5",
//	  "num_nodes": 5,
//	  "edges": [
//	    {"u": 0, "v": 1, "weight": 1, "observables": [0]},
//	    {"u": 1, "v": 2, "weight": 1, "observables": [1]}
//	  ],
//	  "boundary_edges": [
//	    {"node": 0, "weight": 1, "observables": [2]}
//	  ]
//	}
//
// Observables are written as lists of observable indices (0..63) rather
// than raw bit masks, which keeps hand-written files readable. Weights
// are non-negative integers.
//
// # Shot Format
//
// A shot batch lists one syndrome per shot, either as detection event
// indices or as a bit string over all detectors:
//
//	{
//	  "shots": [
//	    {"detectors": [0, 3]},
//	    {"bits": "10010"}
//	  ]
//	}
//
// # Result Format
//
// Results mirror [blossom.Matching]: one entry per shot with the matched
// pairs, the predicted observable indices, and the total weight. A
// source2 of -1 denotes a match against the boundary.
//
// # Concurrency
//
// All functions create independent values; readers of the same file must
// synchronize externally only if they share an io.Reader.
package io
