// Package decode provides the cached decoding pipeline shared by the CLI
// and the API server.
//
// The pipeline has two stages:
//
//  1. Load: read a detector graph and compute its content hash
//  2. Decode: run the blossom solver on each shot, with per-shot
//     result caching keyed by graph hash, syndrome and options
//
// Create a Runner and decode a batch of shots:
//
//	runner := decode.NewRunner(cache, nil, logger)
//	g, name, hash, err := runner.LoadGraph(ctx, "surface-d3.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	batch, err := runner.DecodeBatch(ctx, g, hash, shots, decode.Options{})
package decode

import (
	"fmt"
	"time"

	"github.com/daypatu/ers-pymatching/pkg/blossom"
)

// Options controls a decode run. The zero value is valid and imposes no
// growth bound.
type Options struct {
	// MaxGrowth bounds the solver timeline in original weight units.
	// Zero means unbounded.
	MaxGrowth int64 `json:"max_growth,omitempty"`

	// Refresh bypasses cached results and recomputes every shot.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.MaxGrowth < 0 {
		return fmt.Errorf("max growth must be non-negative, got %d", o.MaxGrowth)
	}
	return nil
}

// Result is the outcome of decoding a single shot.
type Result struct {
	// Matching is the minimum-weight matching for the shot.
	Matching *blossom.Matching

	// CacheHit reports whether the matching came from the cache.
	CacheHit bool

	// Duration is the wall time spent on this shot, including cache
	// lookups.
	Duration time.Duration
}

// BatchResult is the outcome of decoding a batch of shots.
type BatchResult struct {
	// Matchings holds one matching per shot, in input order.
	Matchings []blossom.Matching

	// Stats aggregates timing and cache information.
	Stats BatchStats
}

// BatchStats aggregates statistics over a decoded batch.
type BatchStats struct {
	Shots       int
	CacheHits   int
	TotalWeight int64
	Duration    time.Duration
}
