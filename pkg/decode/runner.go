package decode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/daypatu/ers-pymatching/pkg/blossom"
	"github.com/daypatu/ers-pymatching/pkg/cache"
	graphio "github.com/daypatu/ers-pymatching/pkg/io"
	"github.com/daypatu/ers-pymatching/pkg/matchgraph"
	"github.com/daypatu/ers-pymatching/pkg/observability"
)

// Runner encapsulates decode execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store decode results. Multiple goroutines can safely use the same
// Runner on the same graph.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// LoadGraph reads a detector graph file and returns the graph, its name
// and its content hash. The hash identifies the graph in cache keys and
// API responses.
func (r *Runner) LoadGraph(ctx context.Context, path string) (*matchgraph.Graph, string, string, error) {
	g, name, err := graphio.ImportGraph(path)
	if err != nil {
		return nil, "", "", err
	}
	hash, err := GraphHash(g, name)
	if err != nil {
		return nil, "", "", err
	}

	observability.Decode().OnGraphLoad(ctx, name, g.NumNodes(), len(g.Edges()))
	r.Logger.Info("loaded graph",
		"name", name,
		"nodes", g.NumNodes(),
		"edges", len(g.Edges()),
		"boundary_edges", len(g.BoundaryEdges()))
	return g, name, hash, nil
}

// GraphHash computes the content hash of a graph, as used in cache keys.
func GraphHash(g *matchgraph.Graph, name string) (string, error) {
	data, err := graphio.MarshalGraph(g, name)
	if err != nil {
		return "", fmt.Errorf("hash graph: %w", err)
	}
	return cache.Hash(data), nil
}

// DecodeWithCacheInfo decodes one shot and reports whether the result
// came from the cache.
func (r *Runner) DecodeWithCacheInfo(ctx context.Context, g *matchgraph.Graph, graphHash string, detectionEvents []int, opts Options) (*blossom.Matching, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	cacheKey := r.Keyer.MatchingKey(graphHash, cache.MatchingKeyOpts{
		SyndromeHash: syndromeHash(detectionEvents),
		MaxGrowth:    opts.MaxGrowth,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var m blossom.Matching
			if err := json.Unmarshal(data, &m); err == nil {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				return &m, true, nil
			}
			// Corrupt entry, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, cacheKey)
	}

	observability.Decode().OnDecodeStart(ctx, graphHash, len(detectionEvents))
	start := time.Now()
	m, err := solve(g, detectionEvents, opts)
	observability.Decode().OnDecodeComplete(ctx, graphHash, weightOf(m), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		if data, err := json.Marshal(m); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLMatching)
			observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
		}
	}
	return m, false, nil
}

// Decode is a convenience wrapper that calls DecodeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Decode(ctx context.Context, g *matchgraph.Graph, graphHash string, detectionEvents []int, opts Options) (*blossom.Matching, error) {
	m, _, err := r.DecodeWithCacheInfo(ctx, g, graphHash, detectionEvents, opts)
	return m, err
}

// DecodeBatch decodes every shot in order and aggregates statistics.
// It stops at the first shot that fails to decode.
func (r *Runner) DecodeBatch(ctx context.Context, g *matchgraph.Graph, graphHash string, shots [][]int, opts Options) (*BatchResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	observability.Decode().OnBatchStart(ctx, graphHash, len(shots))
	start := time.Now()

	batch := &BatchResult{
		Matchings: make([]blossom.Matching, 0, len(shots)),
	}
	var batchErr error
	for i, events := range shots {
		if err := ctx.Err(); err != nil {
			batchErr = err
			break
		}
		m, hit, err := r.DecodeWithCacheInfo(ctx, g, graphHash, events, opts)
		if err != nil {
			batchErr = fmt.Errorf("shot %d: %w", i, err)
			break
		}
		batch.Matchings = append(batch.Matchings, *m)
		batch.Stats.Shots++
		batch.Stats.TotalWeight += m.Weight
		if hit {
			batch.Stats.CacheHits++
		}
	}
	batch.Stats.Duration = time.Since(start)

	observability.Decode().OnBatchComplete(ctx, graphHash, batch.Stats.Shots, batch.Stats.Duration, batchErr)
	if batchErr != nil {
		return nil, batchErr
	}

	r.Logger.Info("decoded batch",
		"shots", batch.Stats.Shots,
		"cache_hits", batch.Stats.CacheHits,
		"total_weight", batch.Stats.TotalWeight,
		"duration", batch.Stats.Duration)
	return batch, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func solve(g *matchgraph.Graph, detectionEvents []int, opts Options) (*blossom.Matching, error) {
	s, err := blossom.NewSolver(g, blossom.Options{MaxGrowth: opts.MaxGrowth})
	if err != nil {
		return nil, err
	}
	return s.Solve(detectionEvents)
}

// syndromeHash canonicalizes a detection event list for cache keys.
// Events are sorted first; the solver sorts them too, so permutations of
// the same syndrome share a cache entry.
func syndromeHash(detectionEvents []int) string {
	sorted := append([]int(nil), detectionEvents...)
	slices.Sort(sorted)

	var buf bytes.Buffer
	for _, d := range sorted {
		buf.WriteString(strconv.Itoa(d))
		buf.WriteByte(',')
	}
	return cache.Hash(buf.Bytes())
}

func weightOf(m *blossom.Matching) int64 {
	if m == nil {
		return 0
	}
	return m.Weight
}
