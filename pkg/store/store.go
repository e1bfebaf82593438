// Package store archives decode runs so past results can be listed and
// inspected later.
//
// A Run is one decoded batch: which graph, how many shots, the
// aggregate weight and cache statistics. The [Store] interface has a
// MongoDB-backed implementation for shared deployments and an in-memory
// one for tests and cache-less local use.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run is an archived decode run.
type Run struct {
	// ID is a UUID assigned when the run is saved.
	ID string `bson:"_id" json:"id"`

	GraphName string `bson:"graph_name" json:"graph_name"`
	GraphHash string `bson:"graph_hash" json:"graph_hash"`

	Shots       int   `bson:"shots" json:"shots"`
	CacheHits   int   `bson:"cache_hits" json:"cache_hits"`
	TotalWeight int64 `bson:"total_weight" json:"total_weight"`
	MaxGrowth   int64 `bson:"max_growth,omitempty" json:"max_growth,omitempty"`

	Duration  time.Duration `bson:"duration" json:"duration"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// Store persists decode runs.
type Store interface {
	// SaveRun archives a run. If run.ID is empty a new UUID is assigned;
	// the stored ID is returned.
	SaveRun(ctx context.Context, run *Run) (string, error)

	// GetRun fetches a run by ID. Returns an error with code
	// RUN_NOT_FOUND if no run has that ID.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns up to limit runs, newest first. A limit <= 0
	// means no limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// DeleteRun removes a run by ID. Deleting a missing run is not an
	// error.
	DeleteRun(ctx context.Context, id string) error

	// Close releases any connections held by the store.
	Close(ctx context.Context) error
}

// prepare fills in the ID and timestamp of a run about to be saved.
func prepare(run *Run) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
}
