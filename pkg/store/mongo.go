package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daypatu/ers-pymatching/pkg/cache"
	"github.com/daypatu/ers-pymatching/pkg/errors"
)

const runsCollection = "runs"

// MongoStore archives runs in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewMongoStore connects to MongoDB and returns a store backed by the
// "runs" collection of the given database.
//
// Connection failures are marked retryable so callers can use
// cache.RetryWithBackoff for transient outages.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb"))
	}

	return &MongoStore{
		client: client,
		runs:   client.Database(database).Collection(runsCollection),
	}, nil
}

// SaveRun archives a run.
func (s *MongoStore) SaveRun(ctx context.Context, run *Run) (string, error) {
	prepare(run)
	if _, err := s.runs.InsertOne(ctx, run); err != nil {
		return "", cache.Retryable(errors.Wrap(errors.ErrCodeStorage, err, "save run %s", run.ID))
	}
	return run.ID, nil
}

// GetRun fetches a run by ID.
func (s *MongoStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
	}
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeStorage, err, "get run %s", id))
	}
	return &run, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *MongoStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cur, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeStorage, err, "list runs"))
	}
	defer cur.Close(ctx)

	var runs []Run
	if err := cur.All(ctx, &runs); err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeStorage, err, "decode runs"))
	}
	return runs, nil
}

// DeleteRun removes a run by ID.
func (s *MongoStore) DeleteRun(ctx context.Context, id string) error {
	if _, err := s.runs.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return cache.Retryable(errors.Wrap(errors.ErrCodeStorage, err, "delete run %s", id))
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
