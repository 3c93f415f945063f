package repository

import (
	"context"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogsRepository reads and writes the logs collection.
type LogsRepository struct {
	collection *mongo.Collection
}

// NewLogsRepository creates a new logs repository.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{collection: db.Logs}
}

// Insert stores entries, assigning ids and timestamps where missing. More
// than one entry goes out as a single unordered bulk write.
func (r *LogsRepository) Insert(ctx context.Context, entries ...*model.LogEntry) error {
	switch len(entries) {
	case 0:
		return nil
	case 1:
		stamp(entries[0])
		_, err := r.collection.InsertOne(ctx, entries[0])
		return err
	}

	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		stamp(e)
		docs[i] = e
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

func stamp(e *model.LogEntry) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
}

// Find returns matching entries, newest first, honouring Limit and Skip.
func (r *LogsRepository) Find(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "timestamp", Value: -1},
		{Key: "_id", Value: -1},
	})
	if opts.Limit > 0 {
		findOptions.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, logFilter(opts), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	entries := []model.LogEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of matching entries, ignoring Limit and Skip.
func (r *LogsRepository) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, logFilter(opts))
}

func logFilter(o model.LogQueryOptions) bson.M {
	filter := bson.M{}
	if o.RequestID != "" {
		filter["request_id"] = o.RequestID
	}
	if o.Level != "" {
		filter["level"] = o.Level
	}
	if o.ActionType != "" {
		filter["action_type"] = o.ActionType
	}
	if o.Truck != "" {
		filter["truck"] = o.Truck
	}
	if o.SessionID > 0 {
		filter["session_id"] = o.SessionID
	}
	if o.StartTime != nil || o.EndTime != nil {
		ts := bson.M{}
		if o.StartTime != nil {
			ts["$gte"] = *o.StartTime
		}
		if o.EndTime != nil {
			ts["$lte"] = *o.EndTime
		}
		filter["timestamp"] = ts
	}
	return filter
}
