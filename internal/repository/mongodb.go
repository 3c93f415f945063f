package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	logsCollection = "logs"
	logsTTLIndex   = "logs_ttl"
)

// MongoOption adjusts the client options used by OpenMongoDB.
type MongoOption func(*options.ClientOptions)

// WithPoolSize bounds the connection pool.
func WithPoolSize(minConns, maxConns uint64) MongoOption {
	return func(o *options.ClientOptions) {
		o.SetMinPoolSize(minConns).SetMaxPoolSize(maxConns)
	}
}

// WithTimeouts sets the connect and server selection timeouts.
func WithTimeouts(connect, selection time.Duration) MongoOption {
	return func(o *options.ClientOptions) {
		o.SetConnectTimeout(connect).SetServerSelectionTimeout(selection)
	}
}

// MongoDB is the request and audit log sink.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Logs     *mongo.Collection
}

// OpenMongoDB connects to uri, pings, and ensures the query indexes of the
// logs collection. The sink only takes batched inserts, so the default pool
// is small.
func OpenMongoDB(ctx context.Context, uri, database string, opts ...MongoOption) (*MongoDB, error) {
	co := options.Client().
		ApplyURI(uri).
		SetMinPoolSize(1).
		SetMaxPoolSize(10).
		SetMaxConnIdleTime(10 * time.Minute).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetCompressors([]string{"zstd", "snappy", "zlib"}).
		SetRetryWrites(true)
	for _, opt := range opts {
		opt(co)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, co)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	m := &MongoDB{Client: client, Database: db, Logs: db.Collection(logsCollection)}

	_, err = m.Logs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "request_id", Value: 1}}, Options: options.Index().SetName("logs_request")},
		{Keys: bson.D{{Key: "action_type", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("logs_action")},
		{Keys: bson.D{{Key: "truck", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("logs_truck")},
		{Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("logs_session")},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create log indexes: %w", err)
	}
	return m, nil
}

// SetLogsTTL expires log entries ttl after their timestamp. An existing TTL
// index is modified in place.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttl time.Duration) error {
	seconds := int32(ttl / time.Second)
	if seconds <= 0 {
		return fmt.Errorf("logs ttl must be at least one second, got %s", ttl)
	}

	_, err := m.Logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().SetName(logsTTLIndex).SetExpireAfterSeconds(seconds),
	})
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Name != "IndexOptionsConflict" {
		return err
	}

	return m.Database.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: logsCollection},
		{Key: "index", Value: bson.D{
			{Key: "name", Value: logsTTLIndex},
			{Key: "expireAfterSeconds", Value: seconds},
		}},
	}).Err()
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary within two seconds.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
