package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults used when the corresponding MongoConfig fields are empty.
const (
	DefaultMongoDatabase   = "docnet"
	DefaultMongoCollection = "snapshots"
	DefaultMongoID         = "snapshot"
)

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string // connection string, e.g. "mongodb://localhost:27017"
	Database   string // database name (DefaultMongoDatabase if empty)
	Collection string // collection name (DefaultMongoCollection if empty)
	ID         string // document _id (DefaultMongoID if empty)
}

// Mongo stores the snapshot as a single document, upserted by _id.
// Multiple stores can share one collection by using distinct IDs.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
	id     string
}

// snapshotDoc is the stored document shape.
type snapshotDoc struct {
	ID   string `bson:"_id"`
	Data []byte `bson:"data"`
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := cfg.Database
	if db == "" {
		db = DefaultMongoDatabase
	}
	coll := cfg.Collection
	if coll == "" {
		coll = DefaultMongoCollection
	}
	id := cfg.ID
	if id == "" {
		id = DefaultMongoID
	}

	return &Mongo{
		client: client,
		coll:   client.Database(db).Collection(coll),
		id:     id,
	}, nil
}

// Load reads the snapshot document.
func (m *Mongo) Load(ctx context.Context) ([]byte, error) {
	var doc snapshotDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": m.id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.id, err)
	}
	return doc.Data, nil
}

// Store upserts the snapshot document.
func (m *Mongo) Store(ctx context.Context, data []byte) error {
	_, err := m.coll.ReplaceOne(ctx,
		bson.M{"_id": m.id},
		snapshotDoc{ID: m.id, Data: data},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", m.id, err)
	}
	return nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close() error {
	return m.client.Disconnect(context.Background())
}

// Ensure Mongo implements Backend.
var _ Backend = (*Mongo)(nil)
