package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "kv"

type mongoEntry struct {
	Key   string `bson:"key"`
	Value []byte `bson:"value"`
}

// MongoStore keeps one document per key in the kv collection.
type MongoStore struct {
	collection *mongo.Collection
}

// ConnectMongo establishes a connection to MongoDB and returns the named database
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(uri)
	mongoClient, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect failed: %w", err)
	}

	if err := mongoClient.Ping(ctx, nil); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return mongoClient.Database(database), nil
}

func NewMongoStore(database *mongo.Database) *MongoStore {
	return &MongoStore{collection: database.Collection(mongoCollection)}
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry mongoEntry
	err := s.collection.FindOne(ctx, bson.M{"key": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	filter := bson.M{"key": key}
	update := bson.M{"$set": bson.M{"value": value}}

	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Remove(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"key": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}
