package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// connectTimeout bounds the initial connect + ping.
const connectTimeout = 10 * time.Second

var mongoClient *mongo.Client
var pokemonCollection *mongo.Collection

// ErrNotConnected is returned when the connection is used before Connect.
var ErrNotConnected = errors.New("database not connected")

// ConnectOption adjusts Connect.
type ConnectOption func(*connectOptions)

type connectOptions struct {
	backgroundIndexes bool
}

// WithoutBackgroundIndexes skips the index build Connect otherwise starts in
// the background. Use it when the caller runs EnsureIndexes itself.
func WithoutBackgroundIndexes() ConnectOption {
	return func(o *connectOptions) { o.backgroundIndexes = false }
}

// Connect initializes the process-wide MongoDB connection and verifies it with
// a ping. It must be called once before the HTTP server starts.
func Connect(uri, dbName, collectionName string, opts ...ConnectOption) error {
	o := connectOptions{backgroundIndexes: true}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("create MongoDB client: %w", err)
	}

	// Ping the primary server to verify the connection.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("connect to MongoDB (ping failed): %w", err)
	}

	log.Printf("Successfully connected and pinged MongoDB (database %q, collection %q).", dbName, collectionName)

	coll := client.Database(dbName).Collection(collectionName)
	mongoClient = client
	pokemonCollection = coll

	if o.backgroundIndexes {
		// The goroutine owns coll; Disconnect resetting the package state does not affect it.
		go func() {
			if err := EnsureIndexes(context.Background(), coll); err != nil {
				log.Printf("Warning: Could not create indexes on '%s': %v", collectionName, err)
			} else {
				log.Println("Unique index on 'id' field ensured.")
			}
		}()
	}

	return nil
}

// EnsureIndexes creates the indexes the pokemon collection relies on. The
// unique index on the application id is the only uniqueness guarantee for
// pokemons; handlers never check before inserting.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	if coll == nil {
		return ErrNotConnected
	}
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("id_unique"),
		},
		{
			Keys:    bson.D{{Key: "name.english", Value: 1}},
			Options: options.Index().SetName("name_english"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

// GetCollection returns the pokemon collection. It is nil before Connect.
func GetCollection() *mongo.Collection {
	return pokemonCollection
}

// Ping checks that the primary is reachable.
func Ping(ctx context.Context) error {
	if mongoClient == nil {
		return ErrNotConnected
	}
	return mongoClient.Ping(ctx, readpref.Primary())
}

// Disconnect closes the MongoDB connection. Call this on graceful shutdown.
func Disconnect(ctx context.Context) error {
	if mongoClient == nil {
		return nil
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect MongoDB: %w", err)
	}
	log.Println("MongoDB connection closed.")
	mongoClient = nil
	pokemonCollection = nil
	return nil
}
