package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

// GetCollection returns a collection by name
func GetCollection(collectionName string) *mongo.Collection {
	return MongoDatabase.Collection(collectionName)
}

// extractDBName parses the database name from the URI, defaulting to "openbadger"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "openbadger"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:] // Trim leading '/'
	}
	return "openbadger"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI.
// Connection attempts are retried with exponential backoff so a restart
// during a brief database outage recovers on its own.
func ConnectMongoDB(uri string) error {
	connect := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}

		// Verify connection with a ping
		if err := client.Ping(ctx, nil); err != nil {
			client.Disconnect(ctx)
			return fmt.Errorf("failed to ping MongoDB: %w", err)
		}

		MongoClient = client
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 1 * time.Minute
	if err := backoff.Retry(connect, policy); err != nil {
		return err
	}

	dbName := extractDBName(uri)
	zap.L().Info("connected to MongoDB", zap.String("database", dbName))

	MongoDatabase = MongoClient.Database(dbName)
	return nil
}

// EnsureIndexes creates the unique indexes the engine's atomicity relies on:
// one user-credit record per email, one badge per shortname, and at most one
// badge instance per (user, badge) pair. The last one is the de-duplication
// gate for awarding.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	if _, err := GetCollection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	if _, err := GetCollection("badges").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "shortname", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create badges index: %w", err)
	}

	if _, err := GetCollection("badge_instances").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "badge", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create badge_instances index: %w", err)
	}

	return nil
}
