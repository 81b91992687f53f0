package common

import (
	"context"
	"os"
	"testing"
	"time"

	"tablebook/pkg/client"
	"tablebook/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DefaultDatabaseName   = "tablebook_test"
	ConnectionTimeout     = 10 * time.Second
	RestaurantsCollection = "restaurants"
	SlotLocksCollection   = "slot_locks"
)

// MongoURI returns the connection string for integration tests, or skips the
// test when none is configured.
func MongoURI(t *testing.T) string {
	t.Helper()

	uri := os.Getenv("INTEGRATION_MONGO_URI")
	if uri == "" {
		uri = os.Getenv("MONGO_URI")
	}
	if uri == "" {
		t.Skip("set INTEGRATION_MONGO_URI or MONGO_URI to run integration tests")
	}
	return uri
}

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	if dbName == "" {
		dbName = DefaultDatabaseName
	}

	testLogger := logger.New(logger.Config{
		Service: "test",
		Level:   "debug",
	})

	prodClient := client.NewClient()
	prodClient.SetMongo(testLogger, mongoURI, ConnectionTimeout)

	return &MongoHelper{
		Client:   prodClient.Mongo,
		Database: prodClient.Mongo.Database(dbName),
		DBName:   dbName,
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

func (m *MongoHelper) CleanCollection(t *testing.T, collectionName string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := m.Database.Collection(collectionName).DeleteMany(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("failed to clean collection %s: %v", collectionName, err)
	}
	t.Logf("Cleaned %d documents from collection: %s", result.DeletedCount, collectionName)
}

func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}

func (m *MongoHelper) GetCollection(collectionName string) *mongo.Collection {
	return m.Database.Collection(collectionName)
}
