package config

import (
	"context"
	"errors"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDatabase returns the application database on the shared client.
func MongoDatabase() *mongo.Database {
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "callwatch"
	}
	return MongoClient.Database(dbName)
}

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// raw_calls holds one archived payload per (user, call); the archive
	// upserts on this pair.
	rawCalls := MongoDatabase().Collection("raw_calls")
	_, err := rawCalls.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "call_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_user_call").
				SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "agent_id", Value: 1}, {Key: "fetched_at", Value: -1}},
			Options: options.Index().SetName("by_user_agent_fetched"),
		},
	})
	return err
}
