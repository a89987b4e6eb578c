package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawCallDocument archives the upstream call payload exactly as fetched,
// before normalization. Stored in Mongo so the analyzed row in Postgres can
// stay lean; writes are best-effort and never block call processing.
type RawCallDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	AgentID   string             `bson:"agent_id" json:"agent_id"`
	CallID    string             `bson:"call_id" json:"call_id"`
	Payload   bson.Raw           `bson:"payload" json:"payload"`
	FetchedAt time.Time          `bson:"fetched_at" json:"fetched_at"`
}
