package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/callwatch/callwatch/internal/models"
	"github.com/callwatch/callwatch/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RawCallRepository interface {
	// Archive upserts the raw upstream payload for a call. JSON payloads are
	// converted to BSON documents before storage.
	Archive(ctx context.Context, userID, agentID, callID string, payload json.RawMessage) error
	Get(ctx context.Context, userID, callID string) (*models.RawCallDocument, error)
}

type rawCallRepo struct {
	col *mongo.Collection
}

func NewRawCallRepo(db *mongo.Database) RawCallRepository {
	return &rawCallRepo{col: db.Collection("raw_calls")}
}

func (r *rawCallRepo) Archive(ctx context.Context, userID, agentID, callID string, payload json.RawMessage) error {
	var doc bson.M
	if err := bson.UnmarshalExtJSON(payload, true, &doc); err != nil {
		return err
	}

	_, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID, "call_id": callID},
		bson.M{"$set": bson.M{
			"user_id":    userID,
			"agent_id":   agentID,
			"call_id":    callID,
			"payload":    doc,
			"fetched_at": time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *rawCallRepo) Get(ctx context.Context, userID, callID string) (*models.RawCallDocument, error) {
	var doc models.RawCallDocument
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "call_id": callID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &doc, err
}
