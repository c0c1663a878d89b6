package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoDoc mirrors the documents the durable store keeps, one per
// (task_id, simplified_domain) pair.
type mongoDoc struct {
	TaskID           string    `bson:"task_id"`
	SimplifiedDomain string    `bson:"simplified_domain"`
	URLs             []string  `bson:"urls"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

// MongoDurable is the durable half of the two-tier Storage contract. It
// merge-upserts: a write never removes a URL a previous crawl already
// recorded, per spec.md §5's set-union requirement.
type MongoDurable struct {
	coll *mongo.Collection
}

// NewMongoDurable returns a durable store backed by the given collection.
// Callers are expected to have already connected client and resolved the
// database/collection, matching how the rest of this codebase treats
// external clients as caller-owned.
func NewMongoDurable(client *mongo.Client, database, collection string) *MongoDurable {
	return &MongoDurable{coll: client.Database(database).Collection(collection)}
}

func (m *MongoDurable) save(ctx context.Context, taskID, simplifiedDomain string, urls []string) error {
	filter := bson.M{"task_id": taskID, "simplified_domain": simplifiedDomain}
	update := bson.M{
		"$addToSet": bson.M{"urls": bson.M{"$each": urls}},
		"$set":      bson.M{"updated_at": time.Now()},
		"$setOnInsert": bson.M{
			"task_id":           taskID,
			"simplified_domain": simplifiedDomain,
		},
	}
	_, err := m.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("storage: mongo upsert %s/%s: %w", taskID, simplifiedDomain, err)
	}
	return nil
}

func (m *MongoDurable) get(ctx context.Context, taskID, simplifiedDomain string) (*Record, error) {
	var doc mongoDoc
	filter := bson.M{"task_id": taskID, "simplified_domain": simplifiedDomain}
	err := m.coll.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: mongo find %s/%s: %w", taskID, simplifiedDomain, err)
	}
	return &Record{
		TaskID:           doc.TaskID,
		SimplifiedDomain: doc.SimplifiedDomain,
		URLs:             doc.URLs,
		UpdatedAt:        doc.UpdatedAt,
	}, nil
}

func (m *MongoDurable) Close() error { return nil }
