// Package mongo provides the MongoDB archive of completed calls.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/call-detail-billing/internal/domain/archive"
)

const (
	// DefaultArchiveCollectionName is used when no collection is configured
	DefaultArchiveCollectionName = "completed_calls"
)

// CallArchiveRepository implements the archive.Repository interface for MongoDB
type CallArchiveRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewCallArchiveRepository creates a new MongoDB archive repository
func NewCallArchiveRepository(logger *slog.Logger, db *mongo.Database, collectionName string) *CallArchiveRepository {
	if collectionName == "" {
		collectionName = DefaultArchiveCollectionName
	}
	return &CallArchiveRepository{
		collection: db.Collection(collectionName),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique call_id index the upsert relies on
func (r *CallArchiveRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "call_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("call_id_unique"),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, model); err != nil {
		r.logger.Error("Failed to create archive indexes", "error", err)
		return fmt.Errorf("failed to create archive indexes: %w", err)
	}
	return nil
}

// Upsert stores entry, replacing any earlier copy of the same call whose
// outbox id is not newer. Replaying an outbox message therefore leaves a
// single document. When a newer copy exists the filter misses, the upsert
// collides with the unique call_id index and ErrStaleEntry is returned.
func (r *CallArchiveRepository) Upsert(ctx context.Context, entry *archive.Entry) error {
	filter := bson.M{
		"call_id":   entry.CallID,
		"outbox_id": bson.M{"$lte": entry.OutboxID},
	}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, entry, opts); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Skipping stale archive entry",
				"call_id", entry.CallID,
				"outbox_id", entry.OutboxID)
			return archive.ErrStaleEntry{CallID: entry.CallID, OutboxID: entry.OutboxID}
		}
		r.logger.Error("Failed to archive call",
			"call_id", entry.CallID,
			"error", err)
		return fmt.Errorf("failed to archive call: %w", err)
	}

	return nil
}

// GetByCallID retrieves an archived call.
// Returns ErrEntryNotFound if the call has not been archived.
func (r *CallArchiveRepository) GetByCallID(ctx context.Context, callID int64) (*archive.Entry, error) {
	filter := bson.M{"call_id": callID}

	var entry archive.Entry
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, archive.ErrEntryNotFound{CallID: callID}
		}
		r.logger.Error("Failed to get archived call",
			"call_id", callID,
			"error", err)
		return nil, fmt.Errorf("failed to get archived call: %w", err)
	}

	return &entry, nil
}
