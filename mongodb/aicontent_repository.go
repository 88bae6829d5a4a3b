package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pulsedash/pulsedash/domain"
	apperr "github.com/pulsedash/pulsedash/errors"
)

// AIContentRepository implements domain.AIContentRepository on MongoDB.
type AIContentRepository struct {
	db      *mongo.Database
	content *mongo.Collection
}

// NewAIContentRepository creates the repository and ensures its indexes.
func NewAIContentRepository(ctx context.Context, db *mongo.Database) (*AIContentRepository, error) {
	repo := &AIContentRepository{
		db:      db,
		content: db.Collection(AIContentCollection),
	}
	if err := repo.createIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to create AI content indexes")
	}
	return repo, nil
}

func (r *AIContentRepository) createIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "platform", Value: 1}}},
		{
			Keys:    bson.D{{Key: "publish_schedule.scheduled_date", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	if _, err := r.content.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes for AI content collection: %w", err)
	}
	return nil
}

// Create inserts a new draft.
func (r *AIContentRepository) Create(ctx context.Context, content *domain.AIContent) error {
	if content.ID == "" {
		content.ID = NewObjectID()
	}
	now := time.Now().UTC()
	if content.CreatedAt.IsZero() {
		content.CreatedAt = now
	}
	content.UpdatedAt = now
	if content.History == nil {
		content.History = []domain.ContentRevision{}
	}

	if _, err := r.content.InsertOne(ctx, content); err != nil {
		log.Error().Err(err).Str("userID", content.UserID).Msg("Error creating AI content in MongoDB")
		return err
	}
	return nil
}

// GetByIDForUser fetches one draft scoped to its owner.
func (r *AIContentRepository) GetByIDForUser(ctx context.Context, id, userID string) (*domain.AIContent, error) {
	var record domain.AIContent
	err := r.content.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error getting AI content from MongoDB")
		return nil, err
	}
	return &record, nil
}

// List returns one 1-indexed page of drafts newest-first and the total
// match count. The count runs against the same filter, independent of the
// page slice, so page-count reporting stays correct.
func (r *AIContentRepository) List(ctx context.Context, userID string, filter domain.AIContentFilter, page, limit int) ([]*domain.AIContent, int64, error) {
	query := bson.M{"user_id": userID}
	if filter.Platform != "" {
		query["platform"] = filter.Platform
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.content.CountDocuments(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Error counting AI content in MongoDB")
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))

	cursor, err := r.content.Find(ctx, query, findOptions)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Error listing AI content from MongoDB")
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []*domain.AIContent
	if err := cursor.All(ctx, &records); err != nil {
		log.Error().Err(err).Msg("Error decoding AI content from MongoDB")
		return nil, 0, err
	}
	return records, total, nil
}

// Replace stores the full record, guarded by a compare-and-swap on the
// version read by the caller. A concurrent writer that got there first
// changes the stored version, the filter stops matching, and the loser
// gets ErrConflict instead of silently dropping a history entry.
func (r *AIContentRepository) Replace(ctx context.Context, content *domain.AIContent, expectedVersion int) error {
	content.UpdatedAt = time.Now().UTC()

	result, err := r.content.ReplaceOne(ctx,
		bson.M{"_id": content.ID, "user_id": content.UserID, "version": expectedVersion},
		content,
	)
	if err != nil {
		log.Error().Err(err).Str("id", content.ID).Msg("Error replacing AI content in MongoDB")
		return err
	}
	if result.MatchedCount == 0 {
		// Either the record vanished or the version moved. Distinguish so
		// the caller can report a conflict rather than a 404.
		count, countErr := r.content.CountDocuments(ctx, bson.M{"_id": content.ID, "user_id": content.UserID})
		if countErr == nil && count > 0 {
			return apperr.ErrConflict
		}
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes the draft if it belongs to userID.
func (r *AIContentRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.content.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting AI content from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ domain.AIContentRepository = (*AIContentRepository)(nil)
