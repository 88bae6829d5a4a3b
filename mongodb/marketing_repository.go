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

// queryPageSize bounds every marketing data query.
const queryPageSize = 100

// MarketingDataRepository implements domain.MarketingDataRepository on MongoDB.
type MarketingDataRepository struct {
	db   *mongo.Database
	data *mongo.Collection
}

// NewMarketingDataRepository creates the repository and ensures its indexes.
func NewMarketingDataRepository(ctx context.Context, db *mongo.Database) (*MarketingDataRepository, error) {
	repo := &MarketingDataRepository{
		db:   db,
		data: db.Collection(MarketingDataCollection),
	}
	if err := repo.createIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to create marketing data indexes")
	}
	return repo, nil
}

func (r *MarketingDataRepository) createIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			// Compound index for the dashboard query path.
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "platform", Value: 1},
				{Key: "date", Value: 1},
			},
		},
	}
	if _, err := r.data.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes for marketing data collection: %w", err)
	}
	return nil
}

// Create inserts a new snapshot.
func (r *MarketingDataRepository) Create(ctx context.Context, data *domain.MarketingData) error {
	if data.ID == "" {
		data.ID = NewObjectID()
	}
	now := time.Now().UTC()
	if data.CreatedAt.IsZero() {
		data.CreatedAt = now
	}
	data.UpdatedAt = now

	if _, err := r.data.InsertOne(ctx, data); err != nil {
		log.Error().Err(err).Str("userID", data.UserID).Msg("Error creating marketing data in MongoDB")
		return err
	}
	return nil
}

// Query returns matching snapshots newest-first, bounded to 100 records.
func (r *MarketingDataRepository) Query(ctx context.Context, userID string, filter domain.MarketingDataFilter) ([]*domain.MarketingData, error) {
	query := bson.M{"user_id": userID}
	if filter.Platform != "" {
		query["platform"] = filter.Platform
	}
	if filter.DataType != "" {
		query["data_type"] = filter.DataType
	}
	if !filter.StartDate.IsZero() || !filter.EndDate.IsZero() {
		dateRange := bson.M{}
		if !filter.StartDate.IsZero() {
			dateRange["$gte"] = filter.StartDate
		}
		if !filter.EndDate.IsZero() {
			dateRange["$lte"] = filter.EndDate
		}
		query["date"] = dateRange
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(queryPageSize)

	cursor, err := r.data.Find(ctx, query, findOptions)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("Error querying marketing data from MongoDB")
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*domain.MarketingData
	if err := cursor.All(ctx, &records); err != nil {
		log.Error().Err(err).Msg("Error decoding marketing data from MongoDB")
		return nil, err
	}
	return records, nil
}

// Update applies a partial $set merge onto the record. The filter includes
// the owner so a foreign record is indistinguishable from a missing one.
func (r *MarketingDataRepository) Update(ctx context.Context, id, userID string, fields map[string]any) (*domain.MarketingData, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	var updated domain.MarketingData
	err := r.data.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("Error updating marketing data in MongoDB")
		return nil, err
	}
	return &updated, nil
}

// Delete removes the record if it belongs to userID.
func (r *MarketingDataRepository) Delete(ctx context.Context, id, userID string) error {
	result, err := r.data.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Error deleting marketing data from MongoDB")
		return err
	}
	if result.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ domain.MarketingDataRepository = (*MarketingDataRepository)(nil)
