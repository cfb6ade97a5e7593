package mongodb

import (
	"context"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure HistoryRepository implements the interface
var _ repositories.HistoryRepository = (*HistoryRepository)(nil)

const historiesCollection = "histories"

// HistoryRepository handles MongoDB operations for History
type HistoryRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *mongo.Database) *HistoryRepository {
	return &HistoryRepository{
		collection: db.Collection(historiesCollection),
	}
}

// Create inserts a new history record
func (r *HistoryRepository) Create(ctx context.Context, entry *models.History) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindRecent returns the newest entries first
func (r *HistoryRepository) FindRecent(ctx context.Context, limit int) ([]*models.History, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, findOptions)
}

// FindByUserID finds all history entries for a specific user, newest first
func (r *HistoryRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.History, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return r.find(ctx, bson.M{"userId": userID}, findOptions)
}

func (r *HistoryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.History, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.History
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	// Return empty slice instead of nil if no documents found
	if entries == nil {
		entries = []*models.History{}
	}
	return entries, nil
}

// Count returns the number of history entries
func (r *HistoryRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// DeleteAll removes every history entry
func (r *HistoryRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
