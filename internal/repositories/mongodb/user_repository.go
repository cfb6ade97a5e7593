package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

const usersCollection = "users"

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection(usersCollection),
	}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	prepareUser(user, time.Now())
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// CreateMany inserts users in one round trip
func (r *UserRepository) CreateMany(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(users))
	for _, user := range users {
		prepareUser(user, now)
		docs = append(docs, user)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func prepareUser(user *models.User, now time.Time) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByIDs loads the users referenced by ids; missing ids are simply absent from the map
func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	found := make(map[primitive.ObjectID]*models.User, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, user := range users {
		found[user.ID] = user
	}
	return found, nil
}

// FindAllByPoints retrieves all users ranked by points
func (r *UserRepository) FindAllByPoints(ctx context.Context) ([]*models.User, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "totalPoints", Value: -1},
		{Key: "_id", Value: 1},
	})
	return r.find(ctx, bson.M{}, findOptions)
}

// FindSample returns up to limit users in natural order
func (r *UserRepository) FindSample(ctx context.Context, limit int) ([]*models.User, error) {
	return r.find(ctx, bson.M{}, options.Find().SetLimit(int64(limit)))
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.User, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// IncrementPoints atomically increments the points for a user and returns the new document
func (r *UserRepository) IncrementPoints(ctx context.Context, id primitive.ObjectID, points int) (*models.User, error) {
	if points <= 0 {
		return nil, errors.New("points to add must be positive")
	}

	filter := bson.M{"_id": id}
	update := bson.M{
		"$inc": bson.M{"totalPoints": points},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Count returns the number of users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// DeleteAll removes every user
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	return err
}
