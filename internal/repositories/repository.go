package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a lookup or update matches no document.
var ErrNotFound = errors.New("document not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	CreateMany(ctx context.Context, users []*models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	// FindAllByPoints returns every user, totalPoints descending, ties by _id ascending.
	FindAllByPoints(ctx context.Context) ([]*models.User, error)
	FindSample(ctx context.Context, limit int) ([]*models.User, error)
	// IncrementPoints atomically adds points and returns the updated user.
	IncrementPoints(ctx context.Context, id primitive.ObjectID, points int) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

// HistoryRepository defines the interface for the append-only award log
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.History) error
	// FindRecent returns at most limit entries, newest first.
	FindRecent(ctx context.Context, limit int) ([]*models.History, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.History, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or aborts together. When Transactional reports false,
// fn runs directly and each call commits on its own.
type Transactor interface {
	Transactional() bool
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
