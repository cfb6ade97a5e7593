package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories/memory"
	"github.com/ArowuTest/leaderboard-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("connection refused")

// brokenHistory fails every append.
type brokenHistory struct {
	repositories.HistoryRepository
}

func (brokenHistory) Create(context.Context, *models.History) error {
	return errStoreDown
}

// brokenUsers fails every call it overrides.
type brokenUsers struct {
	repositories.UserRepository
}

func (brokenUsers) IncrementPoints(context.Context, primitive.ObjectID, int) (*models.User, error) {
	return nil, errStoreDown
}

func (brokenUsers) FindAllByPoints(context.Context) ([]*models.User, error) {
	return nil, errStoreDown
}

func (brokenUsers) Count(context.Context) (int64, error) {
	return 0, errStoreDown
}

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	return memory.NewStore()
}

func createTestUser(t *testing.T, store *memory.Store, name string, points int) *models.User {
	t.Helper()
	user := &models.User{Name: name, TotalPoints: points, ProfilePic: models.DefaultProfilePic(name)}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func sequenceAward(values ...int) AwardFunc {
	i := 0
	return func() int {
		v := values[i%len(values)]
		i++
		return v
	}
}

var discardLog = logger.Discard()
