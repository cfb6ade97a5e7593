package memory

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.CreateMany(ctx, []*models.User{user})
}

func (r *UserRepository) CreateMany(ctx context.Context, users []*models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.store.enter(ctx)()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	for _, user := range users {
		if user.ID.IsZero() {
			user.ID = primitive.NewObjectID()
		}
		if _, exists := r.store.users[user.ID]; exists {
			return errors.New("duplicate key: " + user.ID.Hex())
		}
		user.CreatedAt = now
		user.UpdatedAt = now
		r.store.users[user.ID] = copyUser(user)
		r.store.order = append(r.store.order, user.ID)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.store.enter(ctx)()

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyUser(user), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.store.enter(ctx)()

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	found := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if user, ok := r.store.users[id]; ok {
			found[id] = copyUser(user)
		}
	}
	return found, nil
}

func (r *UserRepository) FindAllByPoints(ctx context.Context) ([]*models.User, error) {
	users, err := r.FindSample(ctx, 0)
	if err != nil {
		return nil, err
	}
	sortUsersByPoints(users)
	return users, nil
}

// FindSample returns users in insertion order; limit <= 0 means all.
func (r *UserRepository) FindSample(ctx context.Context, limit int) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.store.enter(ctx)()

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*models.User, 0, len(r.store.order))
	for _, id := range r.store.order {
		if limit > 0 && len(users) == limit {
			break
		}
		users = append(users, copyUser(r.store.users[id]))
	}
	return users, nil
}

func (r *UserRepository) IncrementPoints(ctx context.Context, id primitive.ObjectID, points int) (*models.User, error) {
	if points <= 0 {
		return nil, errors.New("points to add must be positive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.store.enter(ctx)()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	user.TotalPoints += points
	user.UpdatedAt = time.Now()
	return copyUser(user), nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer r.store.enter(ctx)()

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.users)), nil
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.store.enter(ctx)()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users = make(map[primitive.ObjectID]*models.User)
	r.store.order = nil
	return nil
}
