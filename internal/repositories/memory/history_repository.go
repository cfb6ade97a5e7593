package memory

import (
	"context"
	"sort"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.HistoryRepository = (*HistoryRepository)(nil)

type HistoryRepository struct {
	store *Store
}

func (r *HistoryRepository) Create(ctx context.Context, entry *models.History) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.store.enter(ctx)()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.history = append(r.store.history, copyHistory(entry))
	return nil
}

func (r *HistoryRepository) FindRecent(ctx context.Context, limit int) ([]*models.History, error) {
	entries, err := r.filter(ctx, func(*models.History) bool { return true })
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *HistoryRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.History, error) {
	return r.filter(ctx, func(h *models.History) bool { return h.UserID == userID })
}

// filter returns matching entries newest first.
func (r *HistoryRepository) filter(ctx context.Context, keep func(*models.History) bool) ([]*models.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer r.store.enter(ctx)()

	r.store.mu.RLock()
	entries := make([]*models.History, 0, len(r.store.history))
	for _, h := range r.store.history {
		if keep(h) {
			entries = append(entries, copyHistory(h))
		}
	}
	r.store.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		}
		return lessID(entries[j].ID, entries[i].ID)
	})
	return entries, nil
}

func (r *HistoryRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	defer r.store.enter(ctx)()

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.history)), nil
}

func (r *HistoryRepository) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer r.store.enter(ctx)()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.history = nil
	return nil
}
