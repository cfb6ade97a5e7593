package memory

import (
	"context"

	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
)

var _ repositories.Transactor = (*Transactor)(nil)

// Transactor emulates transactions by snapshotting the store and restoring
// it when fn fails. A transaction holds the store exclusively, so no other
// operation runs between the snapshot and the restore and none observes a
// partial write. Only calls made with the ctx passed to fn may touch the
// store from inside fn.
type Transactor struct {
	store   *Store
	enabled bool
}

func NewTransactor(store *Store, enabled bool) *Transactor {
	return &Transactor{store: store, enabled: enabled}
}

func (t *Transactor) Transactional() bool {
	return t.enabled
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == t.store {
		// nested: join the outer transaction
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, t.store)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}
