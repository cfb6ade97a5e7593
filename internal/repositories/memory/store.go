// Package memory is an in-process implementation of the repositories,
// used by tests and by STORE_DRIVER=memory for local runs without MongoDB.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds both collections behind one lock so every single operation is atomic.
// txMu orders operations against transactions: plain operations hold it
// shared, a transaction holds it exclusively for its whole run.
type Store struct {
	txMu    sync.RWMutex
	mu      sync.RWMutex
	users   map[primitive.ObjectID]*models.User
	order   []primitive.ObjectID
	history []*models.History
}

func NewStore() *Store {
	return &Store{
		users: make(map[primitive.ObjectID]*models.User),
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{store: s}
}

type txKey struct{}

// enter admits one repository operation. Operations running inside a
// transaction on this store already hold txMu and pass straight through.
func (s *Store) enter(ctx context.Context) func() {
	if owner, _ := ctx.Value(txKey{}).(*Store); owner == s {
		return func() {}
	}
	s.txMu.RLock()
	return s.txMu.RUnlock
}

type snapshot struct {
	users   map[primitive.ObjectID]models.User
	order   []primitive.ObjectID
	history []*models.History
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		users:   make(map[primitive.ObjectID]models.User, len(s.users)),
		order:   append([]primitive.ObjectID(nil), s.order...),
		history: append([]*models.History(nil), s.history...),
	}
	for id, u := range s.users {
		snap.users[id] = *u
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[primitive.ObjectID]*models.User, len(snap.users))
	for id, u := range snap.users {
		u := u
		s.users[id] = &u
	}
	s.order = snap.order
	s.history = snap.history
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyHistory(h *models.History) *models.History {
	c := *h
	return &c
}

func lessID(a, b primitive.ObjectID) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

func sortUsersByPoints(users []*models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].TotalPoints != users[j].TotalPoints {
			return users[i].TotalPoints > users[j].TotalPoints
		}
		return lessID(users[i].ID, users[j].ID)
	})
}
