// Package viewstate holds a view's local copy of the leaderboard and keeps it
// in step with the view's own claims and with awards announced by other views.
package viewstate

import (
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/google/uuid"
)

const (
	// LocalIDPrefix marks history entries created on the client.
	LocalIDPrefix = "local-"

	// MaxHistory bounds the cached history, the most the server returns in one fetch.
	MaxHistory = 100
)

// Award is one claim to fold into the cache.
type Award struct {
	UserID    string
	Amount    int
	Timestamp time.Time
}

// HistoryItem is a history row as a view displays it.
type HistoryItem struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	ProfilePic    string    `json:"profilePic"`
	AwardedPoints int       `json:"awardedPoints"`
	Timestamp     time.Time `json:"timestamp"`
}

type historyEntry struct {
	id        string
	userID    string
	amount    int
	timestamp time.Time
}

// Cache is safe for concurrent use. It does not detect divergence from the
// server; a Load replaces whatever drifted.
type Cache struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	order   []string
	history []historyEntry
}

func NewCache() *Cache {
	return &Cache{users: make(map[string]*models.User)}
}

// Load replaces the cache contents with a fresh fetch.
func (c *Cache) Load(users []*models.User, history []*models.HistoryView) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.users = make(map[string]*models.User, len(users))
	c.order = make([]string, 0, len(users))
	for _, u := range users {
		c.putLocked(u)
	}

	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}
	c.history = make([]historyEntry, 0, len(history))
	for _, h := range history {
		c.history = append(c.history, historyEntry{
			id:        h.ID.Hex(),
			userID:    h.UserID.Hex(),
			amount:    h.AwardedPoints,
			timestamp: h.Timestamp,
		})
	}
}

// AddUser appends user, or replaces it if the id is already cached.
func (c *Cache) AddUser(user *models.User) {
	if user == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(user)
}

func (c *Cache) putLocked(user *models.User) {
	id := user.ID.Hex()
	if _, ok := c.users[id]; !ok {
		c.order = append(c.order, id)
	}
	u := *user
	c.users[id] = &u
}

// ApplyAward adds the award to the cached user, if present, and prepends a
// history entry with a locally generated id.
func (c *Cache) ApplyAward(award Award) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u, ok := c.users[award.UserID]; ok {
		u.TotalPoints += award.Amount
	}

	entry := historyEntry{
		id:        LocalIDPrefix + uuid.NewString(),
		userID:    award.UserID,
		amount:    award.Amount,
		timestamp: award.Timestamp,
	}
	c.history = append([]historyEntry{entry}, c.history...)
	if len(c.history) > MaxHistory {
		c.history = c.history[:MaxHistory]
	}
}

// Users returns copies of the cached users, highest points first. Ties keep
// the order users were loaded or added in.
func (c *Cache) Users() []*models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*models.User, 0, len(c.order))
	for _, id := range c.order {
		u := *c.users[id]
		out = append(out, &u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPoints > out[j].TotalPoints
	})
	return out
}

// User returns a copy of one cached user.
func (c *Cache) User(id string) (*models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, ok := c.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

// History returns entries newest first with names resolved against the
// users cached right now.
func (c *Cache) History() []HistoryItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]HistoryItem, 0, len(c.history))
	for _, h := range c.history {
		item := HistoryItem{
			ID:            h.id,
			UserID:        h.userID,
			Name:          models.UnknownUserName,
			ProfilePic:    models.UnknownUserPic,
			AwardedPoints: h.amount,
			Timestamp:     h.timestamp,
		}
		if u, ok := c.users[h.userID]; ok {
			item.Name = u.Name
			item.ProfilePic = u.ProfilePic
		}
		out = append(out, item)
	}
	return out
}
