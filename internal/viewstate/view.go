package viewstate

import (
	"context"
	"sync"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/realtime"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// API is the part of the backend a view talks to.
type API interface {
	ClaimPoints(ctx context.Context, userID string) (*models.ClaimResult, error)
	FetchUsers(ctx context.Context) ([]*models.User, error)
	FetchHistory(ctx context.Context, limit int) ([]*models.HistoryView, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
}

// View is one open leaderboard screen: an API client, its cache, and its
// notifier endpoint.
type View struct {
	id          string
	api         API
	cache       *Cache
	notifier    *realtime.Notifier
	ownsNotif   bool
	unsubscribe func()
	log         logrus.FieldLogger

	mu        sync.Mutex
	lastAward int
}

// NewView subscribes to notifier right away; call Close to stop listening.
func NewView(api API, notifier *realtime.Notifier, log logrus.FieldLogger) *View {
	v := &View{
		id:       uuid.NewString(),
		api:      api,
		cache:    NewCache(),
		notifier: notifier,
		log:      log.WithField("component", "view"),
	}
	v.unsubscribe = notifier.Subscribe(v.handle)
	return v
}

// Open creates a view with its own notifier on hub. Close also closes that
// notifier.
func Open(api API, hub *realtime.Hub, log logrus.FieldLogger) *View {
	n := realtime.NewNotifier(hub, realtime.WithLogger(log.WithField("component", "notifier")))
	v := NewView(api, n, log)
	v.ownsNotif = true
	return v
}

// ID identifies the view as the origin of its announcements.
func (v *View) ID() string { return v.id }

func (v *View) Cache() *Cache { return v.cache }

// LastAward is the amount of the view's most recent successful claim.
func (v *View) LastAward() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastAward
}

// Refresh reloads users and history. On error the cache is left as it was.
func (v *View) Refresh(ctx context.Context) error {
	users, err := v.api.FetchUsers(ctx)
	if err != nil {
		v.log.WithError(err).Error("failed to fetch users")
		return err
	}
	history, err := v.api.FetchHistory(ctx, 0)
	if err != nil {
		v.log.WithError(err).Error("failed to fetch history")
		return err
	}
	v.cache.Load(users, history)
	return nil
}

// Claim claims points for userID, applies the award locally and announces
// it to the other views. It returns the awarded amount.
func (v *View) Claim(ctx context.Context, userID string) (int, error) {
	result, err := v.api.ClaimPoints(ctx, userID)
	if err != nil {
		v.log.WithError(err).WithField("userId", userID).Error("failed to claim points")
		return 0, err
	}

	award := Award{
		UserID:    result.User.ID.Hex(),
		Amount:    result.AwardedPoints,
		Timestamp: result.Timestamp,
	}
	v.cache.ApplyAward(award)

	v.mu.Lock()
	v.lastAward = award.Amount
	v.mu.Unlock()

	v.notifier.Publish(realtime.PointsAwarded{
		UserID:    award.UserID,
		Amount:    award.Amount,
		Timestamp: award.Timestamp,
		Origin:    v.id,
	})
	return award.Amount, nil
}

// AddUser creates a user and appends it to the cache.
func (v *View) AddUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	user, err := v.api.CreateUser(ctx, req)
	if err != nil {
		v.log.WithError(err).Error("failed to add user")
		return nil, err
	}
	v.cache.AddUser(user)
	return user, nil
}

// Close stops applying announcements from other views.
func (v *View) Close() {
	v.unsubscribe()
	if v.ownsNotif {
		v.notifier.Close()
	}
}

func (v *View) handle(msg realtime.Message) {
	switch m := msg.(type) {
	case realtime.PointsAwarded:
		if m.Origin == v.id {
			return
		}
		v.cache.ApplyAward(Award{UserID: m.UserID, Amount: m.Amount, Timestamp: m.Timestamp})
		if u, ok := v.cache.User(m.UserID); ok {
			v.log.WithFields(logrus.Fields{
				"userId":      m.UserID,
				"totalPoints": u.TotalPoints,
			}).Debug("applied award from another view")
		}
	default:
		v.log.WithField("type", msg.Type()).Debug("ignoring unknown message")
	}
}
