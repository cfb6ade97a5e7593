package mongodb

import (
	"context"

	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.Transactor = (*Transactor)(nil)

// Transactor wraps multi-document transactions. They need a replica set or
// sharded cluster, so they are opt-in.
type Transactor struct {
	client  *mongo.Client
	enabled bool
}

func NewTransactor(client *mongo.Client, enabled bool) *Transactor {
	return &Transactor{client: client, enabled: enabled}
}

func (t *Transactor) Transactional() bool {
	return t.enabled
}

// WithinTransaction runs fn in a session transaction. Repository calls made
// with the session context join it.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
