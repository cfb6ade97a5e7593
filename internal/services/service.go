package services

import (
	"context"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
)

// Claimer awards random points to a user.
type Claimer interface {
	Claim(ctx context.Context, userID string) (*models.ClaimResult, error)
}

// Leaderboard serves the read-only projections.
type Leaderboard interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListRecentHistory(ctx context.Context, limit int) ([]*models.HistoryView, error)
	Debug(ctx context.Context) (*models.DebugResponse, error)
}

// Registrar creates users.
type Registrar interface {
	AddUser(ctx context.Context, input AddUserInput) (*models.User, error)
}

// Seeder resets and seeds the store.
type Seeder interface {
	EnsureSeeded(ctx context.Context) (bool, error)
	Reset(ctx context.Context) error
}

var (
	_ Claimer     = (*AwardService)(nil)
	_ Leaderboard = (*LeaderboardService)(nil)
	_ Registrar   = (*UserService)(nil)
	_ Seeder      = (*SeedService)(nil)
)
