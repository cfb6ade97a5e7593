package services

import (
	"context"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"github.com/ArowuTest/leaderboard-backend/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100

	debugSampleSize = 5
)

// LeaderboardService serves read-only views of the store.
type LeaderboardService struct {
	userRepo     repositories.UserRepository
	historyRepo  repositories.HistoryRepository
	historyLimit int
}

func NewLeaderboardService(userRepo repositories.UserRepository, historyRepo repositories.HistoryRepository, historyLimit int) *LeaderboardService {
	if historyLimit <= 0 || historyLimit > MaxHistoryLimit {
		historyLimit = DefaultHistoryLimit
	}
	return &LeaderboardService{
		userRepo:     userRepo,
		historyRepo:  historyRepo,
		historyLimit: historyLimit,
	}
}

// ListUsers returns every user ranked by points.
func (s *LeaderboardService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.FindAllByPoints(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to list users", err)
	}
	return users, nil
}

// ListRecentHistory returns the newest awards with each user's current name and image.
// limit <= 0 selects the configured default; larger values are capped at MaxHistoryLimit.
func (s *LeaderboardService) ListRecentHistory(ctx context.Context, limit int) ([]*models.HistoryView, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries, err := s.historyRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to list history", err)
	}

	ids := make([]primitive.ObjectID, 0, len(entries))
	seen := make(map[primitive.ObjectID]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.UserID]; ok {
			continue
		}
		seen[entry.UserID] = struct{}{}
		ids = append(ids, entry.UserID)
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to resolve history users", err)
	}

	views := make([]*models.HistoryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, models.NewHistoryView(entry, users[entry.UserID]))
	}
	return views, nil
}

// Debug reports collection sizes and a few sample users.
func (s *LeaderboardService) Debug(ctx context.Context) (*models.DebugResponse, error) {
	userCount, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to count users", err)
	}
	historyCount, err := s.historyRepo.Count(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to count history", err)
	}
	sample, err := s.userRepo.FindSample(ctx, debugSampleSize)
	if err != nil {
		return nil, apperrors.StoreUnavailable("failed to sample users", err)
	}

	return &models.DebugResponse{
		UserCount:    userCount,
		HistoryCount: historyCount,
		SampleUsers:  sample,
	}, nil
}
