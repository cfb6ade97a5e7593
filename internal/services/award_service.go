package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"github.com/ArowuTest/leaderboard-backend/pkg/apperrors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Award bounds, inclusive.
const (
	MinAward = 1
	MaxAward = 10
)

const msgUserNotFound = "User not found"

// AwardFunc draws the number of points for one claim.
type AwardFunc func() int

// RandomAward draws uniformly from [MinAward, MaxAward].
func RandomAward() int {
	return rand.Intn(MaxAward-MinAward+1) + MinAward
}

// AwardService applies point awards to users and records them in history.
type AwardService struct {
	userRepo    repositories.UserRepository
	historyRepo repositories.HistoryRepository
	tx          repositories.Transactor
	log         logrus.FieldLogger
	award       AwardFunc
	now         func() time.Time
}

func NewAwardService(
	userRepo repositories.UserRepository,
	historyRepo repositories.HistoryRepository,
	tx repositories.Transactor,
	log logrus.FieldLogger,
) *AwardService {
	return &AwardService{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		tx:          tx,
		log:         log,
		award:       RandomAward,
		now:         time.Now,
	}
}

// WithAwardFunc replaces the random source. Used by tests.
func (s *AwardService) WithAwardFunc(fn AwardFunc) *AwardService {
	s.award = fn
	return s
}

// WithClock replaces time.Now. Used by tests.
func (s *AwardService) WithClock(now func() time.Time) *AwardService {
	s.now = now
	return s
}

// Claim draws an award and adds it to the user's total with a single atomic increment.
//
// With a transactional store the increment and the history append commit
// together. Without one the increment commits first and is what the caller
// gets back; a failed append is logged and the award stands.
func (s *AwardService) Claim(ctx context.Context, userID string) (*models.ClaimResult, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(userID))
	if err != nil {
		return nil, apperrors.NotFound(msgUserNotFound)
	}

	points := s.award()
	// Mongo keeps millisecond precision; truncate so the response matches what is stored.
	timestamp := s.now().UTC().Truncate(time.Millisecond)

	var updated *models.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.IncrementPoints(ctx, id, points)
		if err != nil {
			return err
		}
		updated = user

		entry := &models.History{
			UserID:        id,
			AwardedPoints: points,
			Timestamp:     timestamp,
		}
		if err := s.historyRepo.Create(ctx, entry); err != nil {
			if s.tx.Transactional() {
				return err
			}
			s.log.WithFields(logrus.Fields{
				"userId":        id.Hex(),
				"awardedPoints": points,
				"error":         err.Error(),
			}).Warn("history append failed, award kept")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgUserNotFound)
		}
		return nil, apperrors.StoreUnavailable("failed to claim points", err)
	}

	s.log.WithFields(logrus.Fields{
		"userId":        id.Hex(),
		"awardedPoints": points,
		"totalPoints":   updated.TotalPoints,
	}).Info("points claimed")

	return &models.ClaimResult{
		User:          updated,
		AwardedPoints: points,
		Timestamp:     timestamp,
	}, nil
}
