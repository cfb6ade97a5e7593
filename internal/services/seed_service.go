package services

import (
	"context"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"github.com/ArowuTest/leaderboard-backend/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

type rosterEntry struct {
	name   string
	points int
	pic    string
}

var initialRoster = []rosterEntry{
	{"Pavan", 950, "https://placehold.co/100x100/A088FF/FFFFFF?text=P"},
	{"Vardhan", 870, "https://placehold.co/100x100/50C878/FFFFFF?text=V"},
	{"Sriram", 780, "https://placehold.co/100x100/FF5733/FFFFFF?text=S"},
	{"Arya", 650, "https://placehold.co/100x100/0000FF/FFFFFF?text=A"},
	{"Siddhu", 590, "https://placehold.co/100x100/FFC0CB/000000?text=S"},
	{"Ashish", 420, "https://placehold.co/100x100/000000/FFFFFF?text=A"},
	{"Chaitanya", 310, "https://placehold.co/100x100/87CEEB/000000?text=C"},
	{"Koushik", 250, "https://placehold.co/100x100/FFA500/000000?text=K"},
	{"Prabhas", 180, "https://placehold.co/100x100/800080/FFFFFF?text=P"},
	{"Kohli", 120, "https://placehold.co/100x100/FFD700/000000?text=K"},
}

// InitialRoster returns fresh copies of the seed users.
func InitialRoster() []*models.User {
	users := make([]*models.User, 0, len(initialRoster))
	for _, entry := range initialRoster {
		users = append(users, &models.User{
			Name:        entry.name,
			TotalPoints: entry.points,
			ProfilePic:  entry.pic,
		})
	}
	return users
}

// SeedService owns the destructive reset and the first-boot seed.
type SeedService struct {
	userRepo    repositories.UserRepository
	historyRepo repositories.HistoryRepository
	tx          repositories.Transactor
	log         logrus.FieldLogger
}

func NewSeedService(
	userRepo repositories.UserRepository,
	historyRepo repositories.HistoryRepository,
	tx repositories.Transactor,
	log logrus.FieldLogger,
) *SeedService {
	return &SeedService{
		userRepo:    userRepo,
		historyRepo: historyRepo,
		tx:          tx,
		log:         log,
	}
}

// EnsureSeeded inserts the roster when there are no users yet and reports whether it did.
func (s *SeedService) EnsureSeeded(ctx context.Context) (bool, error) {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, apperrors.StoreUnavailable("failed to count users", err)
	}
	if count > 0 {
		s.log.WithField("userCount", count).Info("database already populated, skipping seed")
		return false, nil
	}

	if err := s.userRepo.CreateMany(ctx, InitialRoster()); err != nil {
		return false, apperrors.StoreUnavailable("failed to seed users", err)
	}
	s.log.WithField("userCount", len(initialRoster)).Info("initial users created")
	return true, nil
}

// Reset deletes every user and history entry and re-inserts the roster.
func (s *SeedService) Reset(ctx context.Context) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.historyRepo.DeleteAll(ctx); err != nil {
			return err
		}
		return s.userRepo.CreateMany(ctx, InitialRoster())
	})
	if err != nil {
		return apperrors.StoreUnavailable("failed to reset database", err)
	}

	s.log.Warn("database reset to initial roster")
	return nil
}
