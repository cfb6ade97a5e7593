package services

import (
	"context"
	"strings"

	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/internal/repositories"
	"github.com/ArowuTest/leaderboard-backend/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

// AddUserInput carries a new user's fields. Points are assumed already
// validated as non-negative by the caller.
type AddUserInput struct {
	Name        string
	TotalPoints int
	ProfilePic  string
}

// UserService handles user registration
type UserService struct {
	userRepo repositories.UserRepository
	log      logrus.FieldLogger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, log logrus.FieldLogger) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      log,
	}
}

// AddUser persists a new user and returns it with its assigned ID.
func (s *UserService) AddUser(ctx context.Context, input AddUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidField("name", "is required")
	}

	pic := strings.TrimSpace(input.ProfilePic)
	if pic == "" {
		pic = models.DefaultProfilePic(name)
	}

	user := &models.User{
		Name:        name,
		TotalPoints: input.TotalPoints,
		ProfilePic:  pic,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.StoreUnavailable("failed to create user", err)
	}

	s.log.WithFields(logrus.Fields{"userId": user.ID.Hex(), "name": user.Name}).Info("user created")
	return user, nil
}
