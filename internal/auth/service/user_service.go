package service

import (
	"context"

	"crypto-pulse/internal/auth/repository"
	"crypto-pulse/internal/entity"
	"crypto-pulse/pkg/logger"
)

// allowedProfileFields is the allow-list for profile updates; anything else
// in the payload is silently dropped.
var allowedProfileFields = map[string]bool{
	"name":      true,
	"coins":     true,
	"questions": true,
}

// UserService manages user profiles.
type UserService interface {
	GetProfile(ctx context.Context, uid string) (*entity.UserProfile, error)
	// UpdateProfile applies only the allow-listed fields of the payload and
	// returns the updated profile.
	UpdateProfile(ctx context.Context, uid string, fields map[string]interface{}) (*entity.UserProfile, error)
	// AddCoin adds the coin id if absent and returns the updated set.
	AddCoin(ctx context.Context, uid string, coinID int64) ([]int64, error)
	// AddQuestion adds the question if absent and returns the updated set.
	AddQuestion(ctx context.Context, uid string, question string) ([]string, error)
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, log *logger.Logger) UserService {
	return &userService{users: users, logger: log}
}

type userService struct {
	users  repository.UserRepository
	logger *logger.Logger
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*entity.UserProfile, error) {
	return s.users.Get(ctx, uid)
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, fields map[string]interface{}) (*entity.UserProfile, error) {
	if _, err := s.users.Get(ctx, uid); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if allowedProfileFields[key] {
			updates[key] = value
		}
	}
	if err := s.users.UpdateFields(ctx, uid, updates); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, uid)
}

func (s *userService) AddCoin(ctx context.Context, uid string, coinID int64) ([]int64, error) {
	if _, err := s.users.Get(ctx, uid); err != nil {
		return nil, err
	}
	if err := s.users.AddCoin(ctx, uid, coinID); err != nil {
		return nil, err
	}

	updated, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	return updated.Coins, nil
}

func (s *userService) AddQuestion(ctx context.Context, uid string, question string) ([]string, error) {
	if _, err := s.users.Get(ctx, uid); err != nil {
		return nil, err
	}
	if err := s.users.AddQuestion(ctx, uid, question); err != nil {
		return nil, err
	}

	updated, err := s.users.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	return updated.Questions, nil
}
