package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/suar-net/hookmirror/internal/model"
	"github.com/suar-net/hookmirror/internal/repository"
)

const (
	defaultResponseTimeMin = 0
	defaultResponseTimeMax = 1000
)

var defaultResponseBody = json.RawMessage(`{"status":"success","message":"Default response"}`)

type userService struct {
	userRepo repository.IUserRepository
}

func NewUserService(userRepo repository.IUserRepository) IUserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, dto *model.DTOUserCreate) (*model.User, error) {
	if !validUsername(dto.Username) {
		return nil, ErrInvalidUsername
	}

	user := &model.User{
		Username:        dto.Username,
		CreatedAt:       time.Now().UTC(),
		DefaultResponse: defaultResponseBody,
		ResponseTimeMin: defaultResponseTimeMin,
		ResponseTimeMax: defaultResponseTimeMax,
	}
	if len(dto.DefaultResponse) > 0 {
		user.DefaultResponse = dto.DefaultResponse
	}
	if dto.ResponseTimeMin != nil {
		user.ResponseTimeMin = *dto.ResponseTimeMin
	}
	if dto.ResponseTimeMax != nil {
		user.ResponseTimeMax = *dto.ResponseTimeMax
	}
	clampDelayRange(user)

	err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("%w: failed to create user: %v", ErrStorageFailure, err)
	}

	return user, nil
}

func (s *userService) Update(ctx context.Context, username string, dto *model.DTOUserUpdate) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load user: %v", ErrStorageFailure, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// Apply only the fields present in the patch.
	if len(dto.DefaultResponse) > 0 {
		user.DefaultResponse = dto.DefaultResponse
	}
	if dto.ResponseTimeMin != nil {
		user.ResponseTimeMin = *dto.ResponseTimeMin
	}
	if dto.ResponseTimeMax != nil {
		user.ResponseTimeMax = *dto.ResponseTimeMax
	}
	clampDelayRange(user)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: failed to update user: %v", ErrStorageFailure, err)
	}

	return user, nil
}

// IsUsernameAvailable never errors: invalid names, taken names and storage
// failures all report as unavailable.
func (s *userService) IsUsernameAvailable(ctx context.Context, username string) bool {
	if !validUsername(username) {
		return false
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return false
	}
	return user == nil
}

func (s *userService) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load user: %v", ErrStorageFailure, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// clampDelayRange raises max up to min when the patch left the range inverted.
func clampDelayRange(user *model.User) {
	if user.ResponseTimeMin < 0 {
		user.ResponseTimeMin = 0
	}
	if user.ResponseTimeMax < user.ResponseTimeMin {
		user.ResponseTimeMax = user.ResponseTimeMin
	}
}

func validUsername(username string) bool {
	if username == "" {
		return false
	}
	for _, r := range username {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
