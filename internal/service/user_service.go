package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

// UserService covers profile edits and the premium flag.
type UserService struct {
	store storage.Store
}

// NewUserService creates a UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// UpdateProfile changes the username, email, and optionally the profile
// picture, rejecting values another user already holds.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, username, email, profilePicture string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return models.User{}, fmt.Errorf("username and email are required: %w", ErrValidation)
	}

	taken, err := s.store.UsernameTaken(ctx, username, userID)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, fmt.Errorf("username already taken: %w", storage.ErrAlreadyExists)
	}
	taken, err = s.store.EmailTaken(ctx, email, userID)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, fmt.Errorf("email already taken: %w", storage.ErrAlreadyExists)
	}

	return s.store.UpdateUserProfile(ctx, userID, username, email, profilePicture)
}

// Upgrade flips the premium flag for the user.
func (s *UserService) Upgrade(ctx context.Context, userID int64) error {
	if err := s.store.SetUserPremium(ctx, userID, true); err != nil {
		return err
	}
	slog.Info("user upgraded to premium", "user_id", userID)
	return nil
}
