package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/savetogether/backend/internal/auth"
	"github.com/savetogether/backend/internal/models"
	"github.com/savetogether/backend/internal/storage"
)

// AuthService handles registration and the two sign-in paths.
type AuthService struct {
	store  storage.Store
	tokens *auth.TokenManager
	google auth.GoogleVerifier
}

// NewAuthService constructs the service. google may be nil when OAuth is
// not configured; GoogleLogin then fails cleanly.
func NewAuthService(store storage.Store, tokens *auth.TokenManager, google auth.GoogleVerifier) *AuthService {
	return &AuthService{store: store, tokens: tokens, google: google}
}

// Register creates a password-backed account.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return models.User{}, fmt.Errorf("username and email are required: %w", ErrValidation)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return models.User{}, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	created, err := s.store.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return models.User{}, err
	}

	slog.Info("user registered", "user_id", created.ID, "username", created.Username)
	return created, nil
}

// Login verifies the identifier (username or email) and password and
// issues a session token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (models.User, string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return models.User{}, "", fmt.Errorf("identifier and password are required: %w", ErrValidation)
	}

	user, err := s.store.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, "", auth.ErrInvalidCredentials
		}
		return models.User{}, "", err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return models.User{}, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// GoogleLogin exchanges the authorization code, links or creates the
// account, and issues a session token. First-time Google users get a
// unique username derived from their profile name.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (models.User, string, error) {
	if s.google == nil {
		return models.User{}, "", fmt.Errorf("google sign-in is not configured: %w", ErrValidation)
	}

	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		return models.User{}, "", fmt.Errorf("%v: %w", err, ErrValidation)
	}

	user, err := s.store.FindByGoogleIDOrEmail(ctx, profile.ID, profile.Email)
	switch {
	case err == nil:
		if err := s.store.LinkGoogleAccount(ctx, user.ID, profile.ID, profile.Email, profile.Picture); err != nil {
			return models.User{}, "", err
		}
		user, err = s.store.GetUser(ctx, user.ID)
		if err != nil {
			return models.User{}, "", err
		}
	case errors.Is(err, storage.ErrNotFound):
		user, err = s.createGoogleUser(ctx, profile)
		if err != nil {
			return models.User{}, "", err
		}
	default:
		return models.User{}, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return models.User{}, "", err
	}
	slog.Info("google login", "user_id", user.ID)
	return user, token, nil
}

func (s *AuthService) createGoogleUser(ctx context.Context, profile auth.GoogleProfile) (models.User, error) {
	base := strings.TrimSpace(profile.Name)
	if base == "" {
		base = strings.SplitN(profile.Email, "@", 2)[0]
	}

	username := base
	for counter := 1; ; counter++ {
		taken, err := s.store.UsernameTaken(ctx, username, 0)
		if err != nil {
			return models.User{}, err
		}
		if !taken {
			break
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}

	return s.store.CreateUser(ctx, models.User{
		Username:       username,
		Email:          profile.Email,
		GoogleID:       profile.ID,
		GoogleEmail:    profile.Email,
		ProfilePicture: profile.Picture,
	})
}
