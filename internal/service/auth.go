package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/auth"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

// MaxUserIDLength bounds client-supplied user ids.
const MaxUserIDLength = 128

// AuthService establishes sessions for client-supplied user ids.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                                 ↘ TokenService (JWT)
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// AuthResult bundles the user and the issued session token so the handler
// can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Init gets or creates the user with id and issues a session token for it.
// Calling it repeatedly with the same id is safe and returns the same user.
func (s *AuthService) Init(ctx context.Context, userID string) (*AuthResult, error) {
	user, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("failed to generate token",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetOrCreate returns the user with userID, creating an empty profile on
// first contact.
func (s *AuthService) GetOrCreate(ctx context.Context, userID string) (*model.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.ValidationFailed("userId", "user id is required")
	}
	if len(userID) > MaxUserIDLength {
		return nil, apperror.ValidationFailed("userId",
			fmt.Sprintf("user id must be %d characters or less", MaxUserIDLength))
	}

	user, err := s.users.GetOrCreateUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get or create user",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("getting or creating user: %w", err)
	}
	return user, nil
}

// GetUserByID returns the user or apperror.ErrNotFound.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}
