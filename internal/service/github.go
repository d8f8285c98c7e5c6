package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/auth"
	"github.com/sakif/devagenda/internal/github"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

// GitHubService links GitHub accounts to users and hands out clients
// authenticated as them. Tokens are sealed before they are stored.
type GitHubService struct {
	users     repository.UserRepository
	sealer    *auth.TokenSealer
	newClient SourceControlFactory
	logger    *slog.Logger
}

func NewGitHubService(users repository.UserRepository, sealer *auth.TokenSealer, newClient SourceControlFactory, logger *slog.Logger) *GitHubService {
	return &GitHubService{users: users, sealer: sealer, newClient: newClient, logger: logger}
}

// Connect verifies token against GET /user and links the account to
// userID. The display name falls back to username when the profile has
// none.
func (s *GitHubService) Connect(ctx context.Context, userID, token, username string) (*model.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperror.ValidationFailed("token", "GitHub token is required")
	}

	user, err := s.users.GetOrCreateUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	profile, err := s.newClient(token).GetUser(ctx)
	if err != nil {
		s.logger.Warn("github token verification failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upstream("github", err)
	}

	sealed, err := s.sealer.Seal(token)
	if err != nil {
		return nil, fmt.Errorf("sealing token: %w", err)
	}

	user.GitHubUsername = profile.Login
	user.GitHubToken = sealed
	user.Name = profile.Name
	if user.Name == "" {
		user.Name = strings.TrimSpace(username)
	}
	user.Email = profile.Email
	user.AvatarURL = profile.AvatarURL

	if err := s.users.LinkGitHub(ctx, user); err != nil {
		return nil, fmt.Errorf("linking github account: %w", err)
	}

	s.logger.Info("github account linked",
		slog.String("user_id", userID),
		slog.String("login", profile.Login),
	)
	return user, nil
}

// ClientFor returns a client authenticated with the user's linked token,
// or a validation error when no account is linked.
func (s *GitHubService) ClientFor(ctx context.Context, userID string) (SourceControl, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.GitHubConnected() {
		return nil, apperror.ValidationFailed("githubToken", "GitHub account not connected")
	}

	token, err := s.sealer.Open(user.GitHubToken)
	if err != nil {
		return nil, fmt.Errorf("opening stored token: %w", err)
	}
	return s.newClient(token), nil
}

// Repositories lists the linked account's repositories.
func (s *GitHubService) Repositories(ctx context.Context, userID string) ([]github.Repository, error) {
	client, err := s.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	repos, err := client.ListRepositories(ctx)
	if err != nil {
		return nil, apperror.Upstream("github", err)
	}
	return repos, nil
}

// Profile fetches the linked account's live GitHub profile.
func (s *GitHubService) Profile(ctx context.Context, userID string) (*github.User, error) {
	client, err := s.ClientFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, err := client.GetUser(ctx)
	if err != nil {
		return nil, apperror.Upstream("github", err)
	}
	return u, nil
}
