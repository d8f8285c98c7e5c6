// Package app is the composition root: it opens the store and builds every
// service from a Config. The HTTP server and the CLI commands share it.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/devagenda/internal/auth"
	"github.com/sakif/devagenda/internal/config"
	sqliteRepo "github.com/sakif/devagenda/internal/repository/sqlite"
	"github.com/sakif/devagenda/internal/service"
)

// githubTimeout bounds every call to the GitHub API.
const githubTimeout = 30 * time.Second

type App struct {
	Config config.Config
	Logger *slog.Logger
	DB     *sqliteRepo.DB

	Tokens      *auth.TokenService
	Auth        *service.AuthService
	GitHub      *service.GitHubService
	Projects    *service.ProjectService
	Commits     *service.CommitService
	Sync        *service.SyncService
	Reports     *service.ReportService
	Reflections *service.ReflectionService
}

// New opens the database at cfg.DBPath, applies pending migrations and
// wires the services. The caller owns the result and must Close it.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("app: JWT_SECRET is required")
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	sealer, err := auth.NewTokenSealer(cfg.TokenKey)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("app: opening database: %w", err)
	}

	loc := cfg.Location
	github := service.NewGitHubService(db, sealer, service.GitHubFactory(cfg.GitHub.APIURL, githubTimeout), logger)

	return &App{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Tokens:      tokens,
		Auth:        service.NewAuthService(db, tokens, logger),
		GitHub:      github,
		Projects:    service.NewProjectService(db, logger),
		Commits:     service.NewCommitService(db, db, loc, logger),
		Sync:        service.NewSyncService(db, db, github, cfg.GitHub.SyncWindow, cfg.GitHub.SyncWorkers, logger),
		Reports:     service.NewReportService(db, db, db, loc, logger),
		Reflections: service.NewReflectionService(db, db, db, loc, logger),
	}, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
