package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

const (
	MaxProjectNameLength        = 100
	MaxProjectDescriptionLength = 2000
)

// ProjectService manages a user's projects. Every lookup is scoped to the
// owner; someone else's project is reported as not found.
type ProjectService struct {
	repo   repository.ProjectRepository
	logger *slog.Logger
}

func NewProjectService(repo repository.ProjectRepository, logger *slog.Logger) *ProjectService {
	return &ProjectService{repo: repo, logger: logger}
}

// ProjectInput carries the fields of a new project. An empty Status means
// to-do.
type ProjectInput struct {
	Name        string
	Description string
	Status      model.ProjectStatus
	GitHubOwner string
	GitHubRepo  string
}

// ProjectPatch is a partial update; nil fields are left unchanged. Setting
// both GitHubOwner and GitHubRepo to "" unlinks the repository.
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *model.ProjectStatus
	GitHubOwner *string
	GitHubRepo  *string
}

func (s *ProjectService) Create(ctx context.Context, userID string, in ProjectInput) (*model.Project, error) {
	p := &model.Project{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
		GitHubOwner: strings.TrimSpace(in.GitHubOwner),
		GitHubRepo:  strings.TrimSpace(in.GitHubRepo),
	}
	if p.Status == "" {
		p.Status = model.StatusToDo
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		s.logger.Error("failed to create project",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created",
		slog.String("id", p.ID),
		slog.String("name", p.Name),
	)
	return p, nil
}

func (s *ProjectService) Get(ctx context.Context, userID, id string) (*model.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "project id is required")
	}
	return s.repo.GetProject(ctx, userID, id)
}

// List returns the user's projects, newest first, optionally only those
// with status.
func (s *ProjectService) List(ctx context.Context, userID string, status model.ProjectStatus) ([]model.Project, error) {
	if status != "" && !status.Valid() {
		return nil, invalidStatus()
	}
	projects, err := s.repo.ListProjects(ctx, userID, repository.ProjectFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// ByStatus buckets every project of the user into the four board columns.
// Empty columns are empty slices, never nil.
func (s *ProjectService) ByStatus(ctx context.Context, userID string) (*model.ProjectsByStatus, error) {
	projects, err := s.List(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	board := &model.ProjectsByStatus{
		ToDo:       []model.Project{},
		Future:     []model.Project{},
		InProgress: []model.Project{},
		Done:       []model.Project{},
	}
	for _, p := range projects {
		switch p.Status {
		case model.StatusToDo:
			board.ToDo = append(board.ToDo, p)
		case model.StatusFuture:
			board.Future = append(board.Future, p)
		case model.StatusInProgress:
			board.InProgress = append(board.InProgress, p)
		case model.StatusDone:
			board.Done = append(board.Done, p)
		}
	}
	return board, nil
}

// Update applies patch to the project after re-validating the result.
func (s *ProjectService) Update(ctx context.Context, userID, id string, patch ProjectPatch) (*model.Project, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.GitHubOwner != nil {
		p.GitHubOwner = strings.TrimSpace(*patch.GitHubOwner)
	}
	if patch.GitHubRepo != nil {
		p.GitHubRepo = strings.TrimSpace(*patch.GitHubRepo)
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.logger.Info("project updated", slog.String("id", p.ID))
	return p, nil
}

// Delete removes the project together with its commits.
func (s *ProjectService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "project id is required")
	}
	if err := s.repo.DeleteProject(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("project deleted", slog.String("id", id))
	return nil
}

func validateProject(p *model.Project) error {
	if p.Name == "" {
		return apperror.ValidationFailed("name", "project name is required")
	}
	if len(p.Name) > MaxProjectNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("project name must be %d characters or less", MaxProjectNameLength))
	}
	if len(p.Description) > MaxProjectDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxProjectDescriptionLength))
	}
	if !p.Status.Valid() {
		return invalidStatus()
	}
	if (p.GitHubOwner == "") != (p.GitHubRepo == "") {
		return apperror.ValidationFailed("githubRepo", "githubOwner and githubRepo must be set together")
	}
	return nil
}

func invalidStatus() error {
	return apperror.ValidationFailed("status", "status must be one of to-do, future, in-progress, done")
}
