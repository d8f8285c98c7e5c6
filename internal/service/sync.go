package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/github"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

const (
	DefaultSyncWindow  = 90 * 24 * time.Hour
	DefaultSyncWorkers = 4
)

// ClientProvider returns a source-control client acting as a user.
// *GitHubService implements it.
type ClientProvider interface {
	ClientFor(ctx context.Context, userID string) (SourceControl, error)
}

var _ ClientProvider = (*GitHubService)(nil)

// SyncService copies a project's recent commits from GitHub into the store.
type SyncService struct {
	projects repository.ProjectRepository
	commits  repository.CommitRepository
	clients  ClientProvider
	window   time.Duration
	workers  int
	now      func() time.Time
	logger   *slog.Logger
}

// NewSyncService uses the default window and pool size when window or
// workers is not positive.
func NewSyncService(
	projects repository.ProjectRepository,
	commits repository.CommitRepository,
	clients ClientProvider,
	window time.Duration,
	workers int,
	logger *slog.Logger,
) *SyncService {
	if window <= 0 {
		window = DefaultSyncWindow
	}
	if workers <= 0 {
		workers = DefaultSyncWorkers
	}
	return &SyncService{
		projects: projects,
		commits:  commits,
		clients:  clients,
		window:   window,
		workers:  workers,
		now:      time.Now,
		logger:   logger,
	}
}

// SyncProject syncs one of the user's projects with the user's linked
// GitHub account and returns the number of commits written.
func (s *SyncService) SyncProject(ctx context.Context, userID, projectID string) (int, error) {
	p, err := s.projects.GetProject(ctx, userID, projectID)
	if err != nil {
		return 0, err
	}
	if !p.HasRepository() {
		return 0, apperror.ValidationFailed("githubRepo", "project has no linked GitHub repository")
	}

	client, err := s.clients.ClientFor(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.SyncCommits(ctx, client, p)
}

// SyncCommits fetches the commits of p's repository from the sync window,
// enriches each with its diff stats and upserts them.
//
// A failed commit list aborts the sync. A failed stats fetch does not: that
// commit is stored with zero additions, deletions and files. Stats are
// fetched on a bounded pool whose workers never return an error, so one
// failure cannot cancel its siblings.
func (s *SyncService) SyncCommits(ctx context.Context, client SourceControl, p *model.Project) (int, error) {
	until := s.now()
	since := until.Add(-s.window)

	listed, err := client.ListCommits(ctx, p.GitHubOwner, p.GitHubRepo, since, until)
	if err != nil {
		s.logger.Error("failed to list commits",
			slog.String("project_id", p.ID),
			slog.String("repo", p.GitHubOwner+"/"+p.GitHubRepo),
			slog.String("error", err.Error()),
		)
		return 0, apperror.Upstream("github", err)
	}
	if len(listed) == 0 {
		return 0, nil
	}

	commits := make([]model.Commit, len(listed))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, c := range listed {
		g.Go(func() error {
			stats, err := client.GetCommitStats(ctx, p.GitHubOwner, p.GitHubRepo, c.SHA)
			if err != nil {
				s.logger.Warn("commit stats unavailable, recording zeros",
					slog.String("project_id", p.ID),
					slog.String("sha", c.SHA),
					slog.String("error", err.Error()),
				)
				stats = github.CommitStats{}
			}
			commits[i] = model.Commit{
				ProjectID:    p.ID,
				SHA:          c.SHA,
				Message:      c.Message,
				AuthorName:   c.AuthorName,
				AuthorEmail:  c.AuthorEmail,
				CommitDate:   c.Date,
				URL:          c.URL,
				Additions:    stats.Additions,
				Deletions:    stats.Deletions,
				FilesChanged: stats.FilesChanged,
			}
			return nil
		})
	}
	_ = g.Wait()

	n, err := s.commits.UpsertCommits(ctx, commits)
	if err != nil {
		return 0, fmt.Errorf("storing commits: %w", err)
	}

	s.logger.Info("project synced",
		slog.String("project_id", p.ID),
		slog.Int("commits", n),
	)
	return n, nil
}
