// Package service holds the business rules of the agenda.
//
//	Handler (HTTP) / CLI  → Service (rules, orchestration) → Repository (SQL)
//	                                                       ↘ SourceControl (GitHub)
//
// Services accept plain Go values, never *http.Request, and return
// apperror values that the HTTP layer maps to status codes. Every
// dependency is an interface so tests can pass in-memory fakes.
package service

import (
	"context"
	"time"

	"github.com/sakif/devagenda/internal/github"
)

// SourceControl is the remote API the agenda reads commits from.
// *github.Client implements it.
type SourceControl interface {
	GetUser(ctx context.Context) (*github.User, error)
	ListRepositories(ctx context.Context) ([]github.Repository, error)
	ListCommits(ctx context.Context, owner, repo string, since, until time.Time) ([]github.Commit, error)
	GetCommitStats(ctx context.Context, owner, repo, sha string) (github.CommitStats, error)
}

var _ SourceControl = (*github.Client)(nil)

// SourceControlFactory builds a client authenticated with token.
type SourceControlFactory func(token string) SourceControl

// GitHubFactory returns a factory producing real GitHub clients that talk
// to baseURL.
func GitHubFactory(baseURL string, timeout time.Duration) SourceControlFactory {
	return func(token string) SourceControl {
		return github.NewClient(context.Background(), token,
			github.WithBaseURL(baseURL),
			github.WithTimeout(timeout),
		)
	}
}
