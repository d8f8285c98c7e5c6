// Package repository declares the storage contracts the services depend on.
// The only implementation lives in the sqlite subpackage; services are tested
// against hand-written fakes.
package repository

import (
	"context"
	"time"

	"github.com/sakif/devagenda/internal/model"
)

type UserRepository interface {
	// GetOrCreateUser returns the user with id, inserting an empty profile
	// first when none exists. Concurrent first calls yield one row.
	GetOrCreateUser(ctx context.Context, id string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// LinkGitHub overwrites the GitHub fields of the user. The token is
	// already sealed.
	LinkGitHub(ctx context.Context, user *model.User) error
}

// ProjectFilter narrows ListProjects. A zero Status matches every status.
type ProjectFilter struct {
	Status model.ProjectStatus
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *model.Project) error
	// GetProject returns the project only if it belongs to userID.
	GetProject(ctx context.Context, userID, id string) (*model.Project, error)
	// ListProjects returns the user's projects, newest first.
	ListProjects(ctx context.Context, userID string, filter ProjectFilter) ([]model.Project, error)
	UpdateProject(ctx context.Context, project *model.Project) error
	// DeleteProject removes the project and, by cascade, its commits.
	DeleteProject(ctx context.Context, userID, id string) error
}

// CommitFilter narrows ListCommits. Zero From or To leaves that side open;
// an empty ProjectIDs matches nothing.
type CommitFilter struct {
	ProjectIDs []string
	From       time.Time
	To         time.Time
}

type CommitRepository interface {
	// UpsertCommits inserts or refreshes commits keyed by (ProjectID, SHA)
	// in a single transaction and returns how many were written.
	UpsertCommits(ctx context.Context, commits []model.Commit) (int, error)
	// ListCommits returns matching commits, newest first.
	ListCommits(ctx context.Context, filter CommitFilter) ([]model.Commit, error)
}

type ReflectionRepository interface {
	GetReflection(ctx context.Context, userID, date string) (*model.DailyReflection, error)
	// CreateReflection inserts r. If a reflection for (UserID, Date) already
	// exists the stored one is loaded into r instead and created is false.
	CreateReflection(ctx context.Context, r *model.DailyReflection) (created bool, err error)
	UpdateReflection(ctx context.Context, userID, date string, upd model.ReflectionUpdate) (*model.DailyReflection, error)
}

// ReportFilter narrows ListReports. Zero fields match everything.
type ReportFilter struct {
	Type      model.ReportType
	ProjectID string
}

type ReportRepository interface {
	CreateReport(ctx context.Context, report *model.Report) error
	// ListReports returns the user's reports, newest first.
	ListReports(ctx context.Context, userID string, filter ReportFilter) ([]model.Report, error)
	GetReport(ctx context.Context, userID, id string) (*model.Report, error)
}
