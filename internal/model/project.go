package model

import "time"

// ProjectStatus is the board column a project sits in.
type ProjectStatus string

const (
	StatusToDo       ProjectStatus = "to-do"
	StatusFuture     ProjectStatus = "future"
	StatusInProgress ProjectStatus = "in-progress"
	StatusDone       ProjectStatus = "done"
)

// ProjectStatuses lists every status in board order.
var ProjectStatuses = []ProjectStatus{StatusToDo, StatusFuture, StatusInProgress, StatusDone}

// Valid reports whether s is one of the four known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusFuture, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Project is owned by exactly one user. GitHubOwner and GitHubRepo are
// either both set (a linked repository) or both empty.
type Project struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	GitHubOwner string        `json:"githubOwner,omitempty"`
	GitHubRepo  string        `json:"githubRepo,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// HasRepository reports whether the project is linked to a repository.
func (p *Project) HasRepository() bool {
	return p.GitHubOwner != "" && p.GitHubRepo != ""
}

// ProjectsByStatus is the board view: every project bucketed by status.
type ProjectsByStatus struct {
	ToDo       []Project `json:"toDo"`
	Future     []Project `json:"future"`
	InProgress []Project `json:"inProgress"`
	Done       []Project `json:"done"`
}
