package model

import "time"

// DailyReflection is a journal entry for one (user, calendar day).
//
// CommitsCount and ProjectsWorked are captured when the row is created and
// are never recomputed; later syncs can make them drift from live totals.
type DailyReflection struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Date           string    `json:"reflectionDate"` // 2006-01-02
	CommitsCount   int       `json:"commitsCount"`
	ProjectsWorked int       `json:"projectsWorked"`
	Content        string    `json:"content"`
	Feeling        string    `json:"feeling"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ReflectionUpdate is a partial update; nil fields are left untouched.
type ReflectionUpdate struct {
	Content *string `json:"content"`
	Feeling *string `json:"feeling"`
}

// ProjectCommits groups one project's commits for the reflection view.
type ProjectCommits struct {
	Project Project  `json:"project"`
	Commits []Commit `json:"commits"`
}

// ReflectionWithCommits is the reflection plus a live view of the day.
// TotalCommits may differ from Reflection.CommitsCount.
type ReflectionWithCommits struct {
	Reflection       *DailyReflection `json:"reflection"`
	Commits          []Commit         `json:"commits"`
	CommitsByProject []ProjectCommits `json:"commitsByProject"`
	TotalCommits     int              `json:"totalCommits"`
	TotalProjects    int              `json:"totalProjects"`
}
