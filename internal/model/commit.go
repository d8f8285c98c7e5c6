package model

import "time"

// Commit is a commit of a project's linked repository, enriched with diff
// stats. (ProjectID, SHA) is unique.
type Commit struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	SHA          string    `json:"sha"`
	Message      string    `json:"message"`
	AuthorName   string    `json:"authorName"`
	AuthorEmail  string    `json:"authorEmail"`
	CommitDate   time.Time `json:"commitDate"`
	URL          string    `json:"url"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	FilesChanged int       `json:"filesChanged"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ShortSHA returns the 7-character abbreviated hash.
func (c *Commit) ShortSHA() string {
	if len(c.SHA) <= 7 {
		return c.SHA
	}
	return c.SHA[:7]
}

// CommitDay is one calendar day of commits with its running totals.
type CommitDay struct {
	Date           string   `json:"date"`        // 2006-01-02
	DisplayDate    string   `json:"displayDate"` // Monday, January 2, 2006
	Commits        []Commit `json:"commits"`
	TotalAdditions int      `json:"totalAdditions"`
	TotalDeletions int      `json:"totalDeletions"`
	TotalFiles     int      `json:"totalFiles"`
}

// ProjectStats summarizes every stored commit of one project.
type ProjectStats struct {
	TotalCommits   int        `json:"totalCommits"`
	TotalAdditions int        `json:"totalAdditions"`
	TotalDeletions int        `json:"totalDeletions"`
	TotalFiles     int        `json:"totalFiles"`
	FirstCommit    *time.Time `json:"firstCommit"`
	LastCommit     *time.Time `json:"lastCommit"`
}
