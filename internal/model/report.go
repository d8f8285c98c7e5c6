package model

import "time"

// ReportType is the period a report covers.
type ReportType string

const (
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

// Valid reports whether t is a known report type.
func (t ReportType) Valid() bool {
	return t == ReportWeekly || t == ReportMonthly
}

// Report is one generated report. Totals are duplicated from Content at the
// top level so they can be filtered and sorted without decoding the payload.
type Report struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	ProjectID      string        `json:"projectId,omitempty"`
	Type           ReportType    `json:"reportType"`
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate"`
	TotalCommits   int           `json:"totalCommits"`
	TotalAdditions int           `json:"totalAdditions"`
	TotalDeletions int           `json:"totalDeletions"`
	ProjectsCount  int           `json:"projectsCount"`
	Content        ReportContent `json:"content"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// ReportContent is the persisted payload. Its JSON shape is part of the
// public contract and must round-trip unchanged.
type ReportContent struct {
	Period      ReportPeriod     `json:"period"`
	Statistics  ReportStatistics `json:"statistics"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

type ReportPeriod struct {
	Start          string `json:"start"`
	End            string `json:"end"`
	StartFormatted string `json:"startFormatted"`
	EndFormatted   string `json:"endFormatted"`
}

type ReportStatistics struct {
	TotalCommits   int                 `json:"totalCommits"`
	TotalAdditions int                 `json:"totalAdditions"`
	TotalDeletions int                 `json:"totalDeletions"`
	ProjectsCount  int                 `json:"projectsCount"`
	Projects       []ProjectStatistics `json:"projects"`
}

type ProjectStatistics struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Status      ProjectStatus  `json:"status"`
	Commits     int            `json:"commits"`
	Additions   int            `json:"additions"`
	Deletions   int            `json:"deletions"`
	CommitsList []ReportCommit `json:"commitsList"`
}

// ReportCommit is a commit as listed in a report; SHA is the 7-char prefix.
type ReportCommit struct {
	SHA       string    `json:"sha"`
	Message   string    `json:"message"`
	Date      time.Time `json:"date"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
}
