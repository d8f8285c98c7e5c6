package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/devagenda/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		ID:             "r1",
		Type:           model.ReportWeekly,
		StartDate:      "2024-03-04",
		EndDate:        "2024-03-10",
		TotalCommits:   2,
		TotalAdditions: 15,
		TotalDeletions: 3,
		ProjectsCount:  1,
		Content: model.ReportContent{
			Period: model.ReportPeriod{
				Start:          "2024-03-04",
				End:            "2024-03-10",
				StartFormatted: "Monday, March 4, 2024",
				EndFormatted:   "Sunday, March 10, 2024",
			},
			Statistics: model.ReportStatistics{
				TotalCommits:  2,
				ProjectsCount: 1,
				Projects: []model.ProjectStatistics{{
					ID:        "p1",
					Name:      "Agenda",
					Commits:   2,
					Additions: 15,
					Deletions: 3,
					CommitsList: []model.ReportCommit{
						{SHA: "abc1234", Message: "add reports\n\nlong body"},
						{SHA: "def5678", Message: "fix sync"},
					},
				}},
			},
		},
	}
}

func TestReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, sampleReport(), FormatText))

	out := buf.String()
	assert.Contains(t, out, "Weekly report")
	assert.Contains(t, out, "Monday, March 4, 2024 to Sunday, March 10, 2024")
	assert.Contains(t, out, "Agenda")
	assert.Contains(t, out, "abc1234 add reports")
	assert.NotContains(t, out, "long body")
	assert.Contains(t, out, "2 commits across 1 projects, +15 / -3")
}

func TestReportTextEmptyScope(t *testing.T) {
	r := sampleReport()
	r.Type = model.ReportMonthly
	r.Content.Statistics.Projects = nil

	var buf bytes.Buffer
	require.NoError(t, Report(&buf, r, FormatText))
	assert.Contains(t, buf.String(), "Monthly report")
	assert.Contains(t, buf.String(), "No projects in scope.")
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Report(&buf, sampleReport(), FormatJSON))

	var got model.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, 15, got.TotalAdditions)
}

func TestReportUnknownFormat(t *testing.T) {
	err := Report(&bytes.Buffer{}, sampleReport(), "csv")
	assert.ErrorContains(t, err, "unknown format")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
