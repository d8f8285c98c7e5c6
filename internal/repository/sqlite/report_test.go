package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/model"
	"github.com/sakif/devagenda/internal/repository"
)

func newTestReport(userID, projectID string, typ model.ReportType) *model.Report {
	return &model.Report{
		UserID:       userID,
		ProjectID:    projectID,
		Type:         typ,
		StartDate:    "2024-03-11",
		EndDate:      "2024-03-17",
		TotalCommits: 2,
		Content: model.ReportContent{
			Period: model.ReportPeriod{Start: "2024-03-11", End: "2024-03-17"},
			Statistics: model.ReportStatistics{
				TotalCommits: 2,
				Projects: []model.ProjectStatistics{{
					ID: "p1", Name: "agenda", Commits: 2,
					CommitsList: []model.ReportCommit{{SHA: "abc1234", Message: "m", Date: time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)}},
				}},
			},
			GeneratedAt: time.Date(2024, 3, 18, 8, 0, 0, 0, time.UTC),
		},
	}
}

func TestCreateAndGetReport_ContentRoundTrips(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db, "u1")

	r := newTestReport("u1", "", model.ReportWeekly)
	if err := db.CreateReport(ctx, r); err != nil {
		t.Fatalf("CreateReport() error = %v", err)
	}

	got, err := db.GetReport(ctx, "u1", r.ID)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got.Type != model.ReportWeekly || got.TotalCommits != 2 {
		t.Errorf("GetReport() = %+v", got)
	}
	pc := got.Content.Statistics.Projects
	if len(pc) != 1 || pc[0].CommitsList[0].SHA != "abc1234" {
		t.Errorf("content did not round-trip: %+v", got.Content)
	}
	if !got.Content.GeneratedAt.Equal(r.Content.GeneratedAt) {
		t.Errorf("generatedAt = %v, want %v", got.Content.GeneratedAt, r.Content.GeneratedAt)
	}

	if _, err := db.GetReport(ctx, "someone-else", r.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetReport() as other user error = %v, want ErrNotFound", err)
	}
}

func TestListReports_FiltersAndOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	createTestUser(t, db, "u1")

	base := time.Date(2024, 3, 18, 8, 0, 0, 0, time.UTC)
	fixedClock(t, base)
	weekly := newTestReport("u1", "", model.ReportWeekly)
	db.CreateReport(ctx, weekly)
	fixedClock(t, base.Add(time.Minute))
	monthly := newTestReport("u1", "p1", model.ReportMonthly)
	db.CreateReport(ctx, monthly)

	all, err := db.ListReports(ctx, "u1", repository.ReportFilter{})
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(all) != 2 || all[0].ID != monthly.ID {
		t.Errorf("ListReports() should be newest first, got %d reports", len(all))
	}

	onlyWeekly, _ := db.ListReports(ctx, "u1", repository.ReportFilter{Type: model.ReportWeekly})
	if len(onlyWeekly) != 1 || onlyWeekly[0].ID != weekly.ID {
		t.Errorf("ListReports(weekly) = %d reports", len(onlyWeekly))
	}

	byProject, _ := db.ListReports(ctx, "u1", repository.ReportFilter{ProjectID: "p1"})
	if len(byProject) != 1 || byProject[0].ID != monthly.ID {
		t.Errorf("ListReports(project p1) = %d reports", len(byProject))
	}
}
