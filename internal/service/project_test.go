package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/devagenda/internal/apperror"
	"github.com/sakif/devagenda/internal/model"
)

func newTestProjectService() (*ProjectService, *fakeStore) {
	store := newFakeStore()
	return NewProjectService(store, testLogger()), store
}

func ptr[T any](v T) *T { return &v }

func TestCreateProject(t *testing.T) {
	svc, _ := newTestProjectService()

	p, err := svc.Create(context.Background(), "u1", ProjectInput{Name: "  Agenda  "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.Name != "Agenda" {
		t.Errorf("Name = %q, want trimmed", p.Name)
	}
	if p.Status != model.StatusToDo {
		t.Errorf("Status = %q, want default to-do", p.Status)
	}
	if p.UserID != "u1" || p.ID == "" {
		t.Errorf("Create() = %+v", p)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	svc, _ := newTestProjectService()

	tests := []struct {
		name  string
		input ProjectInput
		field string
	}{
		{"missing name", ProjectInput{Name: " "}, "name"},
		{"name too long", ProjectInput{Name: strings.Repeat("a", MaxProjectNameLength+1)}, "name"},
		{"unknown status", ProjectInput{Name: "x", Status: "someday"}, "status"},
		{"owner without repo", ProjectInput{Name: "x", GitHubOwner: "octocat"}, "githubRepo"},
		{"repo without owner", ProjectInput{Name: "x", GitHubRepo: "agenda"}, "githubRepo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "u1", tt.input)
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Create() error = %v, want validation error", err)
			}
			if appErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.field)
			}
		})
	}
}

func TestGetProject_ScopedToOwner(t *testing.T) {
	svc, _ := newTestProjectService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", ProjectInput{Name: "mine"})

	if _, err := svc.Get(ctx, "u2", p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() as other user error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, "u1", " "); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Get(blank id) error = %v, want ErrValidation", err)
	}
}

func TestByStatus(t *testing.T) {
	svc, _ := newTestProjectService()
	ctx := context.Background()
	svc.Create(ctx, "u1", ProjectInput{Name: "a", Status: model.StatusInProgress})
	svc.Create(ctx, "u1", ProjectInput{Name: "b", Status: model.StatusInProgress})
	svc.Create(ctx, "u1", ProjectInput{Name: "c", Status: model.StatusDone})
	svc.Create(ctx, "u2", ProjectInput{Name: "other", Status: model.StatusFuture})

	board, err := svc.ByStatus(ctx, "u1")
	if err != nil {
		t.Fatalf("ByStatus() error = %v", err)
	}
	if len(board.InProgress) != 2 || len(board.Done) != 1 {
		t.Errorf("ByStatus() inProgress=%d done=%d, want 2 and 1", len(board.InProgress), len(board.Done))
	}
	if board.ToDo == nil || board.Future == nil || len(board.Future) != 0 {
		t.Errorf("empty columns must be empty non-nil slices: %+v", board)
	}
}

func TestListProjects_InvalidStatus(t *testing.T) {
	svc, _ := newTestProjectService()

	if _, err := svc.List(context.Background(), "u1", "later"); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("List(bad status) error = %v, want ErrValidation", err)
	}
}

func TestUpdateProject_Partial(t *testing.T) {
	svc, _ := newTestProjectService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", ProjectInput{Name: "before", Description: "keep me"})

	got, err := svc.Update(ctx, "u1", p.ID, ProjectPatch{
		Status:      ptr(model.StatusInProgress),
		GitHubOwner: ptr("octocat"),
		GitHubRepo:  ptr("agenda"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Name != "before" || got.Description != "keep me" {
		t.Errorf("Update() touched unspecified fields: %+v", got)
	}
	if got.Status != model.StatusInProgress || !got.HasRepository() {
		t.Errorf("Update() = %+v", got)
	}

	_, err = svc.Update(ctx, "u1", p.ID, ProjectPatch{Name: ptr("")})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Update(empty name) error = %v, want ErrValidation", err)
	}

	_, err = svc.Update(ctx, "u1", p.ID, ProjectPatch{GitHubRepo: ptr("")})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Update(half repo) error = %v, want ErrValidation", err)
	}
}

func TestDeleteProject(t *testing.T) {
	svc, _ := newTestProjectService()
	ctx := context.Background()
	p, _ := svc.Create(ctx, "u1", ProjectInput{Name: "doomed"})

	if err := svc.Delete(ctx, "u2", p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() as other user error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "u1", p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, "u1", p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
