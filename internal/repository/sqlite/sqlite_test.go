package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/sakif/devagenda/internal/model"
)

// newTestDB returns a migrated in-memory database that is closed when the
// test ends. Each call gets its own isolated database.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, id string) *model.User {
	t.Helper()
	u, err := db.GetOrCreateUser(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

func createTestProject(t *testing.T, db *DB, userID, name string, status model.ProjectStatus) *model.Project {
	t.Helper()
	p := &model.Project{UserID: userID, Name: name, Status: status}
	if err := db.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// fixedClock pins the package clock for the duration of the test.
func fixedClock(t *testing.T, at time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = old })
}

func TestMigrations(t *testing.T) {
	db := newTestDB(t)

	version, dirty, ok, err := db.MigrationVersion()
	if err != nil {
		t.Fatalf("MigrationVersion() error = %v", err)
	}
	if !ok || dirty || version != 1 {
		t.Errorf("MigrationVersion() = (%d, dirty=%v, ok=%v), want (1, false, true)", version, dirty, ok)
	}

	// A second up is a no-op, not an error.
	if err := db.MigrateUp(); err != nil {
		t.Fatalf("second MigrateUp() error = %v", err)
	}

	if err := db.MigrateDown(); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}
	if _, _, ok, err := db.MigrationVersion(); err != nil || ok {
		t.Errorf("after down: ok=%v err=%v, want no version", ok, err)
	}

	if err := db.MigrateUp(); err != nil {
		t.Fatalf("MigrateUp() after down error = %v", err)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	in := time.Date(2024, 3, 11, 4, 30, 0, 123, loc)

	got, err := parseTime(formatTime(in))
	if err != nil {
		t.Fatalf("parseTime() error = %v", err)
	}
	if !got.Equal(in) {
		t.Errorf("round trip = %v, want %v", got, in)
	}
	if formatTime(in) != "2024-03-10T23:30:00.000000123Z" {
		t.Errorf("formatTime() = %q", formatTime(in))
	}
}
