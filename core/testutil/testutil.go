// Package testutil builds throwaway SQLite-backed databases for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"event-checkin/core/constants"
	"event-checkin/core/database"
)

// SetupTestDB creates a fresh, migrated SQLite database in a temporary directory.
// It is closed automatically when the test finishes.
func SetupTestDB(t *testing.T) database.Database {
	t.Helper()

	db, err := database.InitDB(database.DatabaseConfig{
		Driver: constants.DatabaseDriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "checkin_test.db"),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db database.Database, table string) int {
	t.Helper()
	var n int
	if err := db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// Clock is a manually advanced time source.
type Clock struct {
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Location returns the timezone used for check-in timestamps in tests.
func Location(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(constants.DefaultTimezone)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}
