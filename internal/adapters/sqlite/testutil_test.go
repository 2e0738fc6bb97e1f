// Package sqlite_test contains integration tests for SQLite repositories.
//
// All test setup goes through setupTestDB, which loads db.GetSchemaSQL() so
// tests always run against the authoritative schema. Do not hardcode CREATE
// TABLE statements in test files.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/accord/internal/adapters/sqlite"
	"github.com/example/accord/internal/core/mou"
	"github.com/example/accord/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// testMoU builds a persistable MoU with sensible defaults.
func testMoU(id, ref string) *mou.MoU {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &mou.MoU{
		ID:              id,
		ReferenceNumber: ref,
		Title:           "Test Agreement",
		Type:            mou.TypeBilateral,
		Status:          mou.StatusDraft,
		Parties: []mou.Party{
			{PartyType: mou.PartyCountry, PartyID: "KEN", Role: mou.RolePrimary},
			{PartyType: mou.PartyOrganization, PartyID: "who", Role: mou.RoleSecondary},
		},
		CreatedBy: "user-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// seedMoU inserts a test MoU and returns its ID.
func seedMoU(t *testing.T, conn *sql.DB, id, ref string) string {
	t.Helper()
	repo := sqlite.NewMoURepository(conn)
	if err := repo.Create(context.Background(), testMoU(id, ref)); err != nil {
		t.Fatalf("failed to seed MoU: %v", err)
	}
	return id
}
