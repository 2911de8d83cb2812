// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/crm/internal/db"
)

const (
	testCompanyID  = "company-1"
	otherCompanyID = "company-2"
	testUserID     = "user-1"
)

// setupTestDB creates an in-memory database with the authoritative schema
// and two companies.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	seedCompany(t, testDB, testCompanyID, "Acme", "acme@example.com")
	seedCompany(t, testDB, otherCompanyID, "Globex", "globex@example.com")
	return testDB
}

// seedCompany inserts a test company and returns its ID.
func seedCompany(t *testing.T, testDB *sql.DB, id, name, email string) string {
	t.Helper()
	_, err := testDB.Exec(
		`INSERT INTO companies (id, name, email, plan, status, settings, created_at, updated_at)
		 VALUES (?, ?, ?, 'basic', 'active', '{"modules":{"clients":true}}', '2026-01-01T00:00:00.000000Z', '2026-01-01T00:00:00.000000Z')`,
		id, name, email)
	if err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}
	return id
}

// seedClient inserts a test client and returns its ID.
func seedClient(t *testing.T, testDB *sql.DB, id, companyID, name string) string {
	t.Helper()
	_, err := testDB.Exec(
		`INSERT INTO clients (id, company_id, type, name, status, created_by, created_at, updated_at)
		 VALUES (?, ?, 'company', ?, 'active', ?, '2026-01-01T00:00:00.000000Z', '2026-01-01T00:00:00.000000Z')`,
		id, companyID, name, testUserID)
	if err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}
	return id
}

// seedProposal inserts a test proposal and returns its ID.
func seedProposal(t *testing.T, testDB *sql.DB, id, companyID, clientID, status string) string {
	t.Helper()
	_, err := testDB.Exec(
		`INSERT INTO proposals (id, company_id, client_id, title, status, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, 'Proposal', ?, ?, '2026-01-01T00:00:00.000000Z', '2026-01-01T00:00:00.000000Z')`,
		id, companyID, clientID, status, testUserID)
	if err != nil {
		t.Fatalf("failed to seed proposal: %v", err)
	}
	return id
}

func strPtr(s string) *string { return &s }
