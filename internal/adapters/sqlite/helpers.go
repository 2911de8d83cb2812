// Package sqlite contains SQLite implementations of the secondary ports,
// used when the CRM runs against a local database instead of the hosted
// backend.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/crm/internal/db"
	"github.com/example/crm/internal/ports/secondary"
)

func timestamp(t time.Time) string {
	return t.UTC().Format(db.TimestampLayout)
}

type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func encodeJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	if string(data) == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeJSON(raw sql.NullString, v any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw.String), v)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, secondary.ErrNotFound)
}

// where accumulates AND-ed conditions.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) addIf(value, clause string) {
	if value != "" {
		w.add(clause, value)
	}
}

func (w *where) in(column string, values []string) {
	if len(values) == 0 {
		return
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	clause := column + " IN (" + marks + ")"
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	w.add(clause, args...)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// set accumulates the assignments of a partial UPDATE.
type set struct {
	assignments []string
	args        []any
}

func (s *set) add(column string, value any) {
	s.assignments = append(s.assignments, column+" = ?")
	s.args = append(s.args, value)
}

// optional assigns a nullable text column; "" stores NULL.
func (s *set) optional(column string, value *string) {
	if value != nil {
		s.add(column, nullString(*value))
	}
}

// required assigns a NOT NULL text column.
func (s *set) required(column string, value *string) {
	if value != nil {
		s.add(column, *value)
	}
}

// exec runs UPDATE table SET ... WHERE company_id = ? AND id = ?. An empty
// patch only touches updated_at.
func (s *set) exec(ctx context.Context, db execer, table, kind, companyID, id string, now time.Time) error {
	s.add("updated_at", timestamp(now))
	query := "UPDATE " + table + " SET " + strings.Join(s.assignments, ", ") + " WHERE company_id = ? AND id = ?"
	args := append(s.args, companyID, id)

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", kind, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound(kind, id)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func deleteScoped(ctx context.Context, db execer, table, kind, companyID, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE company_id = ? AND id = ?", companyID, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return notFound(kind, id)
	}
	return nil
}
