package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// queryAll runs query and hydrates every row with scan. The result is never
// nil, so a caller can always range over it.
func queryAll[T any](ctx context.Context, q querier, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return []T{}, err
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return []T{}, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return []T{}, fmt.Errorf("iterating rows: %w", err)
	}
	return results, nil
}

// queryOne runs query and hydrates the first row. A missing row yields
// nil, nil.
func queryOne[T any](ctx context.Context, q querier, scan func(rowScanner) (T, error), query string, args ...any) (*T, error) {
	v, err := scan(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// assignment is one "column = ?" pair of an UPDATE. Columns always come from
// the constants in this package.
type assignment struct {
	column string
	value  any
}

// buildUpdate renders an UPDATE by id for the given assignments, followed by
// the sync_status write marker.
func buildUpdate(table string, sets []assignment, id string) (string, []any) {
	clauses := make([]string, 0, len(sets)+1)
	args := make([]any, 0, len(sets)+1)
	for _, s := range sets {
		clauses = append(clauses, s.column+" = ?")
		args = append(args, s.value)
	}
	clauses = append(clauses, "sync_status = 1")
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(clauses, ", ")), args
}

// nullableString converts an optional string into a driver value.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a scanned nullable column back to an optional string.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// boolToInt stores a flag as the 0/1 integer the schema uses.
func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
