// Package sqlitecrud provides small CRUD helpers over a SQLite database.
// The driver is modernc.org/sqlite, so no cgo is involved.
package sqlitecrud

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Row is one result record keyed by column name.
type Row map[string]any

// Store wraps a SQLite database handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for an
// in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTable creates table if missing; columns maps column name to its SQL
// type, e.g. {"id": "INTEGER PRIMARY KEY", "name": "TEXT"}.
func (s *Store) CreateTable(ctx context.Context, table string, columns map[string]string) error {
	if len(columns) == 0 {
		return fmt.Errorf("create table %s: no columns", table)
	}
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]string, 0, len(names))
	for _, name := range names {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(name), columns[name]))
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// Insert adds one record and returns its rowid.
func (s *Store) Insert(ctx context.Context, table string, record Row) (int64, error) {
	if len(record) == 0 {
		return 0, fmt.Errorf("insert into %s: empty record", table)
	}
	names := make([]string, 0, len(record))
	for name := range record {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]string, 0, len(names))
	marks := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, name := range names {
		cols = append(cols, quoteIdent(name))
		marks = append(marks, "?")
		args = append(args, record[name])
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	return res.LastInsertId()
}

// Select returns every row of the table. where is an optional SQL condition
// with ? placeholders bound to args.
func (s *Store) Select(ctx context.Context, table, where string, args ...any) ([]Row, error) {
	stmt := fmt.Sprintf("SELECT * FROM %s", quoteIdent(table))
	if where != "" {
		stmt += " WHERE " + where
	}
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec := make(Row, len(cols))
		for i, name := range cols {
			rec[name] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	return out, nil
}

// Update sets the given columns on rows matching where and returns the number
// of rows changed.
func (s *Store) Update(ctx context.Context, table string, set Row, where string, args ...any) (int64, error) {
	if len(set) == 0 {
		return 0, fmt.Errorf("update %s: nothing to set", table)
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	assigns := make([]string, 0, len(names))
	all := make([]any, 0, len(names)+len(args))
	for _, name := range names {
		assigns = append(assigns, fmt.Sprintf("%s = ?", quoteIdent(name)))
		all = append(all, set[name])
	}
	all = append(all, args...)

	stmt := fmt.Sprintf("UPDATE %s SET %s", quoteIdent(table), strings.Join(assigns, ", "))
	if where != "" {
		stmt += " WHERE " + where
	}
	res, err := s.db.ExecContext(ctx, stmt, all...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Delete removes rows matching where and returns the number removed. An empty
// where clears the table.
func (s *Store) Delete(ctx context.Context, table, where string, args ...any) (int64, error) {
	stmt := fmt.Sprintf("DELETE FROM %s", quoteIdent(table))
	if where != "" {
		stmt += " WHERE " + where
	}
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	return res.RowsAffected()
}

// quoteIdent quotes a SQL identifier, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
