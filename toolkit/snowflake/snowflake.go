// Package snowflake runs queries against a Snowflake warehouse through the
// gosnowflake database/sql driver.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"
)

// Params holds the connection parameters for one warehouse.
type Params struct {
	Account   string
	User      string
	Password  string
	Database  string
	Schema    string
	Warehouse string
}

// Row is one query result record keyed by column name.
type Row map[string]any

// Runner executes queries over a single connection pool.
type Runner struct {
	db *sql.DB
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, p Params) (*Runner, error) {
	if p.Account == "" || p.User == "" {
		return nil, fmt.Errorf("snowflake account and user are required")
	}
	dsn, err := sf.DSN(&sf.Config{
		Account:   p.Account,
		User:      p.User,
		Password:  p.Password,
		Database:  p.Database,
		Schema:    p.Schema,
		Warehouse: p.Warehouse,
	})
	if err != nil {
		return nil, fmt.Errorf("build snowflake dsn: %w", err)
	}
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snowflake: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping snowflake: %w", err)
	}
	return &Runner{db: db}, nil
}

func (r *Runner) Close() error {
	return r.db.Close()
}

// Query runs a SQL statement and collects all rows.
func (r *Runner) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("snowflake query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("snowflake query columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("snowflake scan: %w", err)
		}
		rec := make(Row, len(cols))
		for i, name := range cols {
			rec[name] = vals[i]
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snowflake rows: %w", err)
	}
	return out, nil
}

// Exec runs a statement that returns no rows.
func (r *Runner) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("snowflake exec: %w", err)
	}
	return nil
}
