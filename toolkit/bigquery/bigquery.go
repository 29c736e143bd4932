// Package bigquery wraps the Google Cloud BigQuery client with the small set
// of operations AppGenie-generated apps need.
package bigquery

import (
	"context"
	"errors"
	"fmt"

	bq "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Row is one query result record keyed by column name.
type Row map[string]bq.Value

// Handler runs queries and table operations against one project.
type Handler struct {
	ProjectID string
	client    *bq.Client
}

// New builds a handler for projectID. credentialsFile is optional; when empty
// the default application credentials are used.
func New(ctx context.Context, projectID, credentialsFile string) (*Handler, error) {
	if projectID == "" {
		return nil, errors.New("bigquery project id is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := bq.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return &Handler{ProjectID: projectID, client: client}, nil
}

func (h *Handler) Close() error {
	return h.client.Close()
}

// Query runs a standard-SQL query and collects all rows.
func (h *Handler) Query(ctx context.Context, query string) ([]Row, error) {
	q := h.client.Query(query)
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}

	var out []Row
	for {
		// The iterator only recognizes the plain map type, not Row.
		var row map[string]bq.Value
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read query results: %w", err)
		}
		out = append(out, Row(row))
	}
	return out, nil
}

// Exec runs a DML statement (UPDATE, DELETE, MERGE) and waits for it.
func (h *Handler) Exec(ctx context.Context, query string) error {
	job, err := h.client.Query(query).Run(ctx)
	if err != nil {
		return fmt.Errorf("start query job: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for query job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("query job failed: %w", err)
	}
	return nil
}

// CreateTable creates dataset.table with the given schema.
func (h *Handler) CreateTable(ctx context.Context, dataset, table string, schema bq.Schema) error {
	ref := h.client.Dataset(dataset).Table(table)
	if err := ref.Create(ctx, &bq.TableMetadata{Schema: schema}); err != nil {
		return fmt.Errorf("create table %s.%s: %w", dataset, table, err)
	}
	return nil
}

// Insert streams rows into dataset.table.
func (h *Handler) Insert(ctx context.Context, dataset, table string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	savers := make([]*bq.ValuesSaver, 0, len(rows))
	meta, err := h.client.Dataset(dataset).Table(table).Metadata(ctx)
	if err != nil {
		return fmt.Errorf("table %s.%s metadata: %w", dataset, table, err)
	}
	for _, row := range rows {
		values := make([]bq.Value, len(meta.Schema))
		for i, field := range meta.Schema {
			values[i] = row[field.Name]
		}
		savers = append(savers, &bq.ValuesSaver{Schema: meta.Schema, Row: values})
	}
	if err := h.client.Dataset(dataset).Table(table).Inserter().Put(ctx, savers); err != nil {
		return fmt.Errorf("insert into %s.%s: %w", dataset, table, err)
	}
	return nil
}
