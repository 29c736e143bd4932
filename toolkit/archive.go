package toolkit

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// GeneratedFileName is the path of the generated program inside the archive.
const GeneratedFileName = "main.go"

var gomodTemplate = template.Must(template.New("gomod").Parse(`module {{.Module}}

go 1.24.0

require (
	cloud.google.com/go/bigquery v1.64.0
	github.com/go-gota/gota v0.12.0
	github.com/snowflakedb/gosnowflake v1.12.1
	github.com/xuri/excelize/v2 v2.9.0
	golang.org/x/text v0.26.0
	google.golang.org/api v0.215.0
	modernc.org/sqlite v1.40.1
)
`))

var readmeTemplate = template.Must(template.New("readme").Parse(`# {{.Title}}

Generated by AppGenie on {{.Date}}.

{{.Summary}}

## Layout

- main.go — the generated program.
- toolkit/ — bundled helper packages (CSV, Excel, SQLite CRUD, BigQuery,
  Snowflake, dataframe profiling/cleaning, dedup).
- RESPONSE.md — the full model response, including diagrams.

Run ` + "`go mod tidy && go run .`" + ` to build.
`))

// ArchiveParams describes one generated bundle.
type ArchiveParams struct {
	// Module is the module path written to the bundled go.mod.
	Module string
	// Title and Summary come from the post-processed draft.
	Title   string
	Summary string
	// Code is the generated program; it becomes main.go.
	Code string
	// Response is the full raw model response, kept as RESPONSE.md.
	Response string
}

// BuildArchive assembles the downloadable zip completely in memory: the
// generated program, the full model response, a module manifest, a README,
// and every bundled helper source. Any failure yields no archive at all.
func BuildArchive(p ArchiveParams) ([]byte, error) {
	if strings.TrimSpace(p.Code) == "" {
		return nil, errors.New("no generated code to archive")
	}
	if p.Module == "" {
		// Default to the toolkit's own module path so the generated
		// program's toolkit imports resolve inside the bundle.
		p.Module = "github.com/espin086/AppGenie"
	}
	if p.Title == "" {
		p.Title = "AppGenie App"
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var gomod bytes.Buffer
	if err := gomodTemplate.Execute(&gomod, p); err != nil {
		return nil, fmt.Errorf("render go.mod: %w", err)
	}
	var readme bytes.Buffer
	readmeData := struct {
		Title, Summary, Date string
	}{p.Title, p.Summary, time.Now().Format("2006-01-02")}
	if err := readmeTemplate.Execute(&readme, readmeData); err != nil {
		return nil, fmt.Errorf("render README: %w", err)
	}

	entries := []File{
		{Name: GeneratedFileName, Content: p.Code},
		{Name: "go.mod", Content: gomod.String()},
		{Name: "README.md", Content: readme.String()},
	}
	if strings.TrimSpace(p.Response) != "" {
		entries = append(entries, File{Name: "RESPONSE.md", Content: p.Response})
	}
	entries = append(entries, Modules()...)

	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("archive entry %s: %w", entry.Name, err)
		}
		if _, err := w.Write([]byte(entry.Content)); err != nil {
			return nil, fmt.Errorf("archive entry %s: %w", entry.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
