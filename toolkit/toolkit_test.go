package toolkit

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModules(t *testing.T) {
	files := Modules()
	require.NotEmpty(t, files)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
		assert.True(t, strings.HasPrefix(f.Name, "toolkit/"), f.Name)
		assert.Contains(t, f.Content, "package ")
	}
	assert.Contains(t, names, "toolkit/csvkit/csvkit.go")
	assert.Contains(t, names, "toolkit/sqlitecrud/sqlitecrud.go")
	assert.Contains(t, names, "toolkit/bigquery/bigquery.go")
	assert.Contains(t, names, "toolkit/snowflake/snowflake.go")
	assert.Contains(t, names, "toolkit/xlsx/xlsx.go")
	assert.Contains(t, names, "toolkit/dataframe/dataframe.go")
	assert.Contains(t, names, "toolkit/dedup/dedup.go")
}

func TestBuildArchive(t *testing.T) {
	archive, err := BuildArchive(ArchiveParams{
		Title:    "Sales Cleaner",
		Summary:  "Cleans sales data.",
		Code:     "package main\n\nfunc main() {}\n",
		Response: "# Sales Cleaner\n\nfull response",
	})
	require.NoError(t, err)

	entries := readZip(t, archive)
	assert.Equal(t, "package main\n\nfunc main() {}\n", entries["main.go"])
	assert.Contains(t, entries["go.mod"], "module github.com/espin086/AppGenie")
	assert.Contains(t, entries["README.md"], "Sales Cleaner")
	assert.Contains(t, entries["RESPONSE.md"], "full response")

	// Every bundled helper file must be present regardless of content.
	for _, f := range Modules() {
		assert.Equal(t, f.Content, entries[f.Name], f.Name)
	}
}

func TestBuildArchiveNoCode(t *testing.T) {
	_, err := BuildArchive(ArchiveParams{Title: "x", Code: "  \n"})
	assert.Error(t, err)
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = string(content)
	}
	return entries
}
