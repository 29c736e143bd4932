package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndReadSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	h := New(path)

	rows := [][]string{
		{"name", "score"},
		{"ada", "1"},
		{"bob", "2"},
	}
	require.NoError(t, h.SaveSheet("people", rows))

	h2 := New(path)
	got, err := h2.ReadSheet("people")
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	h := New(path)
	h.Sheets["one"] = [][]string{{"a"}, {"1"}}
	h.Sheets["two"] = [][]string{{"b"}, {"2"}}
	require.NoError(t, h.SaveAll())

	h2 := New(path)
	sheets, err := h2.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"1"}}, sheets["one"])
	assert.Equal(t, [][]string{{"b"}, {"2"}}, sheets["two"])
}

func TestReadMissingWorkbook(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.xlsx")).ReadSheet("s")
	assert.Error(t, err)
}
