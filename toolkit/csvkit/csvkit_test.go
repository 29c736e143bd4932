package csvkit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,score\nada,1\nbob,2\n"), 0o644))

	h := New(path)
	df, err := h.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, []string{"name", "score"}, df.Names())

	out := New(filepath.Join(t.TempDir(), "out.csv"))
	require.NoError(t, out.Write(df))

	df2, err := out.Read()
	require.NoError(t, err)
	assert.Equal(t, df.Records(), df2.Records())
}

func TestReadMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.csv")).Read()
	assert.Error(t, err)
}

func TestAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	h := New(path)

	df := dataframe.LoadRecords([][]string{
		{"name", "score"},
		{"ada", "1"},
	})
	require.NoError(t, h.Append(df))
	require.NoError(t, h.Append(df))

	got, err := h.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, got.Nrow())
	assert.Equal(t, []string{"name", "score"}, got.Names())
}
