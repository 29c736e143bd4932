package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostProcess(t *testing.T) {
	raw := "# CSV Cleaner\n\nReads a CSV file and removes duplicate rows.\n\n" +
		"```go\npackage main\n\nfunc main() {}\n```\n\nSome closing notes.\n"

	draft, err := PostProcess(raw)
	require.NoError(t, err)

	assert.Equal(t, "CSV Cleaner", draft.Title)
	assert.Equal(t, "Reads a CSV file and removes duplicate rows.", draft.Summary)
	assert.Equal(t, "package main\n\nfunc main() {}\n", draft.Code)
	assert.Contains(t, draft.Markdown, "closing notes")
}

func TestPostProcessPicksLongestCodeBlock(t *testing.T) {
	raw := "# App\n\nIntro.\n\n```go\npackage x\n```\n\n" +
		"```go\npackage main\n\nimport \"fmt\"\n\nfunc main() { fmt.Println(1) }\n```\n"

	draft, err := PostProcess(raw)
	require.NoError(t, err)
	assert.Contains(t, draft.Code, "func main()")
	assert.NotEqual(t, "package x\n", draft.Code)
}

func TestPostProcessBareCode(t *testing.T) {
	raw := "package main\n\nfunc main() {}"

	draft, err := PostProcess(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, draft.Code)
	assert.Empty(t, draft.Title)
}

func TestPostProcessEmpty(t *testing.T) {
	_, err := PostProcess("   \n\t")
	assert.Error(t, err)
}

func TestExtractSummarySkipsFences(t *testing.T) {
	raw := "# T\n\n```go\nnot a summary\n```\n\nThe actual summary.\n"
	draft, err := PostProcess(raw)
	require.NoError(t, err)
	assert.Equal(t, "The actual summary.", draft.Summary)
}
