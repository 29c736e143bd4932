package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/espin086/AppGenie/generator"
	"github.com/espin086/AppGenie/toolkit"
)

func newTestServer(t *testing.T, llm generator.LLMClient) *httptest.Server {
	t.Helper()
	agent, err := generator.NewAgent(llm, "gpt-4o", nil, nil)
	require.NoError(t, err)
	srv, err := New(agent, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func createGeneration(t *testing.T, ts *httptest.Server, description string) generationResp {
	t.Helper()
	body, _ := json.Marshal(generateReq{Description: description})
	resp, err := http.Post(ts.URL+"/api/generations", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out generationResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestGenerateThenDownload(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})

	gen := createGeneration(t, ts, "read a csv and clean it")
	assert.NotEmpty(t, gen.GenerationID)
	assert.NotEmpty(t, gen.Draft.Code)

	resp, err := http.Get(ts.URL + gen.ArchiveURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["main.go"])
	assert.True(t, names["go.mod"])
	// Every bundled helper ships regardless of the generated content.
	for _, m := range toolkit.Modules() {
		assert.True(t, names[m.Name], m.Name)
	}
}

func TestGenerateEmptyDescription(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})

	resp, err := http.Post(ts.URL+"/api/generations", "application/json",
		strings.NewReader(`{"description":"   "}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateAPIFailureLeavesNoArchive(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{Err: errors.New("api down")})

	body := strings.NewReader(`{"description":"anything"}`)
	resp, err := http.Post(ts.URL+"/api/generations", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGetUnknownGeneration(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})

	resp, err := http.Get(ts.URL + "/api/generations/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/generations/nope/archive")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRevise(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})
	gen := createGeneration(t, ts, "first pass")

	body := strings.NewReader(`{"comment":"add logging"}`)
	resp, err := http.Post(ts.URL+"/api/generations/"+gen.GenerationID+"/revise", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out generationResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, gen.GenerationID, out.GenerationID)
	assert.Equal(t, 2, out.Turns)
}

func TestPreview(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})
	gen := createGeneration(t, ts, "first pass")

	resp, err := http.Get(ts.URL + "/api/generations/" + gen.GenerationID + "/preview")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<h1")
}

func TestIndexServesUI(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "AppGenie")
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, generator.MockLLM{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
