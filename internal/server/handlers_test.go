package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/conneroisu/sprout/internal/config"
	"github.com/conneroisu/sprout/internal/content"
	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/conneroisu/sprout/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandlePage(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	tests := []struct {
		name     string
		path     string
		title    string
		contains string
	}{
		{"home", "/", "<title>Sprout</title>", `class="banner"`},
		{"guide", "/guide", "<title>Quickstart · Sprout guide</title>", "Build a model first."},
		{"guide subpage", "/guide/1", "<title>Routing · Sprout guide</title>", "The router pushes history"},
		{"changelog", "/changelog", "<title>Sprout changelog</title>", "Initial release"},
		{"unknown falls back to home", "/blog/2019", "<title>Sprout</title>", `class="banner"`},
		{"malformed subpage shows first section", "/guide/abc", "<title>Quickstart · Sprout guide</title>", "Build a model first."},
		{"out of range subpage shows first section", "/guide/99", "<title>Quickstart · Sprout guide</title>", "Build a model first."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.path)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.title)
			assert.Contains(t, rec.Body.String(), tt.contains)
			assert.Contains(t, rec.Body.String(), `/static/app.js`)
		})
	}
}

func TestHandlePageMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/guide", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type brokenWriter struct {
	header http.Header
}

func (w *brokenWriter) Header() http.Header { return w.header }
func (w *brokenWriter) WriteHeader(int) {}
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestHandlePageLogsRenderFailure(t *testing.T) {
	var logs bytes.Buffer
	cfg := testConfig(t)
	store, err := content.NewStoreFS(context.Background(), testFS(), cfg.Content, nil)
	require.NoError(t, err)
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelError, Format: "json", Output: &logs})
	s, err := New(cfg, store, "v0.0.0-test", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })

	s.handlePage(&brokenWriter{header: http.Header{}}, httptest.NewRequest(http.MethodGet, "/guide/1", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "Failed to render page", entry["msg"])
	assert.Equal(t, siteerrors.ErrCodeInternalError, entry["code"])
	assert.Equal(t, "/guide/1", entry["path"])
	assert.Contains(t, entry["error"], "failed to render document: connection reset")
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status  string                            `json:"status"`
		Version string                            `json:"version"`
		Checks  map[string]map[string]interface{} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "v0.0.0-test", body.Version)
	assert.EqualValues(t, 3, body.Checks["content"]["sections"])
	assert.EqualValues(t, 6, body.Checks["routes"]["count"])
	assert.Equal(t, true, body.Checks["search"]["enabled"])
}

func TestHandleRoutes(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/api/routes")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Routes []struct {
			Key     string `json:"key"`
			Message string `json:"message"`
		} `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Routes, 6)
	assert.Equal(t, "", body.Routes[0].Key)
	assert.Equal(t, "ChangePage(home)", body.Routes[0].Message)
	assert.Equal(t, "guide/2", body.Routes[5].Key)
	assert.Equal(t, "ChangeSubpage(guide, 2)", body.Routes[5].Message)
}

func TestHandleSearch(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := get(t, h, "/api/search?q=routing")
	require.Equal(t, http.StatusOK, rec.Code)

	var body searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "routing", body.Query)
	require.NotEmpty(t, body.Hits)
	assert.Equal(t, "/guide/1", body.Hits[0].URL)

	rec = get(t, h, "/api/search?q=routing&limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Hits, 1)

	rec = get(t, h, "/api/search?q=routing&limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, h, "/api/search?q=")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Hits)
}

func TestHandleSearchDisabled(t *testing.T) {
	h := newTestServer(t, func(c *config.Config) { c.Search.Enabled = false }).Handler()

	rec := get(t, h, "/api/search?q=routing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleStatic(t *testing.T) {
	h := newTestServer(t, nil).Handler()

	rec := get(t, h, "/static/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "WebSocket")

	rec = get(t, h, "/static/highlight.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), ".chroma")

	rec = get(t, h, "/static/missing.js")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
