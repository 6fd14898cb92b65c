package server_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salamanca-digital/citetrail/internal/server"
	"github.com/salamanca-digital/citetrail/pkg/cache"
	"github.com/salamanca-digital/citetrail/pkg/config"
	"github.com/salamanca-digital/citetrail/pkg/pipeline"
	"github.com/salamanca-digital/citetrail/pkg/task"
)

const sourceXML = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader><fileDesc><titleStmt><title>T</title></titleStmt>
    <publicationStmt><p>pub</p></publicationStmt>
    <sourceDesc><p>src</p></sourceDesc></fileDesc></teiHeader>
  <text><body><div type="chapter" xml:id="c1"><p xml:id="p1">Hello.</p></div></body></text>
</TEI>`

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "W0001.xml"), []byte(sourceXML), 0o600))

	cfg := &config.Config{
		TEI: config.TEIConfig{RootDir: dir, OutputDir: t.TempDir(), MaxCiteDepth: 32},
	}

	tasks := task.NewStore(5*time.Minute, time.Minute)
	t.Cleanup(tasks.Close)

	docs := cache.NewDocumentCache(cache.DefaultDocumentCacheSize)
	p := pipeline.New(nil, nil)

	return server.New(p, tasks, docs, cfg, nil)
}

func TestServer_StartAndPollTransform(t *testing.T) {
	srv := newTestServer(t)
	mux := srv.NewMux()

	req := httptest.NewRequest(http.MethodPost, "/v1/texts/W0001", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	location := rec.Header().Get("Location")
	require.NotEmpty(t, location)

	require.Eventually(t, func() bool {
		pollReq := httptest.NewRequest(http.MethodGet, location, nil)
		pollRec := httptest.NewRecorder()
		mux.ServeHTTP(pollRec, pollReq)

		return pollRec.Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	pollReq := httptest.NewRequest(http.MethodGet, location, nil)
	pollRec := httptest.NewRecorder()
	mux.ServeHTTP(pollRec, pollReq)

	assert.Equal(t, http.StatusOK, pollRec.Code)
	assert.Contains(t, pollRec.Body.String(), `"completed"`)
}

func TestServer_UnknownTaskIsNotFound(t *testing.T) {
	srv := newTestServer(t)
	mux := srv.NewMux()

	req := httptest.NewRequest(http.MethodGet, "/tasks/does-not-exist", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)
	mux := srv.NewMux()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
