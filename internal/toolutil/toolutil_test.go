package toolutil

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liludouglass/opencode-workflow/internal/artifact"
	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/index"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]any{"link": "https://a.dev/?q=1&r=<2>", "n": 1}))
	assert.Equal(t, "{\n  \"link\": \"https://a.dev/?q=1&r=<2>\",\n  \"n\": 1\n}\n", buf.String())
}

func TestErrorJSON(t *testing.T) {
	te := ErrorJSON(errors.New("boom"))
	assert.Equal(t, engine.KindInternal, te.Kind)

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, te))
	assert.JSONEq(t, `{"error": "boom"}`, buf.String())
}

func TestFetchURLsParallel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><title>Page " + r.URL.Path + "</title></head><body><main><p>Hello from " + r.URL.Path + "</p></main></body></html>"))
	}))
	defer srv.Close()

	prev := *engine.Cfg
	t.Cleanup(func() { engine.Init(prev) })
	engine.Init(engine.Config{MaxContentChars: 1000, FetchTimeout: 5 * time.Second, HTTPClient: srv.Client()})

	urls := []string{srv.URL + "/a", srv.URL + "/missing", srv.URL + "/b"}
	got := FetchURLsParallel(context.Background(), urls, 0, 2)
	require.Len(t, got, 3)

	assert.Equal(t, "Page /a", got[0].Title)
	assert.Contains(t, got[0].Content, "Hello from /a")
	assert.Empty(t, got[0].Error)

	assert.Equal(t, urls[1], got[1].URL)
	assert.NotEmpty(t, got[1].Error)

	assert.Contains(t, got[2].Content, "Hello from /b")
}

func TestSaveAndListArtifacts(t *testing.T) {
	dir := t.TempDir()
	roots := index.Roots{ResearchDir: filepath.Join(dir, "research"), QueryDir: filepath.Join(dir, "yt-query")}
	store := artifact.NewStore(roots.ResearchDir, roots.QueryDir)
	ix, err := index.Open(filepath.Join(dir, "artifacts.db"))
	require.NoError(t, err)
	defer ix.Close()
	store.Recorder = ix

	ctx := context.Background()
	before := engine.GetMetrics()["artifact_saves"]

	r, err := SaveResearch(ctx, store, artifact.ResearchRequest{Topic: "Rate Limits", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "rate_limits", r.TopicFolder)

	q, err := SaveQuery(ctx, store, artifact.QueryRequest{VideoURL: "https://youtu.be/dQw4w9WgXcQ", Query: "What is the tempo?", Answer: "fast"})
	require.NoError(t, err)
	assert.Equal(t, "tempo_v1.md", q.Filename)
	assert.Equal(t, before+2, engine.GetMetrics()["artifact_saves"])

	all, err := ListArtifacts(ctx, ix, roots, "all", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	research, err := ListArtifacts(ctx, ix, roots, "research", 10)
	require.NoError(t, err)
	require.Len(t, research.Artifacts, 1)
	assert.Equal(t, "Rate Limits", research.Artifacts[0].Title)

	_, err = ListArtifacts(ctx, ix, roots, "videos", 10)
	assert.Equal(t, engine.KindUsage, engine.ErrorKindOf(err))
}

func TestAskVideoBadURL(t *testing.T) {
	_, err := AskVideo(context.Background(), nil, "not a video", "why?", false)
	require.Error(t, err)
	assert.Equal(t, engine.KindUsage, engine.ErrorKindOf(err))
	assert.Equal(t, "Could not extract video ID from URL: not a video", err.Error())
}
