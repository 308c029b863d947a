package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const googleBody = `{
  "searchInformation": {"totalResults": "2140000"},
  "items": [
    {"title": "Go", "link": "https://go.dev/", "snippet": "Build simple, secure, scalable systems", "displayLink": "go.dev", "kind": "customsearch#result"},
    {"title": "Tour", "link": "https://go.dev/tour/", "snippet": "A Tour of Go", "displayLink": "go.dev"}
  ]
}`

func googleConfig(url string) Config {
	return Config{
		Google:          Credentials{APIKey: "k-123", CSEID: "cx-456"},
		GoogleSearchURL: url,
		SearchTimeout:   5 * time.Second,
	}
}

func TestSearchGoogleSuccess(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, googleBody)
	}))
	defer srv.Close()
	withConfig(t, googleConfig(srv.URL))

	out, err := SearchGoogle(context.Background(), "golang", 25)
	require.NoError(t, err)

	assert.Equal(t, "golang", out.Query)
	assert.Equal(t, "2140000", out.TotalResults)
	require.Len(t, out.Results, 2)
	assert.Equal(t, SearchResult{Title: "Go", Link: "https://go.dev/", Snippet: "Build simple, secure, scalable systems", DisplayLink: "go.dev"}, out.Results[0])

	assert.Contains(t, gotQuery, "num=10")
	assert.Contains(t, gotQuery, "cx=cx-456")
	assert.Contains(t, gotQuery, "key=k-123")
	assert.Contains(t, gotQuery, "q=golang")
	assert.Equal(t, UserAgentResearch, gotUA)
}

func TestSearchGoogleEmptyItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()
	withConfig(t, googleConfig(srv.URL))

	out, err := SearchGoogle(context.Background(), "nothing", 3)
	require.NoError(t, err)
	assert.Equal(t, "0", out.TotalResults)
	assert.NotNil(t, out.Results)
	assert.Empty(t, out.Results)
}

func TestSearchGoogleCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{"missing key", Credentials{CSEID: "cx"}, errNoAPIKey},
		{"missing cse id", Credentials{APIKey: "k"}, errNoCSEID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfig(t, Config{Google: tt.creds, GoogleSearchURL: "http://127.0.0.1:0"})
			_, err := SearchGoogle(context.Background(), "q", 5)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, KindCredentials, ErrorKindOf(err))
		})
	}
}

func TestSearchGoogleHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	withConfig(t, googleConfig(srv.URL))

	_, err := SearchGoogle(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Equal(t, "HTTP Error 403: Forbidden", err.Error())
	assert.Equal(t, KindHTTP, ErrorKindOf(err))
}

func TestSearchGoogleDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()
	withConfig(t, googleConfig(srv.URL))

	_, err := SearchGoogle(context.Background(), "q", 5)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "JSON decode error: "), err.Error())
	assert.Equal(t, KindDecode, ErrorKindOf(err))
}

func TestSearchGoogleURLError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := googleConfig(addr)
	withConfig(t, c)
	_, err := SearchGoogle(context.Background(), "q", 5)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "URL Error: "), err.Error())
	assert.NotContains(t, err.Error(), "k-123")
	assert.Equal(t, KindNetwork, ErrorKindOf(err))
}

func TestSearchGoogleCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, googleBody)
	}))
	defer srv.Close()
	withConfig(t, googleConfig(srv.URL))
	initTestCache(t, time.Minute, 10)

	for i := 0; i < 3; i++ {
		_, err := SearchGoogle(context.Background(), "cached query", 5)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestInitSearchLimiter(t *testing.T) {
	withConfig(t, Config{SearchRPS: 2})
	require.NotNil(t, searchLimiter)
	assert.InDelta(t, 2.0, float64(searchLimiter.Limit()), 0.001)

	Init(Config{})
	assert.Nil(t, searchLimiter)
}
