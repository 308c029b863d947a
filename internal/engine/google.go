package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"
)

// MaxSearchResults is the per-request ceiling of the Custom Search API.
const MaxSearchResults = 10

const (
	errNoAPIKey = "GOOGLE_API_KEY not found in ai-workflow/.env"
	errNoCSEID  = "GOOGLE_CSE_ID not found. Create a Custom Search Engine at https://programmablesearchengine.google.com/ and add GOOGLE_CSE_ID to ai-workflow/.env"
)

// searchLimiter throttles outgoing search requests; nil means unlimited.
var searchLimiter *rate.Limiter

func initSearchLimiter(rps float64) {
	if rps <= 0 {
		searchLimiter = nil
		return
	}
	searchLimiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// SearchGoogle runs one Custom Search query for up to num results.
// Failures are *ToolError carrying the message printed to the user.
func SearchGoogle(ctx context.Context, query string, num int) (*SearchResponse, error) {
	creds := cfg.Google
	if creds.APIKey == "" {
		return nil, NewToolError(KindCredentials, nil, errNoAPIKey)
	}
	if creds.CSEID == "" {
		return nil, NewToolError(KindCredentials, nil, errNoCSEID)
	}
	num = min(max(num, 1), MaxSearchResults)

	cacheKey := CacheKey("google", query, strconv.Itoa(num))
	if cached, ok := CacheLoadJSON[SearchResponse](ctx, cacheKey); ok {
		return &cached, nil
	}

	u, err := url.Parse(cfg.GoogleSearchURL)
	if err != nil {
		return nil, NewToolError(KindInternal, err, "Unexpected error: %v", err)
	}
	q := u.Query()
	q.Set("key", creds.APIKey)
	q.Set("cx", creds.CSEID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))
	u.RawQuery = q.Encode()

	if searchLimiter != nil {
		if err := searchLimiter.Wait(ctx); err != nil {
			return nil, NewToolError(KindNetwork, err, "URL Error: %v", err)
		}
	}

	metrics.SearchRequests.Add(1)
	client := clientWithTimeout(cfg.SearchTimeout)
	resp, err := RetryHTTP(ctx, DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgentResearch)
		return client.Do(req)
	})
	if err != nil {
		metrics.SearchErrors.Add(1)
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.SearchErrors.Add(1)
		se := &StatusError{StatusCode: resp.StatusCode}
		return nil, NewToolError(KindHTTP, se, "%s", se.Error())
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.SearchErrors.Add(1)
		return nil, classifyTransportError(err)
	}
	var data googleResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.SearchErrors.Add(1)
		return nil, NewToolError(KindDecode, err, "JSON decode error: %v", err)
	}

	out := &SearchResponse{
		Query:        query,
		TotalResults: data.SearchInformation.TotalResults,
		Results:      data.Items,
	}
	if out.TotalResults == "" {
		out.TotalResults = "0"
	}
	if out.Results == nil {
		out.Results = []SearchResult{}
	}

	slog.Debug("google search", slog.String("query", query), slog.Int("results", len(out.Results)))
	CacheStoreJSON(ctx, cacheKey, *out)
	return out, nil
}

// classifyTransportError maps client-side failures onto the user-facing
// "HTTP Error" and "URL Error" messages.
func classifyTransportError(err error) *ToolError {
	var se *StatusError
	if errors.As(err, &se) {
		return NewToolError(KindHTTP, err, "%s", se.Error())
	}
	return NewToolError(KindNetwork, err, "URL Error: %s", transportReason(err))
}

// transportReason strips the method and URL from *url.Error so API keys in
// the query string never reach the output.
func transportReason(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	return fmt.Sprint(err)
}
