package toolserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/toolutil"
)

const maxFetchURLs = 8

func registerGoogleSearch(server *mcp.Server) {
	addTool(server, &mcp.Tool{
		Name:        "google_search",
		Description: "Search the web with the Google Custom Search API. Returns the query, Google's total result count, and up to 10 results with title, link, snippet and display link.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input GoogleSearchInput) (*mcp.CallToolResult, *engine.SearchResponse, error) {
		if strings.TrimSpace(input.Query) == "" {
			return nil, nil, fmt.Errorf("query is required")
		}
		num := input.NumResults
		if num == 0 {
			num = engine.MaxSearchResults
		}
		resp, err := engine.SearchGoogle(ctx, input.Query, num)
		if err != nil {
			return nil, nil, err
		}
		return nil, resp, nil
	})
}

func registerWebFetch(server *mcp.Server) {
	addTool(server, &mcp.Tool{
		Name:        "web_fetch",
		Description: "Fetch one or more web pages and return their main content as markdown, with the page title. Pass url for one page or urls for several (fetched in parallel, at most 8).",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input WebFetchInput) (*mcp.CallToolResult, WebFetchOutput, error) {
		urls := input.URLs
		if input.URL != "" {
			urls = append([]string{input.URL}, urls...)
		}
		if len(urls) == 0 {
			return nil, WebFetchOutput{}, fmt.Errorf("url or urls is required")
		}
		if len(urls) > maxFetchURLs {
			urls = urls[:maxFetchURLs]
		}

		if len(urls) == 1 {
			page, err := engine.FetchPage(ctx, urls[0], input.MaxChars)
			if err != nil {
				return nil, WebFetchOutput{}, err
			}
			return nil, WebFetchOutput{Pages: []engine.FetchResult{*page}}, nil
		}
		return nil, WebFetchOutput{Pages: toolutil.FetchURLsParallel(ctx, urls, input.MaxChars, 4)}, nil
	})
}
