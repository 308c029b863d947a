// Package toolutil provides shared helpers for the CLI binaries and MCP tools.
package toolutil

import (
	"context"
	"encoding/json"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/liludouglass/opencode-workflow/internal/engine"
)

// PrintJSON writes v as two-space indented JSON followed by a newline.
// HTML characters are left unescaped so URLs print verbatim.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ErrorJSON wraps err in the {"error": "..."} shape.
func ErrorJSON(err error) *engine.ToolError {
	return engine.AsToolError(err)
}

// FetchURLsParallel fetches every URL concurrently, at most limit at a time.
// Failed fetches carry their error message in place of content.
func FetchURLsParallel(ctx context.Context, urls []string, maxChars, limit int) []engine.FetchResult {
	if limit <= 0 {
		limit = 4
	}
	out := make([]engine.FetchResult, len(urls))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			res, err := engine.FetchPage(ctx, u, maxChars)
			if err != nil {
				out[i] = engine.FetchResult{URL: u, Error: err.Error()}
				return nil
			}
			out[i] = *res
			return nil
		})
	}
	g.Wait()
	return out
}
