// Package toolserver registers the workflow tools on an MCP server.
package toolserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/liludouglass/opencode-workflow/internal/artifact"
	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/index"
	"github.com/liludouglass/opencode-workflow/internal/toolutil"
)

// Deps are the stateful collaborators shared by the tools.
type Deps struct {
	Store *artifact.Store
	Index *index.Index // nil disables list_artifacts
	Roots index.Roots
}

// RegisterTools registers every tool on server and returns how many.
func RegisterTools(server *mcp.Server, d Deps) int {
	registerGoogleSearch(server)
	registerWebFetch(server)
	registerGetTranscript(server)
	registerAskVideo(server, d)
	registerSaveResearch(server, d)
	registerSaveQuery(server, d)
	registerWarmup(server)
	registerCountTokens(server)
	registerListArtifacts(server, d)
	registerContextGenerate(server)
	registerContextTokens(server)
	return 11
}

// addTool registers h under t.Name. Slow calls are logged and failures
// carry their user-facing tool error message.
func addTool[In, Out any](server *mcp.Server, t *mcp.Tool, h mcp.ToolHandlerFor[In, Out]) {
	mcp.AddTool(server, t, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		var (
			res *mcp.CallToolResult
			out Out
		)
		err := engine.TrackOperation(ctx, t.Name, func(ctx context.Context) error {
			var err error
			res, out, err = h(ctx, req, in)
			return err
		})
		if err != nil {
			var zero Out
			return nil, zero, toolutil.ErrorJSON(err)
		}
		return res, out, nil
	})
}
