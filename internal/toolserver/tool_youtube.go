package toolserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/liludouglass/opencode-workflow/internal/engine/sources"
	"github.com/liludouglass/opencode-workflow/internal/toolutil"
)

func registerGetTranscript(server *mcp.Server) {
	addTool(server, &mcp.Tool{
		Name:        "get_transcript",
		Description: "Get the transcript of a YouTube video. Prefers a manually created track and falls back to the auto-generated one. Returns video_id, url, language, is_auto_generated, duration_seconds and the joined transcript text.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, *sources.TranscriptResult, error) {
		if input.URL == "" {
			return nil, nil, fmt.Errorf("url is required")
		}
		res, err := sources.GetTranscript(ctx, input.URL)
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}

func registerAskVideo(server *mcp.Server, d Deps) {
	addTool(server, &mcp.Tool{
		Name:        "ask_video",
		Description: "Answer a question about a YouTube video from its transcript using the configured local model. Set save to write the answer to the yt-query folder as a versioned markdown file.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AskVideoInput) (*mcp.CallToolResult, *toolutil.AskResult, error) {
		if input.URL == "" || input.Query == "" {
			return nil, nil, fmt.Errorf("url and query are required")
		}
		res, err := toolutil.AskVideo(ctx, d.Store, input.URL, input.Query, input.Save)
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}
