package toolserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/tokens"
)

func registerWarmup(server *mcp.Server) {
	addTool(server, &mcp.Tool{
		Name:        "warmup",
		Description: "Load an Ollama model into memory by generating one token, and keep it resident for keepalive. Failures are reported with success=false.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input WarmupInput) (*mcp.CallToolResult, engine.WarmupResult, error) {
		return nil, engine.Warmup(ctx, input.Model, input.KeepAlive), nil
	})
}

func registerCountTokens(server *mcp.Server) {
	addTool(server, &mcp.Tool{
		Name:        "count_tokens",
		Description: "Count cl100k_base tokens, words, characters and lines in files or in inline text.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input CountTokensInput) (*mcp.CallToolResult, CountTokensOutput, error) {
		if len(input.Paths) == 0 && input.Text == "" {
			return nil, CountTokensOutput{}, fmt.Errorf("paths or text is required")
		}
		tok, err := tokens.Default()
		if err != nil {
			return nil, CountTokensOutput{}, err
		}

		var out CountTokensOutput
		if input.Text != "" {
			out.Files = append(out.Files, tok.CountText("<text>", input.Text))
		}
		out.Files = append(out.Files, tok.CountFiles(input.Paths)...)
		for _, st := range out.Files {
			if !st.OK() {
				continue
			}
			out.TotalTokens += st.Tokens
			out.TotalWords += st.Words
			out.TotalChars += st.Chars
		}
		return nil, out, nil
	})
}
