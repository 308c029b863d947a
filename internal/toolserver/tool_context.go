package toolserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/liludouglass/opencode-workflow/internal/bundle"
	"github.com/liludouglass/opencode-workflow/internal/tokens"
)

func registerContextGenerate(server *mcp.Server) {
	addTool(server, &mcp.Tool{
		Name:        "context_generate",
		Description: "Build a minimal context bundle for one task of a feature directory: relevant spec sections, acceptance criteria, files to modify and recent progress, fitted to a token budget.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ContextGenerateInput) (*mcp.CallToolResult, *bundle.Bundle, error) {
		if input.TaskID == "" || input.FeatureDir == "" {
			return nil, nil, fmt.Errorf("task_id and feature_dir are required")
		}
		b, err := bundle.NewGenerator(input.MaxTokens, input.ProgressHistory).Generate(ctx, input.TaskID, input.FeatureDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate context bundle for %s: %w", input.TaskID, err)
		}
		return nil, b, nil
	})
}

func registerContextTokens(server *mcp.Server) {
	addTool(server, &mcp.Tool{
		Name:        "context_get_tokens",
		Description: "Count the cl100k_base tokens of a text.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input ContextTokensInput) (*mcp.CallToolResult, ContextTokensOutput, error) {
		return nil, ContextTokensOutput{Tokens: tokens.EstimateTokens(input.Text)}, nil
	})
}
