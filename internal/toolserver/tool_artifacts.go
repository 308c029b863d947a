package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/liludouglass/opencode-workflow/internal/artifact"
	"github.com/liludouglass/opencode-workflow/internal/index"
	"github.com/liludouglass/opencode-workflow/internal/toolutil"
)

func registerSaveResearch(server *mcp.Server, d Deps) {
	addTool(server, &mcp.Tool{
		Name:        "save_research",
		Description: "Save research as research/<topic_slug>/output_v<N>.md with YAML front-matter, key findings and numbered sources. Each save for a topic gets the next version number.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SaveResearchInput) (*mcp.CallToolResult, *artifact.ResearchResult, error) {
		if input.Topic == "" {
			return nil, nil, fmt.Errorf("topic is required")
		}
		res, err := toolutil.SaveResearch(ctx, d.Store, artifact.ResearchRequest{
			Topic:       input.Topic,
			Content:     input.Content,
			Sources:     input.Sources,
			KeyFindings: input.KeyFindings,
			Metadata:    metadataFromMap(input.Metadata),
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}

func registerSaveQuery(server *mcp.Server, d Deps) {
	addTool(server, &mcp.Tool{
		Name:        "save_query",
		Description: "Save a question and answer about a YouTube video as <query_slug>_v<N>.md in the yt-query folder. The slug is built from the question's significant words.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SaveQueryInput) (*mcp.CallToolResult, *artifact.QueryResult, error) {
		if input.VideoURL == "" || input.Query == "" || input.Answer == "" {
			return nil, nil, fmt.Errorf("video_url, query and answer are required")
		}
		res, err := toolutil.SaveQuery(ctx, d.Store, artifact.QueryRequest{
			VideoURL: input.VideoURL,
			Query:    input.Query,
			Answer:   input.Answer,
			VideoID:  input.VideoID,
		})
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}

func registerListArtifacts(server *mcp.Server, d Deps) {
	addTool(server, &mcp.Tool{
		Name:        "list_artifacts",
		Description: "List saved research and yt-query artifacts, newest first, with slug, version, title and path.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ListArtifactsInput) (*mcp.CallToolResult, *index.ListResult, error) {
		if d.Index == nil {
			return nil, nil, fmt.Errorf("artifact index is not available")
		}
		res, err := toolutil.ListArtifacts(ctx, d.Index, d.Roots, input.Kind, input.Limit)
		if err != nil {
			return nil, nil, err
		}
		return nil, res, nil
	})
}

// metadataFromMap orders keys alphabetically since JSON object order is lost
// once decoded into a map.
func metadataFromMap(m map[string]any) *artifact.Metadata {
	md := artifact.NewMetadata()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		raw, err := json.Marshal(m[k])
		if err != nil {
			continue
		}
		md.Set(k, raw)
	}
	return md
}
