package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/liludouglass/opencode-workflow/internal/artifact"
	"github.com/liludouglass/opencode-workflow/internal/bundle"
	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/engine/sources"
	"github.com/liludouglass/opencode-workflow/internal/index"
	"github.com/liludouglass/opencode-workflow/internal/tokens"
	"github.com/liludouglass/opencode-workflow/internal/toolutil"
)

const countTokensUsage = `Token Counter Tool

Counts exact tokens in text files using tiktoken (cl100k_base).

Usage:
    count-tokens <file_path>
    count-tokens <file_path1> <file_path2> ...

Examples:
    count-tokens agent/orchestrator.md
    count-tokens agent/*.md`

// CountTokens is the count-tokens tool.
func CountTokens() Tool {
	return Tool{
		Name:       "count-tokens",
		Usage:      countTokensUsage,
		MinArgs:    1,
		PlainUsage: true,
		Run: func(_ context.Context, args []string, w io.Writer) error {
			tok, err := tokens.Default()
			if err != nil {
				return Fail(err)
			}
			if !tokens.WriteReport(w, tok.CountFiles(args)) {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

// GoogleSearch is the google-search tool.
func GoogleSearch() Tool {
	return Tool{
		Name:    "google-search",
		Usage:   "Usage: google-search <query> [num_results]",
		MinArgs: 1,
		Run: func(ctx context.Context, args []string, w io.Writer) error {
			num := engine.MaxSearchResults
			if len(args) > 1 {
				n, err := strconv.Atoi(strings.TrimSpace(args[1]))
				if err != nil {
					return ErrUsage
				}
				num = n
			}
			resp, err := engine.SearchGoogle(ctx, args[0], num)
			if err != nil {
				return toolutil.PrintJSON(w, toolutil.ErrorJSON(err))
			}
			return toolutil.PrintJSON(w, resp)
		},
	}
}

// SaveResearch is the save-research tool.
func SaveResearch() Tool {
	return Tool{
		Name:    "save-research",
		Usage:   "Usage: save-research <topic> <content> [sources_json] [key_findings_json] [metadata_json]",
		MinArgs: 2,
		Run: func(ctx context.Context, args []string, w io.Writer) error {
			req := artifact.ResearchRequest{Topic: args[0], Content: args[1]}
			var err error
			if req.Sources, err = artifact.ParseStringList(arg(args, 2)); err != nil {
				return Reject(fmt.Errorf("Invalid sources_json: %w", err))
			}
			if req.KeyFindings, err = artifact.ParseStringList(arg(args, 3)); err != nil {
				return Reject(fmt.Errorf("Invalid key_findings_json: %w", err))
			}
			if req.Metadata, err = artifact.ParseMetadata(arg(args, 4)); err != nil {
				return Reject(fmt.Errorf("Invalid metadata_json: %w", err))
			}

			store, closeStore := OpenStore(LoadPaths())
			defer closeStore()
			res, err := toolutil.SaveResearch(ctx, store, req)
			if err != nil {
				return Fail(err)
			}
			return toolutil.PrintJSON(w, res)
		},
	}
}

// SaveYTQuery is the save-yt-query tool.
func SaveYTQuery() Tool {
	return Tool{
		Name:    "save-yt-query",
		Usage:   "Usage: save-yt-query <video_url> <query> <answer> [video_id]",
		MinArgs: 3,
		Run: func(ctx context.Context, args []string, w io.Writer) error {
			store, closeStore := OpenStore(LoadPaths())
			defer closeStore()
			res, err := toolutil.SaveQuery(ctx, store, artifact.QueryRequest{
				VideoURL: args[0],
				Query:    args[1],
				Answer:   artifact.UnescapeNewlines(args[2]),
				VideoID:  arg(args, 3),
			})
			if err != nil {
				return Fail(err)
			}
			return toolutil.PrintJSON(w, res)
		},
	}
}

// WarmupOllama is the warmup-ollama tool.
func WarmupOllama() Tool {
	return Tool{
		Name:  "warmup-ollama",
		Usage: "Usage: warmup-ollama [model] [keepalive]",
		Run: func(ctx context.Context, args []string, w io.Writer) error {
			return toolutil.PrintJSON(w, engine.Warmup(ctx, arg(args, 0), arg(args, 1)))
		},
	}
}

// YTTranscript is the yt-transcript tool.
func YTTranscript() Tool {
	return Tool{
		Name:    "yt-transcript",
		Usage:   "Usage: yt-transcript <youtube_url>",
		MinArgs: 1,
		Run: func(ctx context.Context, args []string, w io.Writer) error {
			res, err := sources.GetTranscript(ctx, args[0])
			if err != nil {
				return toolutil.PrintJSON(w, toolutil.ErrorJSON(err))
			}
			return toolutil.PrintJSON(w, res)
		},
	}
}

// WebFetch is the web-fetch tool.
func WebFetch() Tool {
	return Tool{
		Name:    "web-fetch",
		Usage:   "Usage: web-fetch <url> [max_chars]",
		MinArgs: 1,
		Run: func(ctx context.Context, args []string, w io.Writer) error {
			maxChars, err := optionalInt(arg(args, 1))
			if err != nil {
				return ErrUsage
			}
			res, err := engine.FetchPage(ctx, args[0], maxChars)
			if err != nil {
				return toolutil.PrintJSON(w, toolutil.ErrorJSON(err))
			}
			return toolutil.PrintJSON(w, res)
		},
	}
}

// YTAsk is the yt-ask tool.
func YTAsk() Tool {
	return Tool{
		Name:    "yt-ask",
		Usage:   "Usage: yt-ask <video_url> <query> [save]",
		MinArgs: 2,
		Run: func(ctx context.Context, args []string, w io.Writer) error {
			save := false
			switch arg(args, 2) {
			case "":
			case "save":
				save = true
			default:
				return ErrUsage
			}

			store, closeStore := OpenStore(LoadPaths())
			defer closeStore()
			res, err := toolutil.AskVideo(ctx, store, args[0], args[1], save)
			var te *engine.ToolError
			switch {
			case errors.As(err, &te):
				return toolutil.PrintJSON(w, te)
			case err != nil:
				return Fail(err)
			}
			return toolutil.PrintJSON(w, res)
		},
	}
}

// ListArtifacts is the list-artifacts tool.
func ListArtifacts() Tool {
	return Tool{
		Name:  "list-artifacts",
		Usage: "Usage: list-artifacts [research|yt_query|all] [limit]",
		Run: func(ctx context.Context, args []string, w io.Writer) error {
			limit, err := optionalInt(arg(args, 1))
			if err != nil {
				return ErrUsage
			}
			p := LoadPaths()
			ix, err := index.Open(p.IndexPath)
			if err != nil {
				return Fail(err)
			}
			defer ix.Close()

			res, err := toolutil.ListArtifacts(ctx, ix, p.Roots(), arg(args, 0), limit)
			if engine.ErrorKindOf(err) == engine.KindUsage {
				return Reject(err)
			}
			if err != nil {
				return Fail(err)
			}
			return toolutil.PrintJSON(w, res)
		},
	}
}

// ContextBundle is the context-bundle tool.
func ContextBundle() Tool {
	return Tool{
		Name:    "context-bundle",
		Usage:   "Usage: context-bundle <task_id> <feature_dir> [max_tokens] [progress_history]",
		MinArgs: 2,
		Run: func(ctx context.Context, args []string, w io.Writer) error {
			maxTokens, err := optionalInt(arg(args, 2))
			if err != nil {
				return ErrUsage
			}
			history, err := optionalInt(arg(args, 3))
			if err != nil {
				return ErrUsage
			}
			b, err := bundle.NewGenerator(maxTokens, history).Generate(ctx, args[0], args[1])
			if err != nil {
				return toolutil.PrintJSON(w, toolutil.ErrorJSON(
					fmt.Errorf("failed to generate context bundle for %s: %w", args[0], err)))
			}
			return toolutil.PrintJSON(w, b)
		},
	}
}

// arg returns args[i], or "" when absent.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimSpace(s))
}
