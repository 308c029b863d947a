// opencode-workflow is the MCP server for the AI research workflow.
//
// Exposes the workflow tools (search, page fetch, YouTube transcripts and
// questions, artifact saving and listing, token counting, model warm-up)
// over HTTP MCP or stdio transport. The same operations ship as standalone
// binaries under cmd/.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/liludouglass/opencode-workflow/internal/cli"
	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/index"
	"github.com/liludouglass/opencode-workflow/internal/toolserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8892")
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := cli.Setup(ctx)
	slog.Info("starting opencode-workflow",
		slog.String("port", mcpPort),
		slog.Bool("llm", cfg.LLMClient != nil),
		slog.Bool("stealth", cfg.BrowserClient != nil),
	)

	paths := cli.LoadPaths()
	store, closeStore := cli.OpenStore(paths)
	defer closeStore()

	deps := toolserver.Deps{Store: store, Roots: paths.Roots()}
	if ix, ok := store.Recorder.(*index.Index); ok {
		deps.Index = ix
		startIndexing(ctx, ix, deps.Roots)
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "opencode-workflow",
		Version: version,
	}, nil)

	n := toolserver.RegisterTools(server, deps)
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "opencode-workflow",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

// startIndexing syncs the index with the artifact roots, then keeps it
// current from filesystem events until ctx ends.
func startIndexing(ctx context.Context, ix *index.Index, roots index.Roots) {
	if n, err := ix.Sync(ctx, roots); err != nil {
		slog.Warn("artifact reindex failed", slog.Any("error", err))
	} else {
		slog.Info("artifact index ready", slog.Int("artifacts", n))
	}
	go func() {
		if err := ix.Watch(ctx, roots); err != nil {
			slog.Warn("artifact watcher stopped", slog.Any("error", err))
		}
	}()
}
