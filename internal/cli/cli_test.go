package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liludouglass/opencode-workflow/internal/artifact"
)

func echoTool(run func(ctx context.Context, args []string, w io.Writer) error) Tool {
	return Tool{Name: "echo", Usage: "Usage: echo <word>", MinArgs: 1, Run: run}
}

func TestExecute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var out, errOut bytes.Buffer
		tool := echoTool(func(_ context.Context, args []string, w io.Writer) error {
			_, err := io.WriteString(w, strings.Join(args, "|"))
			return err
		})
		code := tool.Execute(context.Background(), []string{"--help", "-n", "x y"}, &out, &errOut)
		assert.Equal(t, 0, code)
		assert.Equal(t, "--help|-n|x y", out.String(), "flags pass through as positionals")
		assert.Empty(t, errOut.String())
	})

	t.Run("missing args prints json usage", func(t *testing.T) {
		var out, errOut bytes.Buffer
		tool := echoTool(func(context.Context, []string, io.Writer) error { return nil })
		code := tool.Execute(context.Background(), nil, &out, &errOut)
		assert.Equal(t, 1, code)
		assert.JSONEq(t, `{"error": "Usage: echo <word>"}`, out.String())
	})

	t.Run("plain usage", func(t *testing.T) {
		var out bytes.Buffer
		tool := echoTool(nil)
		tool.PlainUsage = true
		code := tool.Execute(context.Background(), nil, &out, io.Discard)
		assert.Equal(t, 1, code)
		assert.Equal(t, "Usage: echo <word>\n", out.String())
	})

	t.Run("usage error from run", func(t *testing.T) {
		var out bytes.Buffer
		tool := echoTool(func(context.Context, []string, io.Writer) error { return ErrUsage })
		assert.Equal(t, 1, tool.Execute(context.Background(), []string{"a"}, &out, io.Discard))
		assert.Contains(t, out.String(), "Usage: echo")
	})

	t.Run("fail goes to stderr", func(t *testing.T) {
		var out, errOut bytes.Buffer
		tool := echoTool(func(context.Context, []string, io.Writer) error {
			return Fail(errors.New("disk full"))
		})
		code := tool.Execute(context.Background(), []string{"a"}, &out, &errOut)
		assert.Equal(t, 1, code)
		assert.Empty(t, out.String())
		assert.Equal(t, "Error: disk full\n", errOut.String())
	})
}

func TestExecuteExitVariants(t *testing.T) {
	var out, errOut bytes.Buffer
	tool := echoTool(func(context.Context, []string, io.Writer) error {
		return Reject(errors.New("Invalid sources_json"))
	})
	assert.Equal(t, 1, tool.Execute(context.Background(), []string{"a"}, &out, &errOut))
	assert.JSONEq(t, `{"error": "Invalid sources_json"}`, out.String())
	assert.Empty(t, errOut.String())

	out.Reset()
	tool = echoTool(func(context.Context, []string, io.Writer) error {
		return &ExitError{Code: 3}
	})
	assert.Equal(t, 3, tool.Execute(context.Background(), []string{"a"}, &out, &errOut))
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"error": slog.LevelError,
		"warn":  slog.LevelWarn,
		"":      slog.LevelWarn,
		"bogus": slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("GOOGLE_CSE_ID", "cx")
	t.Setenv("OLLAMA_URL", "http://ollama:11434/")
	t.Setenv("LLM_API_BASE", "")
	t.Setenv("YOUTUBE_LANGS", "de, en")
	t.Setenv("YT_STEALTH", "")

	c := LoadConfig()
	assert.Equal(t, "k", c.Google.APIKey)
	assert.Equal(t, "cx", c.Google.CSEID)
	assert.Equal(t, "http://ollama:11434", c.OllamaURL)
	assert.Equal(t, []string{"de", "en"}, c.YouTubeLangs)
	assert.Nil(t, c.BrowserClient)
	require.NotNil(t, c.HTTPClient)
}

func TestLoadPathsAndOpenStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RESEARCH_DIR", filepath.Join(dir, "research"))
	t.Setenv("YT_QUERY_DIR", filepath.Join(dir, "yt-query"))
	t.Setenv("ARTIFACT_INDEX", filepath.Join(dir, "db", "artifacts.db"))

	p := LoadPaths()
	store, closeStore := OpenStore(p)
	defer closeStore()
	require.NotNil(t, store.Recorder)

	res, err := store.SaveResearch(context.Background(), artifact.ResearchRequest{Topic: "Go Modules", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "research", "go_modules", "output_v1.md"), res.FilePath)
	assert.Equal(t, filepath.Join(dir, "research"), p.Roots().ResearchDir)
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "YES", " on "} {
		assert.True(t, truthy(s), s)
	}
	for _, s := range []string{"", "0", "false", "no"} {
		assert.False(t, truthy(s), s)
	}
}
