package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"

	"github.com/liludouglass/opencode-workflow/internal/artifact"
	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/index"
)

// Paths locates the artifact roots and the index database.
type Paths struct {
	ResearchDir string
	QueryDir    string
	IndexPath   string
}

// LoadPaths reads RESEARCH_DIR, YT_QUERY_DIR and ARTIFACT_INDEX.
func LoadPaths() Paths {
	home := homeDir()
	return Paths{
		ResearchDir: env.Str("RESEARCH_DIR", "research"),
		QueryDir:    env.Str("YT_QUERY_DIR", filepath.Join(home, "yt-query")),
		IndexPath:   env.Str("ARTIFACT_INDEX", filepath.Join(home, ".opencode-workflow", "artifacts.db")),
	}
}

// Roots converts p into index roots.
func (p Paths) Roots() index.Roots {
	return index.Roots{ResearchDir: p.ResearchDir, QueryDir: p.QueryDir}.Abs()
}

// LoadConfig builds the engine configuration from the environment and the
// credential files.
func LoadConfig() engine.Config {
	cwd, _ := os.Getwd()
	ollamaURL := strings.TrimRight(env.Str("OLLAMA_URL", engine.DefaultOllamaURL), "/")
	searchTimeout := env.Duration("SEARCH_TIMEOUT", engine.DefaultSearchTimeout)

	c := engine.Config{
		Google:              engine.LoadCredentials(engine.CredentialPaths(homeDir(), cwd)),
		GoogleSearchURL:     env.Str("GOOGLE_SEARCH_URL", engine.DefaultGoogleSearchURL),
		SearchTimeout:       searchTimeout,
		SearchRPS:           env.Float("SEARCH_RPS", 1),
		OllamaURL:           ollamaURL,
		OllamaModel:         env.Str("OLLAMA_MODEL", engine.DefaultOllamaModel),
		OllamaKeepAlive:     env.Str("OLLAMA_KEEPALIVE", engine.DefaultKeepAlive),
		WarmupTimeout:       env.Duration("WARMUP_TIMEOUT", engine.DefaultWarmupTimeout),
		LLMAPIBase:          env.Str("LLM_API_BASE", ollamaURL+"/v1"),
		LLMAPIKey:           env.Str("LLM_API_KEY", ""),
		LLMModel:            env.Str("LLM_MODEL", env.Str("OLLAMA_MODEL", engine.DefaultOllamaModel)),
		LLMTemperature:      env.Float("LLM_TEMPERATURE", 0.2),
		LLMMaxTokens:        env.Int("LLM_MAX_TOKENS", 4096),
		YouTubeURL:          env.Str("YOUTUBE_URL", engine.DefaultYouTubeURL),
		YouTubeLangs:        nonEmpty(env.List("YOUTUBE_LANGS", "")),
		TranscriptMaxTokens: env.Int("TRANSCRIPT_MAX_TOKENS", 0),
		MaxContentChars:     env.Int("MAX_CONTENT_CHARS", 20000),
		FetchTimeout:        env.Duration("FETCH_TIMEOUT", 20*time.Second),
		HTTPClient:          engine.NewHTTPClient(searchTimeout),
	}

	if truthy(env.Str("YT_STEALTH", "")) {
		bc, err := engine.NewBrowserClient(15, env.Str("WEBSHARE_API_KEY", ""))
		if err != nil {
			slog.Warn("stealth client init failed, using plain HTTP", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
		}
	}

	c.LLMClient = engine.NewLLMClient(c)
	return c
}

// Setup installs the engine configuration and the result cache. The cache
// cleanup loop stops with ctx.
func Setup(ctx context.Context) engine.Config {
	c := LoadConfig()
	engine.Init(c)
	engine.InitCache(ctx,
		env.Str("REDIS_URL", ""),
		env.Duration("CACHE_TTL", 15*time.Minute),
		env.Int("CACHE_MAX_ENTRIES", 1000),
		env.Duration("CACHE_CLEANUP_INTERVAL", 5*time.Minute),
	)
	return c
}

// OpenStore returns the artifact store for p. When the index opens, saves
// are recorded in it and the returned closer releases it.
func OpenStore(p Paths) (*artifact.Store, func()) {
	store := artifact.NewStore(p.ResearchDir, p.QueryDir)
	ix, err := index.Open(p.IndexPath)
	if err != nil {
		slog.Warn("artifact index unavailable", slog.String("path", p.IndexPath), slog.Any("error", err))
		return store, func() {}
	}
	store.Recorder = ix
	return store, func() { ix.Close() }
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
