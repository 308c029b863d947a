package toolserver

import (
	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/tokens"
)

// GoogleSearchInput is the input for google_search.
type GoogleSearchInput struct {
	Query      string `json:"query" jsonschema:"Search query"`
	NumResults int    `json:"num_results,omitempty" jsonschema:"Number of results, 1 to 10 (default 10)"`
}

// SaveResearchInput is the input for save_research.
type SaveResearchInput struct {
	Topic       string         `json:"topic" jsonschema:"Research topic, used as the folder name"`
	Content     string         `json:"content,omitempty" jsonschema:"Research body in markdown"`
	Sources     []string       `json:"sources,omitempty" jsonschema:"Source URLs or citations"`
	KeyFindings []string       `json:"key_findings,omitempty" jsonschema:"Short key findings"`
	Metadata    map[string]any `json:"metadata,omitempty" jsonschema:"Extra front-matter fields (written in alphabetical key order)"`
}

// TranscriptInput is the input for get_transcript.
type TranscriptInput struct {
	URL string `json:"url" jsonschema:"YouTube URL or 11-character video ID"`
}

// SaveQueryInput is the input for save_query.
type SaveQueryInput struct {
	VideoURL string `json:"video_url" jsonschema:"YouTube video URL"`
	Query    string `json:"query" jsonschema:"Question asked about the video"`
	Answer   string `json:"answer" jsonschema:"Answer in markdown"`
	VideoID  string `json:"video_id,omitempty" jsonschema:"YouTube video ID"`
}

// WarmupInput is the input for warmup.
type WarmupInput struct {
	Model     string `json:"model,omitempty" jsonschema:"Ollama model name (default qwen3:30b)"`
	KeepAlive string `json:"keepalive,omitempty" jsonschema:"How long the model stays loaded, e.g. 60m"`
}

// CountTokensInput is the input for count_tokens.
type CountTokensInput struct {
	Paths []string `json:"paths,omitempty" jsonschema:"Files to count"`
	Text  string   `json:"text,omitempty" jsonschema:"Inline text to count instead of files"`
}

// CountTokensOutput is the output of count_tokens.
type CountTokensOutput struct {
	Files       []tokens.FileStats `json:"files"`
	TotalTokens int                `json:"total_tokens"`
	TotalWords  int                `json:"total_words"`
	TotalChars  int                `json:"total_chars"`
}

// WebFetchInput is the input for web_fetch.
type WebFetchInput struct {
	URL      string   `json:"url,omitempty" jsonschema:"Page URL to fetch"`
	URLs     []string `json:"urls,omitempty" jsonschema:"Several page URLs to fetch in parallel"`
	MaxChars int      `json:"max_chars,omitempty" jsonschema:"Maximum markdown characters per page"`
}

// WebFetchOutput is the output of web_fetch.
type WebFetchOutput struct {
	Pages []engine.FetchResult `json:"pages"`
}

// AskVideoInput is the input for ask_video.
type AskVideoInput struct {
	URL   string `json:"url" jsonschema:"YouTube URL or video ID"`
	Query string `json:"query" jsonschema:"Question about the video"`
	Save  bool   `json:"save,omitempty" jsonschema:"Persist the answer as a yt-query artifact"`
}

// ListArtifactsInput is the input for list_artifacts.
type ListArtifactsInput struct {
	Kind  string `json:"kind,omitempty" jsonschema:"research, yt_query or all (default all)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum entries (default 50, max 500)"`
}

// ContextGenerateInput is the input for context_generate.
type ContextGenerateInput struct {
	TaskID          string `json:"task_id" jsonschema:"Task ID to build the bundle for, e.g. TASK-001"`
	FeatureDir      string `json:"feature_dir" jsonschema:"Feature directory holding spec.md, tasks.md, acceptance.md and progress.md"`
	MaxTokens       int    `json:"max_tokens,omitempty" jsonschema:"Token budget for the bundle (default 8000)"`
	ProgressHistory int    `json:"progress_history,omitempty" jsonschema:"Number of recent progress entries to consider (default 10)"`
}

// ContextTokensInput is the input for context_get_tokens.
type ContextTokensInput struct {
	Text string `json:"text" jsonschema:"Text to count"`
}

// ContextTokensOutput is the output of context_get_tokens.
type ContextTokensOutput struct {
	Tokens int `json:"tokens"`
}
