package engine

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-kit/strutil"
)

// maxPromptTranscriptChars bounds the transcript excerpt placed in a prompt.
const maxPromptTranscriptChars = 60000

// NewLLMClient builds the OpenAI-compatible client from c.
// Returns nil when no model is configured.
func NewLLMClient(c Config) *llm.Client {
	if c.LLMModel == "" || c.LLMAPIBase == "" {
		return nil
	}
	return llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
		llm.WithMaxTokens(c.LLMMaxTokens),
		llm.WithTemperature(c.LLMTemperature),
		llm.WithHTTPClient(&http.Client{Timeout: 5 * time.Minute}),
	)
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, system, prompt string) (string, error) {
	if cfg.LLMClient == nil {
		return "", NewToolError(KindUnavailable, nil, "LLM not configured: set LLM_MODEL")
	}
	metrics.LLMCalls.Add(1)
	resp, err := cfg.LLMClient.Complete(ctx, system, prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", NewToolError(KindNetwork, err, "LLM Error: %v", err)
	}
	return stripFences(resp), nil
}

// AskVideo answers query from a video transcript.
func AskVideo(ctx context.Context, videoURL, transcript, query string) (string, error) {
	prompt := buildAskPrompt(videoURL, transcript, query)
	answer, err := CallLLM(ctx, askVideoSystem, prompt)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", NewToolError(KindDecode, nil, "LLM returned an empty answer")
	}
	return answer, nil
}

func buildAskPrompt(videoURL, transcript, query string) string {
	excerpt := strutil.TruncateWith(transcript, maxPromptTranscriptChars, " [...]")
	return fmt.Sprintf(askVideoPrompt, currentDate(), videoURL, excerpt, query)
}

// currentDate returns today's date in ISO 8601 format (UTC).
func currentDate() string {
	return time.Now().UTC().Format("2006-01-02")
}
