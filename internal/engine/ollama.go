package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Warmup asks Ollama to generate a single token so the model is loaded into
// memory and kept resident for keepAlive. Empty arguments fall back to the
// configured defaults. Failures are reported in the result, never as an error.
func Warmup(ctx context.Context, model, keepAlive string) WarmupResult {
	if model == "" {
		model = cfg.OllamaModel
	}
	if keepAlive == "" {
		keepAlive = cfg.OllamaKeepAlive
	}
	metrics.WarmupRequests.Add(1)

	if err := generateOnce(ctx, model, keepAlive); err != nil {
		metrics.WarmupErrors.Add(1)
		slog.Warn("warmup failed", slog.String("model", model), slog.Any("error", err))
		return WarmupResult{Success: false, Error: err.Error()}
	}

	slog.Debug("warmup done", slog.String("model", model), slog.String("keepalive", keepAlive))
	return WarmupResult{
		Success:   true,
		Model:     model,
		KeepAlive: keepAlive,
		Message:   fmt.Sprintf("Model %s is now warm and will stay loaded for %s", model, keepAlive),
	}
}

func generateOnce(ctx context.Context, model, keepAlive string) error {
	payload, err := json.Marshal(generateRequest{
		Model:     model,
		Prompt:    "hi",
		Stream:    false,
		KeepAlive: keepAlive,
		Options:   generateOptions{NumPredict: 1},
	})
	if err != nil {
		return NewToolError(KindInternal, err, "Unexpected error: %v", err)
	}

	endpoint := strings.TrimRight(cfg.OllamaURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return NewToolError(KindInternal, err, "Unexpected error: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := clientWithTimeout(cfg.WarmupTimeout).Do(req)
	if err != nil {
		return NewToolError(KindNetwork, err, "URL Error: %s - Is Ollama running?", transportReason(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		se := &StatusError{StatusCode: resp.StatusCode}
		return NewToolError(KindHTTP, se, "%s", se.Error())
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewToolError(KindNetwork, err, "URL Error: %s - Is Ollama running?", transportReason(err))
	}
	var generated map[string]any
	if err := json.Unmarshal(body, &generated); err != nil {
		return NewToolError(KindDecode, err, "Unexpected error: %v", err)
	}
	return nil
}
