package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests     atomic.Int64
	SearchErrors       atomic.Int64
	WarmupRequests     atomic.Int64
	WarmupErrors       atomic.Int64
	TranscriptRequests atomic.Int64
	TranscriptErrors   atomic.Int64
	FetchRequests      atomic.Int64
	FetchErrors        atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	ArtifactSaves      atomic.Int64
	Retries            atomic.Int64
}

var metricKeys = []string{
	"search_requests", "search_errors",
	"warmup_requests", "warmup_errors",
	"transcript_requests", "transcript_errors",
	"fetch_requests", "fetch_errors",
	"llm_calls", "llm_errors",
	"artifact_saves", "retries",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"search_requests":     metrics.SearchRequests.Load(),
		"search_errors":       metrics.SearchErrors.Load(),
		"warmup_requests":     metrics.WarmupRequests.Load(),
		"warmup_errors":       metrics.WarmupErrors.Load(),
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"transcript_errors":   metrics.TranscriptErrors.Load(),
		"fetch_requests":      metrics.FetchRequests.Load(),
		"fetch_errors":        metrics.FetchErrors.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"artifact_saves":      metrics.ArtifactSaves.Load(),
		"retries":             metrics.Retries.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ and artifact callers.
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptErrors()   { metrics.TranscriptErrors.Add(1) }
func IncrArtifactSaves()      { metrics.ArtifactSaves.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
