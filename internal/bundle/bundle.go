// Package bundle builds token-budgeted context bundles for one task of a
// feature directory (spec.md, tasks.md, acceptance.md, progress.md).
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/liludouglass/opencode-workflow/internal/tokens"
)

// Defaults applied when a request leaves them at zero.
const (
	DefaultMaxTokens       = 8000
	DefaultProgressHistory = 10
)

// TruncatedMarker ends a spec section cut to fit the budget.
const TruncatedMarker = "\n\n[... truncated for token budget ...]"

// minTruncatedTokens is the least room worth filling with a cut section.
const minTruncatedTokens = 100

// Bundle is the context handed to an agent working on one task.
type Bundle struct {
	TaskID             string   `json:"task_id"`
	SpecSections       []string `json:"spec_sections"`
	AcceptanceCriteria []string `json:"acceptance_criteria"`
	FilesToModify      []string `json:"files_to_modify"`
	RecentProgress     []string `json:"recent_progress"`
	TotalTokens        int      `json:"total_tokens"`
}

// Generator builds bundles under a token budget.
type Generator struct {
	MaxTokens       int
	ProgressHistory int
}

// NewGenerator applies the defaults to non-positive arguments.
func NewGenerator(maxTokens, progressHistory int) *Generator {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if progressHistory <= 0 {
		progressHistory = DefaultProgressHistory
	}
	return &Generator{MaxTokens: maxTokens, ProgressHistory: progressHistory}
}

// Generate reads featureDir and assembles the bundle for taskID. Missing
// files contribute nothing; only a missing featureDir is an error.
func (g *Generator) Generate(ctx context.Context, taskID, featureDir string) (*Bundle, error) {
	info, err := os.Stat(featureDir)
	if err != nil {
		return nil, fmt.Errorf("feature dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("feature dir %s is not a directory", featureDir)
	}

	var (
		task     Task
		found    bool
		specs    []string
		criteria []string
		progress []string
	)
	if content, ok := readOptional(featureDir, "tasks.md"); ok {
		task, found = ParseTask(content, taskID)
	}
	if content, ok := readOptional(featureDir, "spec.md"); ok && found {
		for _, s := range RelevantSections(ParseSections(content), task) {
			specs = append(specs, s.Content)
		}
	}
	if content, ok := readOptional(featureDir, "acceptance.md"); ok {
		criteria = ParseCriteria(content, taskID)
	}
	if content, ok := readOptional(featureDir, "progress.md"); ok {
		progress = RecentProgress(ParseProgress(content), taskID, g.ProgressHistory)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := g.fit(specs, criteria, progress, task.Files)
	b.TaskID = taskID
	slog.Debug("context bundle",
		slog.String("task", taskID),
		slog.Int("tokens", b.TotalTokens),
		slog.Int("spec_sections", len(b.SpecSections)),
		slog.Int("criteria", len(b.AcceptanceCriteria)),
		slog.Int("progress", len(b.RecentProgress)))
	return b, nil
}

// fit fills the budget in priority order. Acceptance criteria get 15%,
// files 5% and progress 30%; spec sections take what is left, with the
// first section that does not fit cut down when at least
// minTruncatedTokens remain.
func (g *Generator) fit(specs, criteria, progress, files []string) *Bundle {
	b := &Bundle{
		SpecSections:       []string{},
		AcceptanceCriteria: []string{},
		FilesToModify:      []string{},
		RecentProgress:     []string{},
	}
	used := 0
	take := func(dst *[]string, items []string, share int) {
		limit := used + share
		for _, it := range items {
			if tokens.WouldExceedBudget(used, it, limit) {
				continue
			}
			*dst = append(*dst, it)
			used += tokens.EstimateTokens(it)
		}
	}
	take(&b.AcceptanceCriteria, criteria, g.MaxTokens*15/100)
	take(&b.FilesToModify, files, g.MaxTokens*5/100)
	take(&b.RecentProgress, progress, g.MaxTokens*30/100)

	markerTokens := tokens.EstimateTokens(TruncatedMarker)
	for _, s := range specs {
		if !tokens.WouldExceedBudget(used, s, g.MaxTokens) {
			b.SpecSections = append(b.SpecSections, s)
			used += tokens.EstimateTokens(s)
			continue
		}
		room := g.MaxTokens - used - markerTokens
		if room > minTruncatedTokens {
			cut, _ := tokens.TruncateToBudget(s, room)
			b.SpecSections = append(b.SpecSections, cut+TruncatedMarker)
			break
		}
	}

	all := make([]string, 0, len(b.SpecSections)+len(b.AcceptanceCriteria)+len(b.RecentProgress)+len(b.FilesToModify))
	all = append(all, b.SpecSections...)
	all = append(all, b.AcceptanceCriteria...)
	all = append(all, b.RecentProgress...)
	all = append(all, b.FilesToModify...)
	b.TotalTokens = tokens.EstimateTokensAll(all)
	return b
}

// readOptional returns the file's content. A missing file is not an error;
// other read failures are logged and skipped.
func readOptional(dir, name string) (string, bool) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("context bundle: read failed", slog.String("path", path), slog.Any("error", err))
		}
		return "", false
	}
	return string(data), true
}
