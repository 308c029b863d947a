package toolutil

import (
	"context"
	"fmt"

	"github.com/liludouglass/opencode-workflow/internal/artifact"
	"github.com/liludouglass/opencode-workflow/internal/engine"
	"github.com/liludouglass/opencode-workflow/internal/engine/sources"
	"github.com/liludouglass/opencode-workflow/internal/index"
)

// SaveResearch persists a research artifact and counts the save.
func SaveResearch(ctx context.Context, store *artifact.Store, req artifact.ResearchRequest) (*artifact.ResearchResult, error) {
	res, err := store.SaveResearch(ctx, req)
	if err != nil {
		return nil, err
	}
	engine.IncrArtifactSaves()
	return res, nil
}

// SaveQuery persists a yt-query artifact and counts the save.
func SaveQuery(ctx context.Context, store *artifact.Store, req artifact.QueryRequest) (*artifact.QueryResult, error) {
	res, err := store.SaveQuery(ctx, req)
	if err != nil {
		return nil, err
	}
	engine.IncrArtifactSaves()
	return res, nil
}

// AskResult is the answer to a question about one video.
type AskResult struct {
	VideoID             string                `json:"video_id"`
	URL                 string                `json:"url"`
	Query               string                `json:"query"`
	Answer              string                `json:"answer"`
	TranscriptTruncated bool                  `json:"transcript_truncated,omitempty"`
	Saved               *artifact.QueryResult `json:"saved,omitempty"`
}

// AskVideo fetches the transcript of videoURL and asks the model query
// about it. With save set, the answer is written as a yt-query artifact.
// Transcript and model failures are *engine.ToolError; save failures are not.
func AskVideo(ctx context.Context, store *artifact.Store, videoURL, query string, save bool) (*AskResult, error) {
	tr, err := sources.GetTranscript(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	answer, err := engine.AskVideo(ctx, tr.URL, tr.Transcript, query)
	if err != nil {
		return nil, err
	}

	out := &AskResult{
		VideoID:             tr.VideoID,
		URL:                 tr.URL,
		Query:               query,
		Answer:              answer,
		TranscriptTruncated: tr.Truncated,
	}
	if !save {
		return out, nil
	}
	saved, err := SaveQuery(ctx, store, artifact.QueryRequest{
		VideoURL: videoURL,
		Query:    query,
		Answer:   answer,
		VideoID:  tr.VideoID,
	})
	if err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}
	out.Saved = saved
	return out, nil
}

// ListArtifacts syncs the index with the roots and lists the newest entries.
// An unknown kind is a usage *engine.ToolError.
func ListArtifacts(ctx context.Context, ix *index.Index, roots index.Roots, kind string, limit int) (*index.ListResult, error) {
	k, err := artifact.ParseKind(kind)
	if err != nil {
		return nil, engine.NewToolError(engine.KindUsage, err, "%v", err)
	}
	if _, err := ix.Sync(ctx, roots); err != nil {
		return nil, fmt.Errorf("sync index: %w", err)
	}
	return ix.List(ctx, k, limit)
}
