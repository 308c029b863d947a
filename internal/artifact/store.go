package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// maxVersionBumps bounds how far the writer walks past the scanned version
// when another writer keeps winning the exclusive create.
const maxVersionBumps = 1000

// Kind tells research artifacts and yt-query artifacts apart.
type Kind string

const (
	KindResearch Kind = "research"
	KindQuery    Kind = "yt_query"
)

// Saved describes one persisted artifact.
type Saved struct {
	Kind    Kind
	Slug    string
	Version int
	Title   string
	Path    string
	Created time.Time
}

// Recorder is notified after every successful write. Failures are logged
// and never fail the save.
type Recorder interface {
	Record(ctx context.Context, s Saved) error
}

// Store writes versioned artifacts below two root directories.
type Store struct {
	ResearchDir string
	QueryDir    string
	Recorder    Recorder
	Now         func() time.Time
}

// NewStore resolves both roots to absolute paths.
func NewStore(researchDir, queryDir string) *Store {
	return &Store{
		ResearchDir: absPath(researchDir),
		QueryDir:    absPath(queryDir),
		Now:         time.Now,
	}
}

// ResearchRequest is the input of SaveResearch.
type ResearchRequest struct {
	Topic       string
	Content     string
	Sources     []string
	KeyFindings []string
	Metadata    *Metadata
}

// ResearchResult is the JSON printed after a research save.
type ResearchResult struct {
	Success     bool   `json:"success"`
	FilePath    string `json:"file_path"`
	TopicFolder string `json:"topic_folder"`
	Version     int    `json:"version"`
	Message     string `json:"message"`
}

// QueryRequest is the input of SaveQuery.
type QueryRequest struct {
	VideoURL string
	Query    string
	Answer   string
	VideoID  string
}

// QueryResult is the JSON printed after a yt-query save.
type QueryResult struct {
	Success  bool   `json:"success"`
	FilePath string `json:"file_path"`
	Filename string `json:"filename"`
	Version  int    `json:"version"`
	Message  string `json:"message"`
}

// SaveResearch writes research/<topic_slug>/output_v<N>.md.
// Filesystem errors are returned as-is.
func (s *Store) SaveResearch(ctx context.Context, req ResearchRequest) (*ResearchResult, error) {
	folder := Slugify(req.Topic)
	dir := filepath.Join(s.ResearchDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("save research: mkdir %s: %w", dir, err)
	}

	created := s.now()
	path, version, err := writeVersioned(dir, NextResearchVersion(dir), researchFileName, func(v int) []byte {
		doc := ResearchDoc{
			Topic:       req.Topic,
			Version:     v,
			Created:     created,
			Content:     req.Content,
			Sources:     req.Sources,
			KeyFindings: req.KeyFindings,
			Metadata:    req.Metadata,
		}
		return []byte(Render(doc.Lines()))
	})
	if err != nil {
		return nil, fmt.Errorf("save research: %w", err)
	}

	s.record(ctx, Saved{
		Kind:    KindResearch,
		Slug:    folder,
		Version: version,
		Title:   req.Topic,
		Path:    path,
		Created: created,
	})

	return &ResearchResult{
		Success:     true,
		FilePath:    path,
		TopicFolder: folder,
		Version:     version,
		Message:     "Research saved to " + path,
	}, nil
}

// SaveQuery writes <query dir>/<query_slug>_v<N>.md.
func (s *Store) SaveQuery(ctx context.Context, req QueryRequest) (*QueryResult, error) {
	if err := os.MkdirAll(s.QueryDir, 0o755); err != nil {
		return nil, fmt.Errorf("save query: mkdir %s: %w", s.QueryDir, err)
	}

	slug := QuerySubject(req.Query)
	created := s.now()
	name := func(v int) string { return queryFileName(slug, v) }
	path, version, err := writeVersioned(s.QueryDir, NextQueryVersion(s.QueryDir, slug), name, func(int) []byte {
		doc := QueryDoc{
			VideoURL: req.VideoURL,
			VideoID:  req.VideoID,
			Query:    req.Query,
			Slug:     slug,
			Answer:   req.Answer,
			Created:  created,
		}
		return []byte(Render(doc.Lines()))
	})
	if err != nil {
		return nil, fmt.Errorf("save query: %w", err)
	}

	s.record(ctx, Saved{
		Kind:    KindQuery,
		Slug:    slug,
		Version: version,
		Title:   req.Query,
		Path:    path,
		Created: created,
	})

	return &QueryResult{
		Success:  true,
		FilePath: path,
		Filename: filepath.Base(path),
		Version:  version,
		Message:  "Saved to " + path,
	}, nil
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Store) record(ctx context.Context, saved Saved) {
	if s.Recorder == nil {
		return
	}
	if err := s.Recorder.Record(ctx, saved); err != nil {
		slog.Warn("artifact: index record failed",
			slog.String("path", saved.Path), slog.Any("error", err))
	}
}

// writeVersioned creates dir/name(v) exclusively, starting at version start
// and moving up while the name is taken. body is rendered per attempt since
// the version can appear in the content.
func writeVersioned(dir string, start int, name func(int) string, body func(int) []byte) (string, int, error) {
	for v := start; v < start+maxVersionBumps; v++ {
		path := filepath.Join(dir, name(v))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			slog.Debug("artifact: version taken, bumping", slog.String("path", path))
			continue
		}
		if err != nil {
			return "", 0, err
		}
		if _, err := f.Write(body(v)); err != nil {
			f.Close()
			os.Remove(path)
			return "", 0, fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", 0, fmt.Errorf("close %s: %w", path, err)
		}
		return path, v, nil
	}
	return "", 0, fmt.Errorf("no free version in %s after %d attempts", dir, maxVersionBumps)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// ParseKind maps a user-supplied kind name to a Kind. Empty and "all" mean
// every kind and yield "".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "all":
		return "", nil
	case "research":
		return KindResearch, nil
	case "yt_query", "yt-query", "query":
		return KindQuery, nil
	}
	return "", fmt.Errorf("unknown artifact kind %q (valid: research, yt_query, all)", s)
}
