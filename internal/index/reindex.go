package index

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/liludouglass/opencode-workflow/internal/artifact"
)

// Roots are the two artifact directories the index mirrors.
type Roots struct {
	ResearchDir string
	QueryDir    string
}

// Abs resolves both roots to absolute paths.
func (r Roots) Abs() Roots {
	abs := func(p string) string {
		if a, err := filepath.Abs(p); err == nil {
			return a
		}
		return p
	}
	return Roots{ResearchDir: abs(r.ResearchDir), QueryDir: abs(r.QueryDir)}
}

// classify maps an absolute file path onto its artifact kind and slug.
func (r Roots) classify(path string) (artifact.Kind, string, int, bool) {
	dir, name := filepath.Split(path)
	dir = filepath.Clean(dir)

	if v, ok := artifact.ParseResearchFileName(name); ok {
		switch {
		case filepath.Dir(dir) == r.ResearchDir:
			return artifact.KindResearch, filepath.Base(dir), v, true
		case dir == r.ResearchDir:
			return artifact.KindResearch, "", v, true
		}
	}
	if dir == r.QueryDir {
		if slug, v, ok := artifact.ParseQueryFileName(name); ok {
			return artifact.KindQuery, slug, v, true
		}
	}
	return "", "", 0, false
}

// frontMatter holds the keys both templates write. Extra metadata keys are ignored.
type frontMatter struct {
	Topic    string `yaml:"topic"`
	Version  int    `yaml:"version"`
	Created  string `yaml:"created"`
	Query    string `yaml:"query"`
	VideoURL string `yaml:"video_url"`
}

var errNoFrontMatter = errors.New("no front-matter block")

// parseFrontMatter decodes the leading ---/--- block of an artifact.
func parseFrontMatter(data []byte) (*frontMatter, error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return nil, errNoFrontMatter
	}
	rest := data[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end < 0 {
		if !bytes.HasSuffix(rest, []byte("\n---")) {
			return nil, errNoFrontMatter
		}
		end = len(rest) - len("\n---")
	}
	var fm frontMatter
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return nil, fmt.Errorf("front-matter: %w", err)
	}
	return &fm, nil
}

// IndexFile records one artifact file. Paths outside the roots are ignored.
func (ix *Index) IndexFile(ctx context.Context, roots Roots, path string) error {
	kind, slug, version, ok := roots.classify(path)
	if !ok {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("index: read %s: %w", path, err)
	}
	fm, err := parseFrontMatter(data)
	if err != nil {
		return fmt.Errorf("index: %s: %w", path, err)
	}

	saved := artifact.Saved{Kind: kind, Slug: slug, Version: version, Path: path}
	switch kind {
	case artifact.KindResearch:
		saved.Title = fm.Topic
		if fm.Version > 0 {
			saved.Version = fm.Version
		}
	case artifact.KindQuery:
		saved.Title = fm.Query
	}
	if saved.Created, err = createdAt(fm.Created); err != nil {
		info, statErr := os.Stat(path)
		if statErr != nil {
			return fmt.Errorf("index: stat %s: %w", path, statErr)
		}
		saved.Created = info.ModTime()
	}
	return ix.Record(ctx, saved)
}

// Reindex walks both roots and records every artifact it can parse.
// Files with malformed front-matter are skipped with a warning.
func (ix *Index) Reindex(ctx context.Context, roots Roots) (int, error) {
	roots = roots.Abs()
	var paths []string

	researchEntries, err := readDirIfExists(roots.ResearchDir)
	if err != nil {
		return 0, err
	}
	for _, e := range researchEntries {
		p := filepath.Join(roots.ResearchDir, e.Name())
		if !e.IsDir() {
			paths = append(paths, p)
			continue
		}
		topic, err := readDirIfExists(p)
		if err != nil {
			return 0, err
		}
		for _, f := range topic {
			if !f.IsDir() {
				paths = append(paths, filepath.Join(p, f.Name()))
			}
		}
	}

	queryEntries, err := readDirIfExists(roots.QueryDir)
	if err != nil {
		return 0, err
	}
	for _, e := range queryEntries {
		if !e.IsDir() {
			paths = append(paths, filepath.Join(roots.QueryDir, e.Name()))
		}
	}

	n := 0
	for _, p := range paths {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		if _, _, _, ok := roots.classify(p); !ok {
			continue
		}
		if err := ix.IndexFile(ctx, roots, p); err != nil {
			slog.Warn("index: skipping artifact", slog.String("path", p), slog.Any("error", err))
			continue
		}
		n++
	}
	slog.Info("index: reindexed", slog.Int("artifacts", n))
	return n, nil
}

func readDirIfExists(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: read dir %s: %w", dir, err)
	}
	return entries, nil
}

// Prune drops rows whose file no longer exists and returns how many went.
func (ix *Index) Prune(ctx context.Context) (int, error) {
	rows, err := ix.db.QueryContext(ctx, `SELECT path FROM artifacts`)
	if err != nil {
		return 0, fmt.Errorf("index: prune: %w", err)
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return 0, fmt.Errorf("index: prune scan: %w", err)
		}
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			stale = append(stale, p)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("index: prune: %w", err)
	}

	for _, p := range stale {
		if err := ix.Forget(ctx, p); err != nil {
			return 0, fmt.Errorf("index: forget %s: %w", p, err)
		}
	}
	return len(stale), nil
}

// Sync prunes missing files, then reindexes both roots.
func (ix *Index) Sync(ctx context.Context, roots Roots) (int, error) {
	if _, err := ix.Prune(ctx); err != nil {
		return 0, err
	}
	return ix.Reindex(ctx, roots)
}
