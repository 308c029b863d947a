package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch keeps the index in sync with files created, modified, or removed
// under roots until ctx is done. Roots are created if missing.
func (ix *Index) Watch(ctx context.Context, roots Roots) error {
	roots = roots.Abs()
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("index: watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range []string{roots.ResearchDir, roots.QueryDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("index: mkdir %s: %w", dir, err)
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("index: watch %s: %w", dir, err)
		}
	}
	topics, err := os.ReadDir(roots.ResearchDir)
	if err != nil {
		return fmt.Errorf("index: read dir %s: %w", roots.ResearchDir, err)
	}
	for _, e := range topics {
		if e.IsDir() {
			ix.addTopicDir(ctx, w, roots, filepath.Join(roots.ResearchDir, e.Name()), false)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			ix.handleEvent(ctx, w, roots, ev)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("index: watcher error", slog.Any("error", err))
		}
	}
}

func (ix *Index) handleEvent(ctx context.Context, w *fsnotify.Watcher, roots Roots, ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Create):
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if filepath.Dir(ev.Name) == roots.ResearchDir {
				ix.addTopicDir(ctx, w, roots, ev.Name, true)
			}
			return
		}
		ix.indexEvent(ctx, roots, ev.Name)
	case ev.Has(fsnotify.Write):
		ix.indexEvent(ctx, roots, ev.Name)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if filepath.Ext(ev.Name) == ".md" {
			if err := ix.Forget(ctx, ev.Name); err != nil {
				slog.Warn("index: forget failed", slog.String("path", ev.Name), slog.Any("error", err))
			}
		}
	}
}

// addTopicDir watches a research topic folder. Files written before the
// watch was in place are indexed when scan is set.
func (ix *Index) addTopicDir(ctx context.Context, w *fsnotify.Watcher, roots Roots, dir string, scan bool) {
	if err := w.Add(dir); err != nil {
		slog.Warn("index: watch topic failed", slog.String("dir", dir), slog.Any("error", err))
		return
	}
	if !scan {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			ix.indexEvent(ctx, roots, filepath.Join(dir, e.Name()))
		}
	}
}

func (ix *Index) indexEvent(ctx context.Context, roots Roots, path string) {
	if filepath.Ext(path) != ".md" {
		return
	}
	if err := ix.IndexFile(ctx, roots, path); err != nil {
		// Partial writes surface here; the next Write event retries.
		slog.Debug("index: file not indexed", slog.String("path", path), slog.Any("error", err))
	}
}
