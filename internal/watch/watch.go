// Package watch refreshes file-backed profile fields when their files
// change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/internal/config"
)

// Setter receives refreshed field values. *candidate.Profile satisfies it.
type Setter interface {
	Set(f candidate.Field, v string)
}

// Watcher follows a fixed set of files. Parent directories are watched
// rather than the files themselves so that editors which replace a file by
// renaming over it are still seen.
type Watcher struct {
	w      *fsnotify.Watcher
	log    *slog.Logger
	target Setter
	byPath map[string]candidate.Field
}

// New begins watching files. Each key of files is refreshed on target when
// its path is written, created or renamed into place.
func New(target Setter, files map[candidate.Field]string, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{w: fw, log: log, target: target, byPath: make(map[string]candidate.Field, len(files))}
	dirs := make(map[string]bool)
	for f, p := range files {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", f, err)
		}
		w.byPath[abs] = f
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run applies changes until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.w.Close() }()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.log.WarnContext(ctx, "watch.error", slog.String("err", err.Error()))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	f, ok := w.byPath[abs]
	if !ok {
		return
	}
	text, err := config.ReadField(abs)
	if err != nil {
		// The file may be mid-replace; the next event will retry.
		w.log.DebugContext(ctx, "watch.read_failed", slog.String("field", f.Slug()), slog.String("err", err.Error()))
		return
	}
	w.target.Set(f, text)
	w.log.InfoContext(ctx, "watch.refreshed", slog.String("field", f.Slug()), slog.Int("bytes", len(text)))
}
