// Package watch reruns a callback when the inputs of the build graph change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/ninjagen/internal/ctxlog"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Config selects what is watched.
type Config struct {
	// Roots are watched recursively.
	Roots []string
	// Files trigger on any change, including plain writes.
	Files []string
	// Extensions trigger when files are created, removed or renamed.
	Extensions []string
	// SkipDirs are absolute directories never descended into.
	SkipDirs []string
	Debounce time.Duration
}

// Watcher wraps an fsnotify watcher with recursive registration and
// debouncing.
type Watcher struct {
	cfg   Config
	fsw   *fsnotify.Watcher
	files map[string]struct{}
	skip  map[string]struct{}
}

// New registers every root and the directory of every file.
func New(ctx context.Context, cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		cfg:   cfg,
		fsw:   fsw,
		files: make(map[string]struct{}, len(cfg.Files)),
		skip:  make(map[string]struct{}, len(cfg.SkipDirs)),
	}
	for _, d := range cfg.SkipDirs {
		w.skip[filepath.Clean(d)] = struct{}{}
	}
	for _, f := range cfg.Files {
		f = filepath.Clean(f)
		w.files[f] = struct{}{}
		if err := w.fsw.Add(filepath.Dir(f)); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	for _, root := range cfg.Roots {
		if err := w.addRecursive(ctx, root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) skipDir(path string) bool {
	base := filepath.Base(path)
	if base == "target" || (strings.HasPrefix(base, ".") && base != ".") {
		return true
	}
	_, ok := w.skip[filepath.Clean(path)]
	return ok
}

func (w *Watcher) addRecursive(ctx context.Context, root string) error {
	logger := ctxlog.FromContext(ctx)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logger.Warn("Failed to watch directory.", "path", path, "error", err)
			return nil
		}
		logger.Debug("Watching directory.", "path", path)
		return nil
	})
}

// Relevant reports whether ev should trigger a regeneration.
func (w *Watcher) Relevant(ev fsnotify.Event) bool {
	if _, ok := w.files[filepath.Clean(ev.Name)]; ok {
		return true
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	ext := filepath.Ext(ev.Name)
	for _, e := range w.cfg.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Run blocks until ctx is done, calling onChange with the sorted set of
// changed paths once events settle for the debounce interval. Errors from
// onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, []string) error) error {
	logger := ctxlog.FromContext(ctx)
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				w.watchNewDir(ctx, ev.Name)
			}
			if !w.Relevant(ev) {
				continue
			}
			logger.Debug("Change detected.", "path", ev.Name, "op", ev.Op.String())
			pending[ev.Name] = struct{}{}
			timer.Reset(w.cfg.Debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error.", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})
			if err := onChange(ctx, paths); err != nil {
				logger.Error("Regeneration failed.", "error", err)
			}
		}
	}
}

func (w *Watcher) watchNewDir(ctx context.Context, path string) {
	if info, err := os.Stat(path); err != nil || !info.IsDir() || w.skipDir(path) {
		return
	}
	if err := w.addRecursive(ctx, path); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to watch new directory.", "path", path, "error", err)
	}
}
