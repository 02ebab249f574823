package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the config file when it changes on disk and invokes a
// callback with the fresh Config. Only a subset of settings is safe to
// change at runtime (logging, resolver timeouts); the callback decides
// what to apply.
type Watcher struct {
	path     string
	onChange func(*Config)
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher creates a config file watcher.
func NewWatcher(path string, onChange func(*Config), logger *slog.Logger) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		logger:   logger.With("component", "config-watcher"),
		debounce: 500 * time.Millisecond,
	}
}

// Start blocks until ctx is canceled. Editors replace files rather than
// writing in place, so the parent directory is watched and events are
// filtered by name.
func (w *Watcher) Start(ctx context.Context) {
	if w.path == "" {
		return
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("fsnotify unavailable, config hot-reload disabled", "error", err)
		return
	}
	defer fw.Close() //nolint:errcheck

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		w.logger.Warn("watching config directory failed", "dir", dir, "error", err)
		return
	}

	w.logger.Info("watching config file", "path", w.path)

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			// Debounce: editors produce bursts of events per save.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-fire:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous settings", "error", err)
		return
	}
	w.logger.Info("config reloaded", "path", w.path)
	w.onChange(cfg)
}
