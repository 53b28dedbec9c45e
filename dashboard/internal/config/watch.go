package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of fsnotify events an editor save
// produces (write, chmod, rename) into a single reload.
const reloadDebounce = 200 * time.Millisecond

// Watch reloads the config at path whenever it changes and hands the new
// Config to onChange. It watches the containing directory rather than the
// file itself, so atomic saves (write temp file, rename over the original)
// are picked up without re-arming the watch. Runs until ctx is cancelled.
//
// A failed reload (invalid YAML, validation error) is logged and dropped;
// onChange is only called with configs that pass validation.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	target := filepath.Base(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
				fire = debounce.C
			} else {
				debounce.Reset(reloadDebounce)
			}

		case <-fire:
			debounce, fire = nil, nil
			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed, keeping previous config",
					"path", path, "err", err)
				continue
			}
			slog.Info("config: reloaded", "path", path)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
