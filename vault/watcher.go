package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of filesystem events; editors often write
// files in multiple steps, and atomic saves show up as remove+create pairs.
const debounceDelay = 100 * time.Millisecond

// Watch blocks until ctx is done, invoking onChange (debounced) whenever a
// markdown file in the vault is written, created, removed, or renamed.
// Directories added while watching are picked up on their create events.
func (v *Vault) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := v.watchDirs(watcher); err != nil {
		return err
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// New subdirectories need their own watches.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = v.maybeWatchDir(watcher, event.Name)
					continue
				}
			}

			if !relevant(event.Name) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher error: %w", err)
		}
	}
}

// watchDirs adds a watch on every directory in the vault.
func (v *Vault) watchDirs(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != v.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// maybeWatchDir adds a watch unless the directory is hidden.
func (v *Vault) maybeWatchDir(watcher *fsnotify.Watcher, path string) error {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return nil
	}
	return watcher.Add(path)
}

// relevant reports whether a change to name should trigger a refresh.
func relevant(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}
