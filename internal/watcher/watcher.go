// Package watcher provides file system watching with debouncing for the
// repository's .git directory.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the .git directory for history and index changes and
// sends debounced notifications.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	gitDir    string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// GitDir is the repository's .git directory.
	GitDir      string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(gitDir string) Config {
	return Config{
		GitDir:      gitDir,
		DebounceDur: 400 * time.Millisecond,
	}
}

// New creates a new repository watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		gitDir:    cfg.GitDir,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the .git directory and the refs/heads tree.
// Returns a channel that receives a signal when the repository changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.gitDir); err != nil {
		return nil, fmt.Errorf("watching %s: %w", w.gitDir, err)
	}
	// Branch updates land under refs/heads; the directory may be missing
	// in a fresh repo where all refs are packed.
	headsDir := filepath.Join(w.gitDir, "refs", "heads")
	_ = w.fsWatcher.Add(headsDir)

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send - drop if channel full
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching. Callers can wrap the watcher if they need
			// error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a refresh.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	switch base {
	case "HEAD", "index", "ORIG_HEAD", "packed-refs":
		return true
	}
	// git writes refs through temp lock files; ignore those, react to
	// the final ref file.
	if strings.HasSuffix(base, ".lock") {
		return false
	}
	return strings.Contains(event.Name, filepath.Join("refs", "heads"))
}
