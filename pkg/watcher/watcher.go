// Package watcher rebuilds artifacts when summary files change on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher calls a rebuild function after files in a directory settle.
type Watcher struct {
	dir      string
	debounce time.Duration
	pattern  string
	log      logrus.FieldLogger
}

// New creates a watcher for dir. Events are coalesced until no matching
// change has been seen for debounce.
func New(dir string, debounce time.Duration, log logrus.FieldLogger) *Watcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Watcher{dir: dir, debounce: debounce, pattern: "*.csv", log: log}
}

// WithPattern restricts rebuilds to file names matching a filepath.Match pattern.
func (w *Watcher) WithPattern(pattern string) *Watcher {
	w.pattern = pattern
	return w
}

func (w *Watcher) matches(name string) bool {
	ok, err := filepath.Match(w.pattern, filepath.Base(name))
	return err == nil && ok
}

// Run blocks until ctx is done. Rebuild errors are logged, not returned, so a
// half-written file does not stop the watch.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.log.WithField("dir", w.dir).Info("Watching for summary changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			w.log.WithField("file", event.Name).Debug("Summary changed")
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("Watcher error")

		case <-timer.C:
			if err := rebuild(ctx); err != nil {
				w.log.WithError(err).Error("Rebuild failed")
			}
		}
	}
}
