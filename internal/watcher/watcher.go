// Package watcher reports changes under music folders so the indexes can be
// rebuilt after files are added, edited or removed.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures a Watcher.
type Options struct {
	// Quiet is how long the tree must stay unchanged before a batch is
	// emitted (default: 2s).
	Quiet time.Duration
	// Match selects the file paths that count as changes. Nil counts every
	// file. Removed and renamed paths always count, since a removed
	// directory may have held matching files.
	Match func(path string) bool
}

func (o *Options) setDefaults() {
	if o.Quiet <= 0 {
		o.Quiet = 2 * time.Second
	}
	if o.Match == nil {
		o.Match = func(string) bool { return true }
	}
}

// Batch is the set of paths that changed during one burst of activity.
type Batch struct {
	Paths []string // sorted
}

// Watcher watches directory trees with fsnotify and coalesces events into
// batches. Hidden files and directories are ignored.
type Watcher struct {
	logger  *slog.Logger
	opts    Options
	fs      *fsnotify.Watcher
	batches chan Batch
}

// New creates a watcher. Call Watch for each root, then Run.
func New(logger *slog.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		logger:  logger,
		opts:    opts,
		fs:      fs,
		batches: make(chan Batch, 1),
	}, nil
}

// Watch adds root and every non-hidden directory below it.
func (w *Watcher) Watch(root string) error {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	return w.watchTree(root)
}

func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("failed to access path", "path", p, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			w.logger.Error("failed to add watch", "path", p, "error", err)
			return nil
		}
		w.logger.Debug("added watch", "path", p)
		return nil
	})
}

// Batches returns the channel batches are delivered on. It is closed when
// Run returns.
func (w *Watcher) Batches() <-chan Batch {
	return w.batches
}

// Run processes events until ctx is canceled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.batches)
	defer w.fs.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.opts.Quiet)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.changed(event) {
				pending[event.Name] = true
				timer.Reset(w.opts.Quiet)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)

			select {
			case w.batches <- Batch{Paths: paths}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// changed reports whether event counts toward the next batch. New
// directories are watched as they appear.
func (w *Watcher) changed(event fsnotify.Event) bool {
	if isHidden(filepath.Base(event.Name)) {
		return false
	}
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return true
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watchTree(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return true
		}
	}
	return w.opts.Match(event.Name)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
