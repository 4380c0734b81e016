// Package watcher reports changes to fight table files.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-pull-condenser/internal/data/scanner"
	"github.com/penwyp/go-pull-condenser/internal/util"
)

// Event is a change to one fight table file.
type Event struct {
	Path      string
	Operation string
}

// FileWatcher watches directories, recursively, and single files.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	paths     []string
	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewFileWatcher starts watching paths. Directories are watched recursively; a plain
// file is watched through its parent directory.
func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		paths:   paths,
		events:  make(chan Event, 100),
		done:    make(chan struct{}),
	}

	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fw.watcher.Add(filepath.Dir(path))
	}

	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			return fw.watcher.Add(p)
		}

		return nil
	})
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.addPath(event.Name); err != nil {
						util.LogWarn("cannot watch new directory", util.F("dir", event.Name), util.F("error", err.Error()))
					}
					continue
				}
			}

			if event.Op == fsnotify.Chmod || !scanner.IsFightFile(event.Name) {
				continue
			}

			select {
			case fw.events <- Event{Path: event.Name, Operation: event.Op.String()}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			util.LogError("file monitoring error", util.F("error", err.Error()))

		case <-fw.done:
			return
		}
	}
}

// Events returns the event channel. It is closed after Close.
func (fw *FileWatcher) Events() <-chan Event {
	return fw.events
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}

// Batch coalesces events into sets of changed paths. A batch is emitted once no new
// event has arrived for quiet. The returned channel closes when ctx is done or events
// closes; a pending batch is flushed first in the latter case.
func Batch(ctx context.Context, events <-chan Event, quiet time.Duration) <-chan []string {
	out := make(chan []string)

	go func() {
		defer close(out)

		pending := make(map[string]struct{})
		timer := time.NewTimer(quiet)
		timer.Stop()

		flush := func() bool {
			if len(pending) == 0 {
				return true
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})

			select {
			case out <- paths:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case ev, ok := <-events:
				if !ok {
					timer.Stop()
					flush()
					return
				}
				pending[ev.Path] = struct{}{}
				timer.Reset(quiet)
			case <-timer.C:
				if !flush() {
					return
				}
			}
		}
	}()

	return out
}
