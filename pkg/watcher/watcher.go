package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/psychgraph/dsmviz/pkg/logging"
)

// ChangeEvent represents a batch of changes to the dataset file
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// DatasetWatcher watches the input table for changes. It watches the
// containing directory rather than the file itself so editors that replace
// the file on save (write to temp, rename) are still observed.
type DatasetWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan ChangeEvent
}

// New creates a watcher for the dataset file at path
func New(path string) (*DatasetWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve dataset path: %w", err)
	}

	return &DatasetWatcher{
		watcher: fsw,
		path:    abs,
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Start begins watching for changes to the dataset file
func (w *DatasetWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Info("watching dataset", "path", w.path)
	go w.processEvents(ctx)
	return nil
}

// processEvents filters directory events down to the dataset file and
// batches rapid successions into one ChangeEvent.
func (w *DatasetWatcher) processEvents(ctx context.Context) {
	var pending []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		w.events <- ChangeEvent{Paths: pending, Timestamp: time.Now()}
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			close(w.events)
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = append(pending, event.Name)
			flushTimer.Reset(100 * time.Millisecond)

		case <-flushTimer.C:
			flush()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

func (w *DatasetWatcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == w.path
}

// Events returns the channel of change events
func (w *DatasetWatcher) Events() <-chan ChangeEvent {
	return w.events
}

// Stop stops the file watcher
func (w *DatasetWatcher) Stop() error {
	return w.watcher.Close()
}
