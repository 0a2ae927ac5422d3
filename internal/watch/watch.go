// Package watch re-runs analysis whenever a watched source file changes
// on disk. Events are watched on the parent directory because many
// editors replace files on save, which drops inode-level watches.
package watch

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler is invoked with the watched path after each write.
type Handler func(path string)

// Watcher forwards write events for a single file to a handler.
type Watcher struct {
	fs     *fsnotify.Watcher
	logger *zap.Logger

	mu   sync.Mutex
	path string

	wg sync.WaitGroup
}

// New creates a stopped watcher.
func New(logger *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{fs: fs, logger: logger}, nil
}

// Watch starts forwarding events for path to handler. It returns after
// starting the event loop; Close stops it.
func (w *Watcher) Watch(path string, handler Handler) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.path = abs
	w.mu.Unlock()

	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.run(handler)
	return nil
}

func (w *Watcher) run(handler Handler) {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			path := w.path
			w.mu.Unlock()
			if filepath.Clean(event.Name) != path {
				continue
			}
			w.logger.Debug("file changed", zap.String("path", path))
			handler(path)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	w.wg.Wait()
	return err
}
