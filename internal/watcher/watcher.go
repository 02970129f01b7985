package watcher

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher runs one fsnotify watch on a drop directory and invokes the
// handler for every settled bundle file that appears in it.
type Watcher struct {
	dir     string
	handler func(path string)

	// settlePoll and settleMax control how long a candidate may keep
	// growing before it is given up on. Shrunk in tests.
	settlePoll time.Duration
	settleMax  time.Duration

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher for dir. The handler runs on the watcher's
// goroutine, one candidate at a time, matching the one-install-at-a-time
// model of the core.
func New(dir string, handler func(path string)) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("drop directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("drop directory %s is not a directory", dir)
	}

	return &Watcher{
		dir:        dir,
		handler:    handler,
		settlePoll: 500 * time.Millisecond,
		settleMax:  60 * time.Second,
		stopCh:     make(chan struct{}),
	}, nil
}

// Start begins watching. It returns once the watch is established; the
// event loop runs in the background until Stop.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()
	return nil
}

// Stop halts the event loop and releases the watch.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Create covers fresh files; Rename covers browsers that
			// download to foo.part and rename into place.
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !IsBundlePath(event.Name) {
				continue
			}
			if w.waitSettled(event.Name) {
				w.handler(event.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "watcher: %v\n", err)

		case <-w.stopCh:
			return
		}
	}
}

// waitSettled polls the candidate until its size stops changing, so a
// download in flight is not installed half-written. Returns false when
// the file disappears or keeps growing past the deadline.
func (w *Watcher) waitSettled(path string) bool {
	deadline := time.Now().Add(w.settleMax)
	lastSize := int64(-1)

	for time.Now().Before(deadline) {
		info, err := os.Stat(path)
		if err != nil {
			return false
		}
		size := info.Size()
		if size > 0 && size == lastSize {
			return true
		}
		lastSize = size

		select {
		case <-time.After(w.settlePoll):
		case <-w.stopCh:
			return false
		}
	}
	return false
}
