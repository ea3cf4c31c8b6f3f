package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to
// settle before reloading.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads the config when the file, or any file it includes,
// changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	logger   *slog.Logger
	onChange func(*LoadResult)
	debounce time.Duration

	mu      sync.Mutex
	files   map[string]struct{}
	done    chan struct{}
	stopped chan struct{}
	running bool
}

// NewWatcher creates a watcher for the config at path. onChange receives
// every successfully reloaded config; invalid edits are logged and skipped.
func NewWatcher(path string, onChange func(*LoadResult), logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  fw,
		path:     path,
		logger:   logger,
		onChange: onChange,
		debounce: DefaultDebounce,
		files:    map[string]struct{}{},
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// SetDebounce changes the settle delay. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start begins watching. files lists the paths a previous load read; the
// config path itself is always watched.
func (w *Watcher) Start(files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.track(append([]string{w.path}, files...)); err != nil {
		return err
	}
	w.running = true
	go w.loop()
	return nil
}

// track watches the directory of each file; editors that replace files by
// rename are only visible that way.
func (w *Watcher) track(files []string) error {
	dirs := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) loop() {
	defer close(w.stopped)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.mu.Lock()
			d := w.debounce
			w.mu.Unlock()
			if timer == nil {
				timer = time.NewTimer(d)
			} else {
				timer.Reset(d)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	res, err := LoadFromPath(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous config", "path", w.path, "error", err)
		return
	}
	w.mu.Lock()
	err = w.track(res.Files)
	w.mu.Unlock()
	if err != nil {
		w.logger.Warn("failed to watch included config", "error", err)
	}
	w.logger.Info("config reloaded", "path", w.path, "files", len(res.Files))
	if w.onChange != nil {
		w.onChange(res)
	}
}

// Stop stops watching and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	close(w.done)
	w.mu.Unlock()

	<-w.stopped
	return w.watcher.Close()
}
