package config

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "window:", "  snap_threshold: 20")

	reloaded := make(chan *LoadResult, 4)
	w, err := NewWatcher(path, func(res *LoadResult) { reloaded <- res }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.SetDebounce(20 * time.Millisecond)
	if err := w.Start(nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	// An invalid edit is skipped.
	writeFile(t, path, "window:", "  snap_threshold: -1")
	select {
	case res := <-reloaded:
		t.Fatalf("expected invalid config to be skipped, got %+v", res.Config.Window)
	case <-time.After(300 * time.Millisecond):
	}

	writeFile(t, path, "window:", "  snap_threshold: 44")
	select {
	case res := <-reloaded:
		if res.Config.Window.SnapThreshold != 44 {
			t.Fatalf("expected reloaded snap_threshold 44, got %d", res.Config.Window.SnapThreshold)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "# empty")

	reloaded := make(chan struct{}, 1)
	w, err := NewWatcher(path, func(*LoadResult) { reloaded <- struct{}{} }, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	w.SetDebounce(10 * time.Millisecond)
	if err := w.Start(nil); err != nil {
		t.Fatalf("start: %v", err)
	}

	writeFile(t, filepath.Join(dir, "other.yaml"), "x: 1")
	select {
	case <-reloaded:
		t.Fatalf("expected unrelated file to be ignored")
	case <-time.After(200 * time.Millisecond):
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
