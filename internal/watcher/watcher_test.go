package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) onChange(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startWatcher(t *testing.T, files []string, r *recorder) *Watcher {
	t.Helper()
	w := NewWatcher(files, r.onChange, WithDebounce(50*time.Millisecond), WithLogger(zap.NewNop()))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_DebouncesBurstOfWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := writeFile(path, "branches: []"); err != nil {
		t.Fatal(err)
	}

	r := &recorder{}
	startWatcher(t, []string{path}, r)

	for i := 0; i < 5; i++ {
		if err := writeFile(path, "branches: []\n"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(400 * time.Millisecond)

	got := r.snapshot()
	if len(got) != 1 {
		t.Fatalf("onChange called %d times, want 1: %v", len(got), got)
	}
	if got[0] != cleanPath(path) {
		t.Errorf("path = %q, want %q", got[0], cleanPath(path))
	}
}

func TestWatcher_IgnoresOtherFilesInDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := writeFile(path, ""); err != nil {
		t.Fatal(err)
	}

	r := &recorder{}
	startWatcher(t, []string{path}, r)

	if err := writeFile(filepath.Join(dir, "notes.txt"), "x"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	if got := r.snapshot(); len(got) != 0 {
		t.Errorf("unexpected callbacks: %v", got)
	}
}

func TestWatcher_ObservesReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.xlsx")
	if err := writeFile(path, "old"); err != nil {
		t.Fatal(err)
	}

	r := &recorder{}
	startWatcher(t, []string{path}, r)

	tmp := filepath.Join(dir, ".catalog.xlsx.tmp")
	if err := writeFile(tmp, "new"); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)

	if got := r.snapshot(); len(got) < 1 {
		t.Error("expected a callback after the file was replaced")
	}
}

func TestWatcher_StopCancelsPendingCallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := writeFile(path, ""); err != nil {
		t.Fatal(err)
	}

	r := &recorder{}
	w := NewWatcher([]string{path}, r.onChange, WithDebounce(300*time.Millisecond))
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(path, "changed"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	w.Stop()
	w.Stop()
	time.Sleep(400 * time.Millisecond)

	if got := r.snapshot(); len(got) != 0 {
		t.Errorf("callback fired after Stop: %v", got)
	}
}

func TestWatcher_ContextCancelStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := writeFile(path, ""); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher([]string{path}, nil)
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case <-w.done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after context cancel")
	}
}

func TestWatcher_StartErrors(t *testing.T) {
	if err := NewWatcher(nil, nil).Start(context.Background()); err == nil {
		t.Error("expected error with no files")
	}

	missing := filepath.Join(t.TempDir(), "missing", "catalog.yaml")
	if err := NewWatcher([]string{missing}, nil).Start(context.Background()); err == nil {
		t.Error("expected error when the parent directory does not exist")
	}
}

func TestNewWatcher_DeduplicatesDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher([]string{
		filepath.Join(dir, "catalog.yaml"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "catalog.yaml"),
		"",
	}, nil, WithDebounce(-1))

	if len(w.dirs) != 1 {
		t.Errorf("dirs = %v, want one directory", w.dirs)
	}
	if len(w.Files()) != 2 {
		t.Errorf("Files() = %v, want 2", w.Files())
	}
	if w.debounce != defaultDebounce {
		t.Errorf("debounce = %v, want default", w.debounce)
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
