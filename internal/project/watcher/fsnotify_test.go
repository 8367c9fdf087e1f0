package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T, opts ...WatcherOption) *FSNotifyWatcher {
	t.Helper()
	w, err := NewFSNotifyWatcher(nil, opts...)
	if err != nil {
		t.Fatalf("NewFSNotifyWatcher error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
}

func waitEvent(t *testing.T, w *FSNotifyWatcher, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case e := <-w.Events():
		return e, true
	case <-time.After(timeout):
		return Event{}, false
	}
}

func TestFSNotifyWatcher_WatchUnwatch(t *testing.T) {
	w := newTestWatcher(t)
	path := filepath.Join(t.TempDir(), "tool.lua")
	writeFile(t, path, "-- tool")

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch error = %v", err)
	}
	if !w.IsWatching(path) {
		t.Error("should be watching file")
	}
	if err := w.Watch(path); err != ErrAlreadyWatching {
		t.Errorf("Watch again error = %v, want ErrAlreadyWatching", err)
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch error = %v", err)
	}
	if w.IsWatching(path) {
		t.Error("should not be watching after Unwatch")
	}
	if err := w.Unwatch(path); err != ErrNotWatching {
		t.Errorf("Unwatch again error = %v, want ErrNotWatching", err)
	}
}

func TestFSNotifyWatcher_WatchErrors(t *testing.T) {
	w := newTestWatcher(t)
	dir := t.TempDir()

	if err := w.Watch(filepath.Join(dir, "missing.lua")); err != ErrPathNotExist {
		t.Errorf("Watch missing error = %v, want ErrPathNotExist", err)
	}
	if err := w.Watch(dir); err != ErrNotAFile {
		t.Errorf("Watch dir error = %v, want ErrNotAFile", err)
	}

	_ = w.Close()
	if err := w.Watch(dir); err != ErrWatcherClosed {
		t.Errorf("Watch after close error = %v, want ErrWatcherClosed", err)
	}
}

func TestFSNotifyWatcher_WriteEvent(t *testing.T) {
	w := newTestWatcher(t, WithDebounceDelay(20*time.Millisecond))
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.lua")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, path, "-- tool")
	writeFile(t, other, "x")

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch error = %v", err)
	}

	writeFile(t, other, "y")
	writeFile(t, path, "-- changed")

	e, ok := waitEvent(t, w, 2*time.Second)
	if !ok {
		t.Fatal("no event")
	}
	abs, _ := filepath.Abs(path)
	if e.Path != abs {
		t.Errorf("event path = %q, want %q", e.Path, abs)
	}
	if !e.Op.Changed() {
		t.Errorf("event op = %v, want a change", e.Op)
	}
}

func TestFSNotifyWatcher_Debounce(t *testing.T) {
	w := newTestWatcher(t, WithDebounceDelay(150*time.Millisecond))
	path := filepath.Join(t.TempDir(), "tool.lua")
	writeFile(t, path, "0")

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch error = %v", err)
	}
	for i := 0; i < 5; i++ {
		writeFile(t, path, string(rune('a'+i)))
	}

	if _, ok := waitEvent(t, w, 2*time.Second); !ok {
		t.Fatal("no event")
	}
	if e, ok := waitEvent(t, w, 400*time.Millisecond); ok {
		t.Errorf("writes were not coalesced, extra event %+v", e)
	}
}

func TestFSNotifyWatcher_RenameOver(t *testing.T) {
	w := newTestWatcher(t, WithDebounceDelay(20*time.Millisecond))
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.lua")
	writeFile(t, path, "old")

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch error = %v", err)
	}

	tmp := filepath.Join(dir, ".tool.lua.swp")
	writeFile(t, tmp, "new")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename error = %v", err)
	}

	e, ok := waitEvent(t, w, 2*time.Second)
	if !ok {
		t.Fatal("no event after rename")
	}
	if !e.Op.Has(OpCreate) {
		t.Errorf("event op = %v, want CREATE", e.Op)
	}
}

func TestFSNotifyWatcher_CloseClosesChannels(t *testing.T) {
	w, err := NewFSNotifyWatcher(nil)
	if err != nil {
		t.Fatalf("NewFSNotifyWatcher error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error = %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("events channel should be closed")
	}
	if _, ok := <-w.Errors(); ok {
		t.Error("errors channel should be closed")
	}
}
