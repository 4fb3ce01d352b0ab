package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, w *Watcher, want Event) {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case ev := <-w.Notify():
			if ev == want {
				return
			}
			t.Logf("ignoring %s %s", ev.Kind, ev.Root)
		case <-timeout:
			t.Fatalf("timed out waiting for %s %s", want.Kind, want.Root)
		}
	}
}

func newWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWatchChanged(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatal(err)
	}
	w := newWatcher(t)
	if err := w.Watch(root); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "new.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, w, Event{Root: Normalize(root), Kind: Changed})
}

func TestWatchVanished(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	if err := os.Mkdir(root, 0o755); err != nil {
		t.Fatal(err)
	}
	w := newWatcher(t)
	if err := w.Watch(root); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.Remove(root); err != nil {
		t.Fatal(err)
	}

	waitFor(t, w, Event{Root: Normalize(root), Kind: Vanished})
}

func TestWatchMissingRoot(t *testing.T) {
	w := newWatcher(t)

	if err := w.Watch(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestWatchRefcount(t *testing.T) {
	root := t.TempDir()
	w := newWatcher(t)

	for i := 0; i < 2; i++ {
		if err := w.Watch(root); err != nil {
			t.Fatalf("Watch failed: %v", err)
		}
	}
	key := Normalize(root)
	refs := func() (int, int) {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.roots[key], len(w.dirs)
	}

	if n, _ := refs(); n != 2 {
		t.Errorf("expected refcount 2, got %d", n)
	}
	w.Unwatch(root)
	if n, _ := refs(); n != 1 {
		t.Errorf("expected refcount 1, got %d", n)
	}
	w.Unwatch(root)
	if n, dirs := refs(); n != 0 || dirs != 0 {
		t.Errorf("expected everything released, got %d roots refs and %d watches", n, dirs)
	}
	w.Unwatch(root)
}
