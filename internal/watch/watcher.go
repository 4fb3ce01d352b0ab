// Package watch reports changes to the directories windows are showing.
package watch

import (
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/pathutil"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 200 * time.Millisecond

// Kind says what happened to a watched root.
type Kind int

const (
	// Changed means entries inside the root were created, removed or
	// renamed; the listing is stale.
	Changed Kind = iota
	// Vanished means the root itself is gone; windows showing it must be
	// re-rooted.
	Vanished
)

func (k Kind) String() string {
	if k == Vanished {
		return "vanished"
	}
	return "changed"
}

// Event is a debounced notification about one watched root.
type Event struct {
	Root string
	Kind Kind
}

// Watcher watches window roots. Each root is watched along with its parent
// so that removing or renaming the root itself is noticed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	roots    map[string]int // root -> number of windows showing it
	dirs     map[string]int // fsnotify watch refcounts
	notify   chan Event
	done     chan struct{}
	debounce time.Duration
}

// New starts a watcher. A non-positive debounce selects DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	dw := &Watcher{
		watcher:  w,
		roots:    make(map[string]int),
		dirs:     make(map[string]int),
		notify:   make(chan Event, 16),
		done:     make(chan struct{}),
		debounce: debounce,
	}
	go dw.run()
	return dw, nil
}

// Normalize is the form roots take in events: cleaned, forward slashes.
func Normalize(p string) string {
	return pathutil.ToSlash(filepath.Clean(p))
}

// run processes filesystem events with debouncing
func (dw *Watcher) run() {
	lastEvent := make(map[Event]time.Time)
	ticker := time.NewTicker(dw.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !(event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Write)) {
				continue
			}

			name := Normalize(event.Name)
			dw.mu.Lock()
			if dw.roots[name] > 0 && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				lastEvent[Event{Root: name, Kind: Vanished}] = time.Now()
				debug.Log(debug.WATCH, "FSNotify event: %s on root %s", event.Op, name)
			} else if parent := path.Dir(name); dw.roots[parent] > 0 && !event.Has(fsnotify.Write) {
				lastEvent[Event{Root: parent, Kind: Changed}] = time.Now()
				debug.Log(debug.WATCH, "FSNotify event: %s on %s (root: %s)", event.Op, name, parent)
			}
			dw.mu.Unlock()

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.WATCH, "FSNotify error: %v", err)

		case <-ticker.C:
			now := time.Now()
			for ev, at := range lastEvent {
				if now.Sub(at) < dw.debounce {
					continue
				}
				delete(lastEvent, ev)
				// A rename can be undone within the debounce window.
				if ev.Kind == Vanished {
					if _, err := os.Stat(ev.Root); err == nil {
						continue
					}
				}
				select {
				case dw.notify <- ev:
					debug.Log(debug.WATCH, "Notify %s: %s", ev.Kind, ev.Root)
				default:
					debug.Log(debug.WATCH, "Notify channel full, dropping %s %s", ev.Kind, ev.Root)
				}
			}
		}
	}
}

// Watch starts watching root. Roots are reference counted; every Watch
// needs a matching Unwatch.
func (dw *Watcher) Watch(root string) error {
	root = Normalize(root)
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.roots[root] > 0 {
		dw.roots[root]++
		return nil
	}
	if err := dw.add(root); err != nil {
		return err
	}
	if parent := path.Dir(root); parent != root {
		// The parent may be unreadable; the root is still watched.
		if err := dw.add(parent); err != nil {
			debug.Log(debug.WATCH, "cannot watch parent %s: %v", parent, err)
		}
	}
	dw.roots[root] = 1
	debug.Log(debug.WATCH, "Now watching root: %s", root)
	return nil
}

// Unwatch drops one reference to root.
func (dw *Watcher) Unwatch(root string) {
	root = Normalize(root)
	dw.mu.Lock()
	defer dw.mu.Unlock()

	switch n := dw.roots[root]; {
	case n == 0:
		return
	case n > 1:
		dw.roots[root]--
		return
	}
	delete(dw.roots, root)
	dw.remove(root)
	if parent := path.Dir(root); parent != root {
		dw.remove(parent)
	}
	debug.Log(debug.WATCH, "Stopped watching root: %s", root)
}

func (dw *Watcher) add(dir string) error {
	if dw.dirs[dir] == 0 {
		if err := dw.watcher.Add(filepath.FromSlash(dir)); err != nil {
			return err
		}
	}
	dw.dirs[dir]++
	return nil
}

func (dw *Watcher) remove(dir string) {
	switch dw.dirs[dir] {
	case 0:
		return
	case 1:
		delete(dw.dirs, dir)
		// The directory may already be gone.
		if err := dw.watcher.Remove(filepath.FromSlash(dir)); err != nil {
			debug.Log(debug.WATCH, "Error unwatching %s: %v", dir, err)
		}
	default:
		dw.dirs[dir]--
	}
}

// Notify returns the channel that receives debounced events.
func (dw *Watcher) Notify() <-chan Event {
	return dw.notify
}

// Close shuts down the watcher
func (dw *Watcher) Close() error {
	close(dw.done)
	return dw.watcher.Close()
}
