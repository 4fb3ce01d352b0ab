package app

import (
	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/fs"
	"github.com/justyntemme/dropshell/internal/watch"
	"github.com/justyntemme/dropshell/internal/window"
)

// rootChanged moves the watch from old to the window's new root and asks
// for a fresh listing. old is empty for newly opened windows.
func (s *Shell) rootChanged(rec *window.Record, old string) {
	root := rec.Nav.Root()
	delete(s.selected, rec.Handle)
	if s.watcher != nil && old != root {
		if old != "" && old != fs.ComputerRoot {
			s.watcher.Unwatch(old)
		}
		if root != fs.ComputerRoot {
			if err := s.watcher.Watch(root); err != nil {
				debug.Log(debug.WATCH, "watch %q: %v", root, err)
			}
		}
	}
	s.requestListing(rec)
}

func (s *Shell) windowClosed(rec *window.Record) {
	if s.watcher != nil && rec.Nav.Root() != fs.ComputerRoot {
		s.watcher.Unwatch(rec.Nav.Root())
	}
	delete(s.listings, rec.Handle)
	delete(s.selected, rec.Handle)
}

// requestListing sends a generation-stamped FetchDir for the window root.
// Responses for older generations are dropped in handleListing.
func (s *Shell) requestListing(rec *window.Record) {
	if s.fs == nil {
		return
	}
	s.gen++
	req := fs.Request{Op: fs.FetchDir, Path: rec.Nav.Root(), Gen: s.gen, Window: string(rec.Handle)}
	s.listings[rec.Handle] = listing{gen: s.gen, path: req.Path}

	select {
	case s.fs.RequestChan <- req:
	default:
		// The worker may be blocked handing us a response; never wait on it
		// from the event goroutine.
		go s.sendRequest(req)
	}
}

// sendRequest blocks until the worker takes req or the event loop exits.
func (s *Shell) sendRequest(req fs.Request) {
	select {
	case s.fs.RequestChan <- req:
	case <-s.done:
		debug.Log(debug.FS, "dropping listing request for %s: shell stopped", req.Window)
	}
}

func (s *Shell) handleListing(resp fs.Response) {
	h := window.Handle(resp.Window)
	cur, ok := s.listings[h]
	if !ok || resp.Gen != cur.gen {
		debug.Log(debug.FS, "dropping stale listing for %s (gen %d)", h, resp.Gen)
		return
	}
	s.listings[h] = listing{gen: resp.Gen, path: resp.Path, entries: resp.Entries, err: resp.Err, ready: true}
}

// refreshRoots re-lists every window showing one of dirs.
func (s *Shell) refreshRoots(dirs ...string) {
	for _, h := range s.reg.Handles() {
		rec, _ := s.reg.Get(h)
		root := watch.Normalize(rec.Nav.Root())
		for _, d := range dirs {
			if root == watch.Normalize(d) {
				s.requestListing(rec)
				break
			}
		}
	}
}

func (s *Shell) handleWatch(ev watch.Event) {
	debug.Log(debug.WATCH, "%s: %s", ev.Kind, ev.Root)
	switch ev.Kind {
	case watch.Changed:
		s.refreshRoots(ev.Root)
	case watch.Vanished:
		for _, h := range s.reg.Handles() {
			rec, _ := s.reg.Get(h)
			if watch.Normalize(rec.Nav.Root()) != ev.Root {
				continue
			}
			old := rec.Nav.Root()
			if rec.Nav.Reroot() {
				s.rootChanged(rec, old)
			}
		}
	}
}
