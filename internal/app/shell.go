// Package app wires the engine together: windows, navigation, drops,
// transfers, the journal and the directory watcher all meet in Shell.
package app

import (
	"context"
	"os"
	"sync"

	"gioui.org/io/key"
	platformerrors "github.com/jmgilman/go/errors"

	"github.com/justyntemme/dropshell/internal/config"
	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/dnd"
	"github.com/justyntemme/dropshell/internal/fs"
	"github.com/justyntemme/dropshell/internal/launch"
	"github.com/justyntemme/dropshell/internal/nav"
	"github.com/justyntemme/dropshell/internal/store"
	"github.com/justyntemme/dropshell/internal/transfer"
	"github.com/justyntemme/dropshell/internal/watch"
	"github.com/justyntemme/dropshell/internal/window"
)

// Options configures a Shell. Only Tree is required; nil collaborators
// switch the matching feature off.
type Options struct {
	Config   *config.Manager
	Tree     fs.Tree
	Launcher launch.Launcher
	Host     window.Host
	Executor *transfer.Executor
	Journal  *store.Journal
	Watcher  *watch.Watcher
	FS       *fs.System
}

// Shell owns every window and routes input events to them.
//
// All state is owned by one goroutine. Handlers (Activate, Drop, HandleKey
// and friends) must run on it: either call them from a function passed to
// Post while Run is active, or call them directly when no Run loop exists.
type Shell struct {
	reg      *window.Registry
	resolver dnd.Resolver
	hotkeys  *config.HotkeyMatcher
	executor *transfer.Executor
	journal  *store.Journal
	watcher  *watch.Watcher
	fs       *fs.System
	home     string

	events   chan func()
	done     chan struct{}
	stopOnce sync.Once
	listings map[window.Handle]listing
	selected map[window.Handle]string
	gen      int64
}

type listing struct {
	gen     int64
	path    string
	entries []fs.Entry
	err     error
	ready   bool
}

// New builds a shell from opts.
func New(opts Options) *Shell {
	cfgMgr := opts.Config
	if cfgMgr == nil {
		cfgMgr = config.NewManager()
	}
	cfg := cfgMgr.Get()
	home, _ := os.UserHomeDir()

	s := &Shell{
		resolver: dnd.NewResolver(cfgMgr.DropPolicy()),
		hotkeys:  config.NewHotkeyMatcher(cfg.Hotkeys),
		executor: opts.Executor,
		journal:  opts.Journal,
		watcher:  opts.Watcher,
		fs:       opts.FS,
		home:     home,
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
		listings: make(map[window.Handle]listing),
		selected: make(map[window.Handle]string),
	}
	s.reg = window.NewRegistry(opts.Host, window.Spec{
		Tree:       opts.Tree,
		Launcher:   opts.Launcher,
		MaxHistory: cfg.Navigation.MaxHistory,
	})
	s.reg.OnClose(s.windowClosed)
	return s
}

// Registry exposes the window registry for read access on the event
// goroutine.
func (s *Shell) Registry() *window.Registry { return s.reg }

// Post queues fn to run on the event goroutine.
func (s *Shell) Post(fn func()) {
	s.events <- fn
}

// Do runs fn on the event goroutine and waits for it.
func (s *Shell) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case s.events <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run is the event loop. It returns when ctx is done; the shell does not
// accept a second Run.
func (s *Shell) Run(ctx context.Context) error {
	defer s.stopOnce.Do(func() { close(s.done) })
	var watchEvents <-chan watch.Event
	if s.watcher != nil {
		watchEvents = s.watcher.Notify()
	}
	var listings <-chan fs.Response
	if s.fs != nil {
		listings = s.fs.ResponseChan
	}

	debug.Log(debug.APP, "Event loop started")
	for {
		select {
		case <-ctx.Done():
			debug.Log(debug.APP, "Event loop stopped: %v", ctx.Err())
			return ctx.Err()
		case fn := <-s.events:
			fn()
		case ev := <-watchEvents:
			s.handleWatch(ev)
		case resp := <-listings:
			s.handleListing(resp)
		}
	}
}

// OpenDefaultRoot opens a window on the configured start path or, failing
// that, the working directory.
func (s *Shell) OpenDefaultRoot(startPath string) *window.Record {
	var rec *window.Record
	if startPath != "" {
		rec = s.reg.Create(window.Spec{Start: startPath})
	} else {
		rec = s.reg.OpenDefaultRoot()
	}
	s.rootChanged(rec, "")
	return rec
}

// NewWindow opens a window on the same root as window from.
func (s *Shell) NewWindow(from window.Handle) (*window.Record, error) {
	rec, err := s.record(from)
	if err != nil {
		return nil, err
	}
	return s.MiddleClick(from, rec.Nav.Root())
}

// Select marks the row the Open hotkey acts on.
func (s *Shell) Select(h window.Handle, path string) {
	s.selected[h] = path
}

// Activate opens a row in window h.
func (s *Shell) Activate(h window.Handle, path string) (nav.Kind, error) {
	rec, err := s.record(h)
	if err != nil {
		return nav.KindFile, err
	}
	old := rec.Nav.Root()
	kind, err := rec.Nav.Activate(path)
	if err != nil {
		debug.Log(debug.APP, "Activate %q in %s: %v", path, h, err)
		return kind, err
	}
	if kind == nav.KindDirectory {
		s.rootChanged(rec, old)
	}
	return kind, nil
}

// OpenPath expands typed input ("~/x", "../y", "C:\z") against the window
// root and activates the result.
func (s *Shell) OpenPath(h window.Handle, input string) (nav.Kind, error) {
	rec, err := s.record(h)
	if err != nil {
		return nav.KindFile, err
	}
	return s.Activate(h, rec.Nav.Expand(input, s.home))
}

// MiddleClick opens a directory row in a new window.
func (s *Shell) MiddleClick(h window.Handle, path string) (*window.Record, error) {
	rec, err := s.reg.OpenInNewWindow(h, path)
	if err != nil {
		return nil, err
	}
	s.rootChanged(rec, "")
	return rec, nil
}

// Up, Back and Forward move window h and report whether it moved.
func (s *Shell) Up(h window.Handle) bool      { return s.move(h, (*nav.State).Up) }
func (s *Shell) Back(h window.Handle) bool    { return s.move(h, (*nav.State).Back) }
func (s *Shell) Forward(h window.Handle) bool { return s.move(h, (*nav.State).Forward) }

func (s *Shell) move(h window.Handle, step func(*nav.State) bool) bool {
	rec, ok := s.reg.Get(h)
	if !ok {
		return false
	}
	old := rec.Nav.Root()
	if !step(rec.Nav) {
		return false
	}
	s.rootChanged(rec, old)
	return true
}

// CloseWindow closes window h.
func (s *Shell) CloseWindow(h window.Handle) error {
	return s.reg.Close(h)
}

// CloseAll closes every window.
func (s *Shell) CloseAll() int {
	return s.reg.CloseAll()
}

// HandleKey runs the command bound to k in window h. It reports whether
// the key was consumed.
func (s *Shell) HandleKey(h window.Handle, k key.Event) bool {
	cmd := s.hotkeys.Match(k)
	if cmd == config.CmdNone {
		return false
	}
	debug.Log(debug.HOTKEY, "%s in %s", cmd, h)

	switch cmd {
	case config.CmdBack:
		s.Back(h)
	case config.CmdForward:
		s.Forward(h)
	case config.CmdUp:
		s.Up(h)
	case config.CmdOpen:
		if sel, ok := s.selected[h]; ok {
			if _, err := s.Activate(h, sel); err != nil {
				debug.Log(debug.HOTKEY, "open %q: %v", sel, err)
			}
		}
	case config.CmdNewWindow:
		if _, err := s.NewWindow(h); err != nil {
			debug.Log(debug.HOTKEY, "new window: %v", err)
		}
	case config.CmdCloseWindow:
		if err := s.CloseWindow(h); err != nil {
			debug.Log(debug.HOTKEY, "close window: %v", err)
		}
	case config.CmdCloseAll:
		s.CloseAll()
	}
	return true
}

// Listing returns the latest directory listing delivered for window h.
func (s *Shell) Listing(h window.Handle) ([]fs.Entry, error) {
	l, ok := s.listings[h]
	if !ok {
		return nil, platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeNotFound, "no listing yet"), "window", string(h))
	}
	return l.entries, l.err
}

// ListingReady reports whether a listing has arrived for the current root
// of window h.
func (s *Shell) ListingReady(h window.Handle) bool {
	l, ok := s.listings[h]
	return ok && l.ready
}

func (s *Shell) record(h window.Handle) (*window.Record, error) {
	rec, ok := s.reg.Get(h)
	if !ok {
		return nil, platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeNotFound, "no such window"), "window", string(h))
	}
	return rec, nil
}
