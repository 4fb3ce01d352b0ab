// Package nav holds the per-window navigation model: the directory a window
// shows and how it moves between directories.
package nav

import (
	"path"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/fs"
	"github.com/justyntemme/dropshell/internal/launch"
	"github.com/justyntemme/dropshell/internal/pathutil"
)

// DefaultMaxHistory bounds the back stack when no limit is configured.
const DefaultMaxHistory = 100

// Kind classifies an activated row. It is resolved once per interaction.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Classify reports whether path is shown as a directory or a file row.
func Classify(tree fs.Tree, path string) Kind {
	if tree.IsDir(path) {
		return KindDirectory
	}
	return KindFile
}

// State is the navigation model of one window. It is not safe for
// concurrent use; the shell touches it only from its event goroutine.
type State struct {
	tree       fs.Tree
	launcher   launch.Launcher
	root       string
	history    []string
	forward    []string
	maxHistory int
}

// New creates a state viewing start, or the tree's top-level root when
// start is empty. maxHistory <= 0 selects DefaultMaxHistory.
func New(tree fs.Tree, launcher launch.Launcher, start string, maxHistory int) *State {
	if start == "" {
		start = tree.Root()
	}
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &State{
		tree:       tree,
		launcher:   launcher,
		root:       start,
		history:    make([]string, 0, maxHistory),
		maxHistory: maxHistory,
	}
}

// Root returns the directory the window currently shows.
func (s *State) Root() string { return s.root }

// Tree returns the filesystem tree the window renders.
func (s *State) Tree() fs.Tree { return s.tree }

func (s *State) CanBack() bool    { return len(s.history) > 0 }
func (s *State) CanForward() bool { return len(s.forward) > 0 }

// History returns the back stack, oldest first.
func (s *State) History() []string {
	return append([]string(nil), s.history...)
}

// Activate opens a row. Directories become the new root; anything else is
// handed to the launcher and leaves the state unchanged.
func (s *State) Activate(path string) (Kind, error) {
	if !s.tree.Exists(path) {
		return KindFile, platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeNotFound, "activated path no longer exists"),
			"path", path)
	}

	kind := Classify(s.tree, path)
	switch kind {
	case KindDirectory:
		s.visit(path)
	case KindFile:
		if s.launcher == nil {
			return kind, platformerrors.New(platformerrors.CodeNotImplemented, "no launcher configured")
		}
		if err := s.launcher.Open(path); err != nil {
			return kind, err
		}
	}
	debug.Log(debug.NAV, "Activate %q: %s", path, kind)
	return kind, nil
}

// Up moves to the parent of the current root. At the top of the tree it is
// a no-op and reports false.
func (s *State) Up() bool {
	parent, ok := s.tree.Parent(s.root)
	if !ok {
		debug.Log(debug.NAV, "Up: %q is the top", s.root)
		return false
	}
	s.visit(parent)
	return true
}

// Back restores the most recently left root. Entries that vanished since
// they were visited are skipped.
func (s *State) Back() bool {
	for len(s.history) > 0 {
		prev := s.history[len(s.history)-1]
		s.history = s.history[:len(s.history)-1]
		if !s.tree.Exists(prev) {
			debug.Log(debug.NAV, "Back: skipping vanished %q", prev)
			continue
		}
		s.forward = append(s.forward, s.root)
		s.root = prev
		debug.Log(debug.NAV, "Back -> %q (history=%d)", prev, len(s.history))
		return true
	}
	return false
}

// Forward undoes a Back.
func (s *State) Forward() bool {
	for len(s.forward) > 0 {
		next := s.forward[len(s.forward)-1]
		s.forward = s.forward[:len(s.forward)-1]
		if !s.tree.Exists(next) {
			continue
		}
		s.push(s.root)
		s.root = next
		debug.Log(debug.NAV, "Forward -> %q", next)
		return true
	}
	return false
}

// Reroot moves a window whose root disappeared to the nearest ancestor that
// still exists. History is left alone. It reports whether the root changed.
func (s *State) Reroot() bool {
	p := s.root
	for !s.tree.Exists(p) {
		parent, ok := s.tree.Parent(p)
		if !ok {
			p = s.tree.Root()
			break
		}
		p = parent
	}
	if p == s.root {
		return false
	}
	debug.Log(debug.NAV, "Reroot %q -> %q", s.root, p)
	s.root = p
	return true
}

func (s *State) visit(p string) {
	if p == s.root {
		return
	}
	s.push(s.root)
	s.root = p
	s.forward = s.forward[:0]
}

func (s *State) push(p string) {
	s.history = append(s.history, p)
	if len(s.history) > s.maxHistory {
		excess := len(s.history) - s.maxHistory
		s.history = append(s.history[:0], s.history[excess:]...)
	}
}

// Expand turns user input into an absolute path, handling "~", absolute
// paths in either separator style, and paths relative to the current root.
func (s *State) Expand(input, home string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return s.root
	}
	if input == "~" {
		return home
	}
	if strings.HasPrefix(input, "~/") || strings.HasPrefix(input, `~\`) {
		return clean(home + "/" + input[2:])
	}
	if pathutil.IsAbs(input) {
		return clean(input)
	}
	return clean(s.root + "/" + input)
}

// clean is path.Clean that keeps drive roots as "C:/" and UNC prefixes.
func clean(p string) string {
	p = pathutil.ToSlash(p)
	unc := strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "///")
	p = path.Clean(p)
	switch {
	case unc:
		p = "/" + p
	case len(p) == 2 && p[1] == ':':
		p += "/"
	}
	return p
}
