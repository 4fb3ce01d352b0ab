// Package window tracks the live browser windows of the process.
//
// The registry is owned by the shell's event goroutine and is not safe for
// concurrent use.
package window

import (
	"os"
	"path"

	"github.com/google/uuid"
	platformerrors "github.com/jmgilman/go/errors"

	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/fs"
	"github.com/justyntemme/dropshell/internal/launch"
	"github.com/justyntemme/dropshell/internal/nav"
	"github.com/justyntemme/dropshell/internal/pathutil"
)

// Handle identifies a live window.
type Handle string

// Host is the windowing toolkit that actually puts windows on screen.
type Host interface {
	Show(rec *Record)
	Hide(rec *Record)
}

type nopHost struct{}

func (nopHost) Show(*Record) {}
func (nopHost) Hide(*Record) {}

// Spec describes a window to create.
type Spec struct {
	Tree       fs.Tree
	Start      string // empty opens the tree's top-level root
	Launcher   launch.Launcher
	MaxHistory int
}

// Record is one live window and its navigation state.
type Record struct {
	Handle Handle
	Nav    *nav.State
	spec   Spec
	reg    *Registry
}

// Tree returns the filesystem tree the window renders.
func (r *Record) Tree() fs.Tree { return r.spec.Tree }

// Title is the window caption: the last element of its root.
func (r *Record) Title() string {
	root := r.Nav.Root()
	if root == fs.ComputerRoot {
		return "Computer"
	}
	title := path.Base(pathutil.ToSlash(root))
	if title == "" || title == "/" || title == "." {
		title = root
	}
	return title
}

// Close closes the window and removes it from its registry.
func (r *Record) Close() error {
	return r.reg.Close(r.Handle)
}

// Registry owns every live window.
type Registry struct {
	host     Host
	defaults Spec
	windows  map[Handle]*Record
	order    []Handle
	onClose  []func(*Record)

	// Getwd resolves the initial root for OpenDefaultRoot.
	Getwd func() (string, error)
}

// NewRegistry creates an empty registry. defaults supplies the tree and
// launcher for windows opened without an explicit spec. A nil host makes
// windows invisible, which is what tests and the headless driver want.
func NewRegistry(host Host, defaults Spec) *Registry {
	if host == nil {
		host = nopHost{}
	}
	return &Registry{
		host:     host,
		defaults: defaults,
		windows:  make(map[Handle]*Record),
		Getwd:    os.Getwd,
	}
}

// Create registers a new window and shows it. It always succeeds.
func (r *Registry) Create(spec Spec) *Record {
	if spec.Tree == nil {
		spec.Tree = r.defaults.Tree
	}
	if spec.Launcher == nil {
		spec.Launcher = r.defaults.Launcher
	}
	if spec.MaxHistory == 0 {
		spec.MaxHistory = r.defaults.MaxHistory
	}

	rec := &Record{
		Handle: Handle(uuid.NewString()),
		Nav:    nav.New(spec.Tree, spec.Launcher, spec.Start, spec.MaxHistory),
		spec:   spec,
		reg:    r,
	}
	r.windows[rec.Handle] = rec
	r.order = append(r.order, rec.Handle)
	r.host.Show(rec)

	debug.Log(debug.WINDOW, "Created window %s at %q (%d open)", rec.Handle, rec.Nav.Root(), len(r.order))
	return rec
}

// Get looks up a live window.
func (r *Registry) Get(h Handle) (*Record, bool) {
	rec, ok := r.windows[h]
	return rec, ok
}

// Len returns the number of live windows.
func (r *Registry) Len() int { return len(r.order) }

// Handles returns the live windows in creation order.
func (r *Registry) Handles() []Handle {
	return append([]Handle(nil), r.order...)
}

// OnClose registers fn to run after a window has been deregistered.
func (r *Registry) OnClose(fn func(*Record)) {
	r.onClose = append(r.onClose, fn)
}

// Close hides the window and deregisters it.
func (r *Registry) Close(h Handle) error {
	rec, ok := r.windows[h]
	if !ok {
		return platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeNotFound, "no such window"), "window", string(h))
	}

	delete(r.windows, h)
	for i, oh := range r.order {
		if oh == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.host.Hide(rec)
	for _, fn := range r.onClose {
		fn(rec)
	}

	debug.Log(debug.WINDOW, "Closed window %s (%d open)", h, len(r.order))
	return nil
}

// CloseAll closes every window and returns how many were closed.
func (r *Registry) CloseAll() int {
	n := 0
	for _, h := range r.Handles() {
		if rec, ok := r.windows[h]; ok && rec.Close() == nil {
			n++
		}
	}
	return n
}

// OpenDefaultRoot opens a window on the process working directory. If the
// working directory cannot be resolved, the window opens on the tree root.
func (r *Registry) OpenDefaultRoot() *Record {
	spec := r.defaults
	wd, err := r.Getwd()
	if err != nil {
		debug.Log(debug.WINDOW, "OpenDefaultRoot: getwd: %v", err)
		spec.Start = ""
	} else {
		spec.Start = pathutil.ToSlash(wd)
	}
	return r.Create(spec)
}

// OpenInNewWindow opens dir in a new window that shares the tree and
// launcher of window from.
func (r *Registry) OpenInNewWindow(from Handle, dir string) (*Record, error) {
	parent, ok := r.windows[from]
	if !ok {
		return nil, platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeNotFound, "no such window"), "window", string(from))
	}
	if !parent.spec.Tree.IsDir(dir) {
		return nil, platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeInvalidInput, "not a directory"), "path", dir)
	}

	spec := parent.spec
	spec.Start = dir
	return r.Create(spec), nil
}
