package fs

import (
	"github.com/go-git/go-billy/v5"

	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/pathutil"
)

// ComputerRoot is the pseudo-path above every drive on drive-letter hosts.
// Listing it yields the mounted drives.
const ComputerRoot = ""

// Tree is the read-only view of the filesystem index the navigation and
// drop code consults. Paths are the node identity: a node's file path is
// the path itself.
type Tree interface {
	Exists(path string) bool
	IsDir(path string) bool
	// Parent returns the parent node, or false at the top of the tree.
	Parent(path string) (string, bool)
	// Root is the top-level node shown when a window opens without a path.
	Root() string
}

// BillyTree adapts a billy.Filesystem with absolute slash paths.
type BillyTree struct {
	bfs billy.Filesystem
}

// NewBillyTree wraps bfs. Paths handed to the tree are used as-is, so bfs
// must be rooted at "/".
func NewBillyTree(bfs billy.Filesystem) *BillyTree {
	return &BillyTree{bfs: bfs}
}

// Unwrap returns the underlying billy.Filesystem.
func (t *BillyTree) Unwrap() billy.Filesystem {
	return t.bfs
}

func (t *BillyTree) Exists(path string) bool {
	if path == "/" {
		return true
	}
	_, err := t.bfs.Stat(path)
	if err != nil {
		debug.Log(debug.FS_ENTRY, "Exists %q: %v", path, err)
		return false
	}
	return true
}

func (t *BillyTree) IsDir(path string) bool {
	if path == "/" {
		return true
	}
	info, err := t.bfs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func (t *BillyTree) Parent(path string) (string, bool) {
	return pathutil.ParentOf(path)
}

func (t *BillyTree) Root() string {
	return "/"
}

// ComputerTree puts a "Computer" node above every drive root of Base.
type ComputerTree struct {
	Base Tree
}

func (t ComputerTree) Exists(path string) bool {
	return path == ComputerRoot || t.Base.Exists(path)
}

func (t ComputerTree) IsDir(path string) bool {
	return path == ComputerRoot || t.Base.IsDir(path)
}

func (t ComputerTree) Parent(path string) (string, bool) {
	if path == ComputerRoot {
		return "", false
	}
	if parent, ok := t.Base.Parent(path); ok {
		return parent, true
	}
	return ComputerRoot, true
}

func (t ComputerTree) Root() string {
	return ComputerRoot
}
