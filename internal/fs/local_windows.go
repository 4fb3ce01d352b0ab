//go:build windows

package fs

import (
	"os"

	"github.com/justyntemme/dropshell/internal/pathutil"
)

// NewLocalTree returns the tree backed by the host filesystem. billy's osfs
// is rooted at a single base directory and cannot address drive letters, so
// drive paths are probed with os.Stat directly.
func NewLocalTree() Tree {
	return ComputerTree{Base: osTree{}}
}

type osTree struct{}

func (osTree) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osTree) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (osTree) Parent(path string) (string, bool) {
	return pathutil.ParentOf(path)
}

func (osTree) Root() string {
	return "C:/"
}
