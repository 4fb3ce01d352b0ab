//go:build !windows

package fs

import "github.com/go-git/go-billy/v5/osfs"

// NewLocalTree returns the tree backed by the host filesystem.
func NewLocalTree() Tree {
	return NewBillyTree(osfs.New("/"))
}
