package fs

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

func newMemTree(t *testing.T) *BillyTree {
	t.Helper()
	bfs := memfs.New()
	if err := bfs.MkdirAll("/home/user/docs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := util.WriteFile(bfs, "/home/user/docs/a.txt", []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewBillyTree(bfs)
}

func TestBillyTree(t *testing.T) {
	tree := newMemTree(t)

	testCases := []struct {
		path   string
		exists bool
		isDir  bool
	}{
		{"/", true, true},
		{"/home", true, true},
		{"/home/user/docs", true, true},
		{"/home/user/docs/a.txt", true, false},
		{"/home/user/missing", false, false},
	}

	for _, tc := range testCases {
		if got := tree.Exists(tc.path); got != tc.exists {
			t.Errorf("Exists(%q): expected %v, got %v", tc.path, tc.exists, got)
		}
		if got := tree.IsDir(tc.path); got != tc.isDir {
			t.Errorf("IsDir(%q): expected %v, got %v", tc.path, tc.isDir, got)
		}
	}

	if tree.Root() != "/" {
		t.Errorf("expected root /, got %q", tree.Root())
	}
	if parent, ok := tree.Parent("/home/user"); !ok || parent != "/home" {
		t.Errorf("Parent(/home/user): got (%q, %v)", parent, ok)
	}
	if _, ok := tree.Parent("/"); ok {
		t.Error("Parent(/) should report no parent")
	}
}

func TestComputerTree(t *testing.T) {
	tree := ComputerTree{Base: newMemTree(t)}

	if tree.Root() != ComputerRoot {
		t.Errorf("expected computer root, got %q", tree.Root())
	}
	if !tree.Exists(ComputerRoot) || !tree.IsDir(ComputerRoot) {
		t.Error("computer root should exist as a directory")
	}

	parent, ok := tree.Parent("/")
	if !ok || parent != ComputerRoot {
		t.Errorf("Parent(/): expected computer root, got (%q, %v)", parent, ok)
	}
	if _, ok := tree.Parent(ComputerRoot); ok {
		t.Error("computer root should have no parent")
	}
	if parent, ok := tree.Parent("/home"); !ok || parent != "/" {
		t.Errorf("Parent(/home): got (%q, %v)", parent, ok)
	}
}
