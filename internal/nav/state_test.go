package nav

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/dropshell/internal/fs"
	"github.com/justyntemme/dropshell/internal/launch"
)

type recorder struct {
	opened []string
	err    error
}

func (r *recorder) Open(path string) error {
	r.opened = append(r.opened, path)
	return r.err
}

func newTree(t *testing.T) *fs.BillyTree {
	t.Helper()
	bfs := memfs.New()
	require.NoError(t, bfs.MkdirAll("/home/user/docs/deep", 0o755))
	require.NoError(t, bfs.MkdirAll("/srv", 0o755))
	require.NoError(t, util.WriteFile(bfs, "/home/user/docs/a.txt", []byte("a"), 0o644))
	return fs.NewBillyTree(bfs)
}

func TestNew_DefaultsToTreeRoot(t *testing.T) {
	s := New(newTree(t), nil, "", 0)

	assert.Equal(t, "/", s.Root())
	assert.False(t, s.CanBack())
	assert.False(t, s.CanForward())
}

func TestActivate_Directory(t *testing.T) {
	rec := &recorder{}
	s := New(newTree(t), rec, "/home/user", 0)

	kind, err := s.Activate("/home/user/docs")

	require.NoError(t, err)
	assert.Equal(t, KindDirectory, kind)
	assert.Equal(t, "/home/user/docs", s.Root())
	assert.Equal(t, []string{"/home/user"}, s.History())
	assert.Empty(t, rec.opened)
}

func TestActivate_FileLaunches(t *testing.T) {
	rec := &recorder{}
	s := New(newTree(t), rec, "/home/user/docs", 0)

	kind, err := s.Activate("/home/user/docs/a.txt")

	require.NoError(t, err)
	assert.Equal(t, KindFile, kind)
	assert.Equal(t, "/home/user/docs", s.Root(), "opening a file must not re-root")
	assert.Equal(t, []string{"/home/user/docs/a.txt"}, rec.opened)
	assert.False(t, s.CanBack())
}

func TestActivate_LauncherFailure(t *testing.T) {
	rec := &recorder{err: errors.New("no handler")}
	s := New(newTree(t), rec, "/home/user/docs", 0)

	_, err := s.Activate("/home/user/docs/a.txt")

	assert.Error(t, err)
	assert.Equal(t, "/home/user/docs", s.Root())
}

func TestActivate_Missing(t *testing.T) {
	s := New(newTree(t), &recorder{}, "/home/user", 0)

	_, err := s.Activate("/home/user/gone")

	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
	assert.Equal(t, "/home/user", s.Root())
}

func TestUp_ReachesFixedPoint(t *testing.T) {
	s := New(newTree(t), nil, "/home/user/docs/deep", 0)

	var visited []string
	for s.Up() {
		visited = append(visited, s.Root())
	}

	assert.Equal(t, []string{"/home/user/docs", "/home/user", "/home", "/"}, visited)
	for i := 0; i < 3; i++ {
		assert.False(t, s.Up())
		assert.Equal(t, "/", s.Root())
	}
}

func TestUp_ComputerRoot(t *testing.T) {
	tree := fs.ComputerTree{Base: newTree(t)}
	s := New(tree, nil, "/home", 0)

	assert.True(t, s.Up())
	assert.Equal(t, "/", s.Root())
	assert.True(t, s.Up())
	assert.Equal(t, fs.ComputerRoot, s.Root())
	assert.False(t, s.Up())
}

func TestBackForward(t *testing.T) {
	s := New(newTree(t), nil, "/home/user", 0)

	_, err := s.Activate("/home/user/docs")
	require.NoError(t, err)
	_, err = s.Activate("/home/user/docs/deep")
	require.NoError(t, err)
	require.True(t, s.Up())
	assert.Equal(t, "/home/user/docs", s.Root())

	require.True(t, s.Back())
	assert.Equal(t, "/home/user/docs/deep", s.Root())
	require.True(t, s.Back())
	assert.Equal(t, "/home/user/docs", s.Root())
	require.True(t, s.Back())
	assert.Equal(t, "/home/user", s.Root())
	assert.False(t, s.Back())
	assert.Equal(t, "/home/user", s.Root())

	require.True(t, s.Forward())
	assert.Equal(t, "/home/user/docs", s.Root())
	require.True(t, s.Forward())
	assert.Equal(t, "/home/user/docs/deep", s.Root())
}

func TestFreshNavigationClearsForward(t *testing.T) {
	s := New(newTree(t), nil, "/home/user", 0)
	_, _ = s.Activate("/home/user/docs")
	require.True(t, s.Back())
	require.True(t, s.CanForward())

	_, err := s.Activate("/srv")
	require.NoError(t, err)

	assert.False(t, s.CanForward())
}

func TestActivateCurrentRootIsNoop(t *testing.T) {
	s := New(newTree(t), nil, "/home/user", 0)

	_, err := s.Activate("/home/user")

	require.NoError(t, err)
	assert.False(t, s.CanBack())
}

func TestHistoryCap(t *testing.T) {
	s := New(newTree(t), nil, "/", 2)

	for _, p := range []string{"/home", "/home/user", "/home/user/docs", "/srv"} {
		_, err := s.Activate(p)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"/home/user", "/home/user/docs"}, s.History())
}

func TestBackSkipsVanished(t *testing.T) {
	tree := newTree(t)
	s := New(tree, nil, "/srv", 0)
	_, _ = s.Activate("/home/user/docs/deep")
	_, _ = s.Activate("/home")
	require.NoError(t, tree.Unwrap().Remove("/home/user/docs/deep"))

	require.True(t, s.Back())

	assert.Equal(t, "/srv", s.Root())
}

func TestReroot(t *testing.T) {
	tree := newTree(t)
	s := New(tree, nil, "/home/user/docs/deep", 0)

	assert.False(t, s.Reroot())

	require.NoError(t, tree.Unwrap().Remove("/home/user/docs/deep"))
	assert.True(t, s.Reroot())
	assert.Equal(t, "/home/user/docs", s.Root())
	assert.False(t, s.CanBack())
}

func TestExpand(t *testing.T) {
	s := New(newTree(t), launch.Func(func(string) error { return nil }), "/home/user", 0)

	testCases := []struct {
		input    string
		expected string
	}{
		{"", "/home/user"},
		{"~", "/home/me"},
		{"~/music", "/home/me/music"},
		{"docs", "/home/user/docs"},
		{"../other/./x", "/home/other/x"},
		{"/etc/", "/etc"},
		{`C:\Users\me`, "C:/Users/me"},
		{"C:", "C:/"},
		{`\\srv\share\dir`, "//srv/share/dir"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, s.Expand(tc.input, "/home/me"))
		})
	}
}
