// Package launch hands files to the host's default application.
package launch

import (
	"os/exec"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/justyntemme/dropshell/internal/debug"
)

// Launcher opens a file with whatever the host associates with it.
type Launcher interface {
	Open(path string) error
}

// Func adapts a plain function to Launcher.
type Func func(path string) error

func (f Func) Open(path string) error { return f(path) }

// System launches through the platform opener (xdg-open, open, start).
// The spawned process is not waited on by the caller.
type System struct {
	// Command overrides the opener command; nil uses the platform default.
	Command func(path string) *exec.Cmd
}

func (s System) Open(path string) error {
	build := s.Command
	if build == nil {
		build = platformCommand
	}
	cmd := build(path)
	debug.Log(debug.EXEC, "Open %q via %s", path, cmd.Path)
	if err := cmd.Start(); err != nil {
		return platformerrors.WrapWithContext(err, platformerrors.CodeExecutionFailed,
			"failed to start opener", map[string]interface{}{"path": path, "opener": cmd.Path})
	}
	// Reap the child so it does not linger as a zombie.
	go func() {
		if err := cmd.Wait(); err != nil {
			debug.Log(debug.EXEC, "Open %q: opener exited: %v", path, err)
		}
	}()
	return nil
}
