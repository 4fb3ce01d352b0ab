// Package transfer performs resolved drops: it copies, moves or links the
// dropped paths into the target directory.
package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	platformerrors "github.com/jmgilman/go/errors"

	"github.com/justyntemme/dropshell/internal/debug"
	"github.com/justyntemme/dropshell/internal/dnd"
)

// Common file permission modes
const (
	DirPermission  = 0o755
	FilePermission = 0o644
)

// Result summarizes a finished transfer.
type Result struct {
	Items int   // top-level payload entries transferred
	Bytes int64 // file bytes written; zero for moves by rename and links
}

func (r Result) String() string {
	noun := "items"
	if r.Items == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%d %s, %s", r.Items, noun, humanize.Bytes(uint64(r.Bytes)))
}

// Executor carries out drop decisions on the local filesystem.
type Executor struct {
	// Progress, when set, is called with the running byte count as file
	// data is written.
	Progress func(written int64)
}

// Execute applies action to every payload path. Destinations are the base
// names of the sources under target. All destinations are checked before
// anything is touched; a conflict fails the whole transfer.
func (e *Executor) Execute(ctx context.Context, action dnd.Action, payload dnd.Payload, target string) (Result, error) {
	var res Result
	if action == dnd.Reject {
		return res, platformerrors.New(platformerrors.CodeInvalidInput, "rejected drops cannot be executed")
	}

	dsts := make([]string, len(payload))
	for i, src := range payload {
		dst, err := destination(src, target)
		if err != nil {
			return res, err
		}
		dsts[i] = dst
	}

	var written int64
	for i, src := range payload {
		if err := ctx.Err(); err != nil {
			return res, platformerrors.Wrap(err, platformerrors.CodeExecutionFailed, "transfer cancelled")
		}
		n, err := e.one(ctx, action, src, dsts[i], &written)
		res.Bytes += n
		if err != nil {
			return res, platformerrors.WrapWithContext(err, platformerrors.CodeExecutionFailed,
				action.String()+" failed", map[string]interface{}{"path": src, "action": action.String()})
		}
		res.Items++
	}
	debug.Log(debug.EXEC, "Execute %s -> %q: %s", action, target, res)
	return res, nil
}

func (e *Executor) one(ctx context.Context, action dnd.Action, src, dst string, written *int64) (int64, error) {
	switch action {
	case dnd.Link:
		return 0, os.Symlink(src, dst)
	case dnd.Move:
		err := os.Rename(src, dst)
		if err == nil {
			return 0, nil
		}
		// Rename fails across volumes; fall back to copy and delete.
		debug.Log(debug.EXEC, "rename %q: %v, copying instead", src, err)
		n, err := e.copyAny(ctx, src, dst, written)
		if err != nil {
			return n, err
		}
		return n, os.RemoveAll(src)
	default:
		return e.copyAny(ctx, src, dst, written)
	}
}

// destination validates one payload entry against target.
func destination(src, target string) (string, error) {
	srcClean := filepath.Clean(src)
	targetClean := filepath.Clean(target)
	if srcClean == targetClean || isWithin(targetClean, srcClean) {
		return "", platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeInvalidInput, "cannot transfer a directory into itself"),
			"path", src)
	}
	dst := filepath.Join(targetClean, filepath.Base(srcClean))
	if _, err := os.Lstat(dst); err == nil {
		return "", platformerrors.WithContext(
			platformerrors.New(platformerrors.CodeAlreadyExists, "destination already exists"),
			"path", dst)
	}
	return dst, nil
}

// isWithin reports whether path lies strictly below dir.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
