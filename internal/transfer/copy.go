package transfer

import (
	"context"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
)

func (e *Executor) copyAny(ctx context.Context, src, dst string, written *int64) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return e.copyDir(ctx, src, dst, written)
	}
	return e.copyFile(src, dst, written)
}

// copyFile copies a single file with progress tracking.
func (e *Executor) copyFile(src, dst string, written *int64) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return 0, err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePermission)
	if err != nil {
		return 0, err
	}
	defer dstFile.Close()

	n, err := io.Copy(e.progressWriter(dstFile, written), srcFile)
	if err != nil {
		return n, err
	}
	return n, os.Chmod(dst, info.Mode())
}

type copyItem struct {
	srcPath string
	dstPath string
	isDir   bool
	mode    iofs.FileMode
}

// copyDir copies a directory recursively. The tree is listed with fastwalk
// first, then recreated parents-first.
func (e *Executor) copyDir(ctx context.Context, src, dst string, written *int64) (int64, error) {
	var items []copyItem
	var itemsMu sync.Mutex

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, src, func(fullPath string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, fullPath)
		if err != nil || rel == "." {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		itemsMu.Lock()
		items = append(items, copyItem{
			srcPath: fullPath,
			dstPath: filepath.Join(dst, rel),
			isDir:   info.IsDir(),
			mode:    info.Mode(),
		})
		itemsMu.Unlock()
		return nil
	})
	if err != nil {
		return 0, err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, err
	}
	if err := os.Mkdir(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return 0, err
	}

	// Directories before files, parents before children.
	sort.Slice(items, func(i, j int) bool {
		if items[i].isDir != items[j].isDir {
			return items[i].isDir
		}
		return len(items[i].dstPath) < len(items[j].dstPath)
	})

	var total int64
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		switch {
		case item.isDir:
			if err := os.MkdirAll(item.dstPath, item.mode.Perm()|0o700); err != nil {
				return total, err
			}
		case item.mode&iofs.ModeSymlink != 0:
			link, err := os.Readlink(item.srcPath)
			if err != nil {
				return total, err
			}
			if err := os.Symlink(link, item.dstPath); err != nil {
				return total, err
			}
		default:
			n, err := e.copyFile(item.srcPath, item.dstPath, written)
			total += n
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (e *Executor) progressWriter(w io.Writer, written *int64) io.Writer {
	return &progressWriter{
		w: w,
		onWrite: func(n int64) {
			*written += n
			if e.Progress != nil {
				e.Progress(*written)
			}
		},
	}
}

// progressWriter wraps an io.Writer and calls onWrite after each write
type progressWriter struct {
	w       io.Writer
	onWrite func(int64)
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	if n > 0 && pw.onWrite != nil {
		pw.onWrite(int64(n))
	}
	return n, err
}
