//go:build darwin

package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// ListDrives returns the volumes under /Volumes, boot volume first.
func ListDrives() []Drive {
	var drives []Drive
	var mu sync.Mutex

	conf := &fastwalk.Config{Follow: true}
	err := fastwalk.Walk(conf, "/Volumes", func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil || fullPath == "/Volumes" {
			return nil
		}
		if filepath.Dir(fullPath) != "/Volumes" || !d.IsDir() {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		// The boot volume is a symlink to /
		if target, err := os.Readlink(fullPath); err == nil && target == "/" {
			mu.Lock()
			drives = append([]Drive{{Name: d.Name(), Path: "/"}}, drives...)
			mu.Unlock()
			return fastwalk.SkipDir
		}
		if _, err := os.Stat(fullPath); err != nil {
			return fastwalk.SkipDir
		}

		mu.Lock()
		drives = append(drives, Drive{Name: d.Name(), Path: fullPath})
		mu.Unlock()
		return fastwalk.SkipDir
	})

	if err != nil || len(drives) == 0 {
		return []Drive{{Name: "Macintosh HD", Path: "/"}}
	}
	return drives
}
