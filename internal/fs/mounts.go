package fs

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"
)

// virtualFSTypes are never offered as drives.
var virtualFSTypes = map[string]bool{
	"tmpfs":    true,
	"devtmpfs": true,
	"cgroup":   true,
	"cgroup2":  true,
	"proc":     true,
	"sysfs":    true,
	"overlay":  true,
}

var virtualMountRoots = []string{"/sys", "/proc", "/dev", "/run", "/snap"}

// parseMounts reads an fstab-style mount table. The root filesystem is
// always first.
func parseMounts(r io.Reader) []Drive {
	drives := []Drive{{Name: "/ (Root)", Path: "/"}}
	seen := map[string]bool{"/": true}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		// Octal escapes (\040 for space) are how the kernel encodes blanks.
		mountPoint := strings.ReplaceAll(fields[1], `\040`, " ")
		if seen[mountPoint] || virtualFSTypes[fields[2]] || isVirtualMount(mountPoint) {
			continue
		}
		seen[mountPoint] = true

		name := mountPoint
		switch {
		case strings.HasPrefix(mountPoint, "/media/"), strings.HasPrefix(mountPoint, "/mnt/"):
			name = filepath.Base(mountPoint)
		case mountPoint == "/home":
			name = "Home"
		}
		drives = append(drives, Drive{Name: name, Path: mountPoint})
	}
	return drives
}

func isVirtualMount(mountPoint string) bool {
	for _, root := range virtualMountRoots {
		if mountPoint == root || strings.HasPrefix(mountPoint, root+"/") {
			return true
		}
	}
	return false
}
