//go:build windows

package fs

import (
	"golang.org/x/sys/windows"
)

// ListDrivePaths returns drive roots ("C:/") without touching the volumes.
// GetLogicalDrives returns immediately even for disconnected network drives.
func ListDrivePaths() []string {
	mask, err := windows.GetLogicalDrives()
	if err != nil || mask == 0 {
		return nil
	}
	var paths []string
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) != 0 {
			paths = append(paths, string(rune('A'+i))+":/")
		}
	}
	return paths
}

// ListDrives returns available drives with display names.
// GetVolumeInformation can block on slow or disconnected drives.
func ListDrives() []Drive {
	var drives []Drive
	for _, path := range ListDrivePaths() {
		letter := path[:1]
		root, err := windows.UTF16PtrFromString(letter + `:\`)
		if err != nil {
			continue
		}

		driveType := windows.GetDriveType(root)
		if driveType == windows.DRIVE_UNKNOWN || driveType == windows.DRIVE_NO_ROOT_DIR {
			continue
		}

		name := letter + ":"
		volumeName := make([]uint16, windows.MAX_PATH+1)
		if err := windows.GetVolumeInformation(root, &volumeName[0], uint32(len(volumeName)), nil, nil, nil, nil, 0); err == nil {
			if label := windows.UTF16ToString(volumeName); label != "" {
				name = label + " (" + letter + ":)"
			}
		}
		if name == letter+":" {
			switch driveType {
			case windows.DRIVE_REMOVABLE:
				name = "Removable (" + letter + ":)"
			case windows.DRIVE_CDROM:
				name = "CD/DVD (" + letter + ":)"
			case windows.DRIVE_REMOTE:
				name = "Network (" + letter + ":)"
			}
		}
		drives = append(drives, Drive{Name: name, Path: path})
	}
	return drives
}
