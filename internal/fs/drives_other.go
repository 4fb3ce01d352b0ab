//go:build !linux && !darwin && !windows

package fs

// ListDrives returns the single root on hosts without a mount table reader.
func ListDrives() []Drive {
	return []Drive{{Name: "/ (Root)", Path: "/"}}
}
