package pathutil

import "strings"

// VolumeID identifies the storage volume a path lives on.
type VolumeID string

const (
	// SingleVolume is reported for every path on hosts without drive letters,
	// which makes every pair of paths "same volume".
	SingleVolume VolumeID = "/"
	// UnknownVolume is reported on drive-letter hosts for paths that carry no
	// recognizable volume. It never compares equal to anything.
	UnknownVolume VolumeID = ""
)

// DriveOf returns the volume of path. On drive-letter hosts this is the
// upper-cased letter ("C") or, for UNC paths, the lower-cased
// "//server/share" pair.
func DriveOf(path string, host OSFamily) VolumeID {
	if !host.DriveLetters() {
		return SingleVolume
	}
	if hasDriveLetter(path) {
		return VolumeID(strings.ToUpper(path[:1]))
	}
	if share, ok := uncShare(path); ok {
		return VolumeID(strings.ToLower(share))
	}
	return UnknownVolume
}

// SameVolume reports whether a and b live on the same volume.
func SameVolume(a, b string, host OSFamily) bool {
	va, vb := DriveOf(a, host), DriveOf(b, host)
	if va == UnknownVolume || vb == UnknownVolume {
		return false
	}
	return va == vb
}

func hasDriveLetter(path string) bool {
	return len(path) >= 2 && isLetter(path[0]) && path[1] == ':'
}

// uncShare returns "//server/share" for UNC paths in either separator style.
func uncShare(path string) (string, bool) {
	p := ToSlash(path)
	if !strings.HasPrefix(p, "//") || strings.HasPrefix(p, "///") {
		return "", false
	}
	parts := strings.SplitN(p[2:], "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return "//" + parts[0] + "/" + parts[1], true
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
