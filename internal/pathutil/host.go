// Package pathutil holds the pure path helpers shared by the drop and
// navigation code: file URI decoding, volume identification and common
// prefix computation. Nothing in this package touches the filesystem.
package pathutil

import "runtime"

// OSFamily identifies the host operating system family.
type OSFamily int

const (
	Linux OSFamily = iota
	Darwin
	Windows
	OtherPOSIX
)

func (f OSFamily) String() string {
	switch f {
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	case Windows:
		return "windows"
	default:
		return "posix"
	}
}

// DriveLetters reports whether volumes on this family are letter-identified.
func (f OSFamily) DriveLetters() bool {
	return f == Windows
}

// HostOS returns the family of the running process.
func HostOS() OSFamily {
	return familyOf(runtime.GOOS)
}

func familyOf(goos string) OSFamily {
	switch goos {
	case "windows":
		return Windows
	case "darwin", "ios":
		return Darwin
	case "linux", "android":
		return Linux
	default:
		return OtherPOSIX
	}
}
