//go:build windows

package launch

import "os/exec"

// platformCommand opens the file using the Windows 'start' command.
func platformCommand(path string) *exec.Cmd {
	// 'cmd /c start "" "path"' is the standard way to launch files in Windows
	return exec.Command("cmd", "/c", "start", "", path)
}
