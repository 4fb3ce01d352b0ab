//go:build darwin

package launch

import "os/exec"

// platformCommand opens the file using the macOS 'open' command.
func platformCommand(path string) *exec.Cmd {
	return exec.Command("open", path)
}
