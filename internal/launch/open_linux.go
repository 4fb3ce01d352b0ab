//go:build linux

package launch

import "os/exec"

// platformCommand opens the file using 'xdg-open' (default application).
func platformCommand(path string) *exec.Cmd {
	return exec.Command("xdg-open", path)
}
