//go:build !linux && !darwin && !windows

package launch

import "os/exec"

// BSDs and friends ship xdg-utils too.
func platformCommand(path string) *exec.Cmd {
	return exec.Command("xdg-open", path)
}
