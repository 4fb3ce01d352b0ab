//go:build !darwin

package config

// DefaultHotkeys returns the default keyboard shortcuts for Windows/Linux
// Uses Alt for navigation shortcuts (standard convention)
func DefaultHotkeys() HotkeysConfig {
	return HotkeysConfig{
		Back:        "Alt+Left",
		Forward:     "Alt+Right",
		Up:          "Alt+Up",
		Open:        "Enter",
		NewWindow:   "Ctrl+N",
		CloseWindow: "Ctrl+W",
		CloseAll:    "Ctrl+Shift+W",
	}
}
