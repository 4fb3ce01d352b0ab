//go:build darwin

package config

// DefaultHotkeys returns the default keyboard shortcuts for macOS,
// following Finder
func DefaultHotkeys() HotkeysConfig {
	return HotkeysConfig{
		Back:        "Cmd+[",
		Forward:     "Cmd+]",
		Up:          "Cmd+Up",
		Open:        "Cmd+Down",
		NewWindow:   "Cmd+N",
		CloseWindow: "Cmd+W",
		CloseAll:    "Cmd+Alt+W",
	}
}
