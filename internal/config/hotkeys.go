package config

import (
	"strings"

	"gioui.org/io/event"
	"gioui.org/io/key"
)

// Hotkey represents a parsed keyboard shortcut
type Hotkey struct {
	Key       key.Name
	Modifiers key.Modifiers
}

// ParseHotkey parses a hotkey string like "Ctrl+Shift+W" into a Hotkey
func ParseHotkey(s string) Hotkey {
	if s == "" {
		return Hotkey{}
	}

	var mods key.Modifiers
	var rawKeyPart string
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "ctrl", "control":
			mods |= key.ModCtrl
		case "shift":
			mods |= key.ModShift
		case "alt", "option":
			mods |= key.ModAlt
		case "cmd", "command":
			mods |= key.ModCommand
		case "super", "meta", "win":
			mods |= key.ModSuper
		default:
			rawKeyPart = part
		}
	}
	return Hotkey{Key: parseKeyName(rawKeyPart), Modifiers: mods}
}

var namedKeys = map[string]key.Name{
	"up":        key.NameUpArrow,
	"down":      key.NameDownArrow,
	"left":      key.NameLeftArrow,
	"right":     key.NameRightArrow,
	"home":      key.NameHome,
	"end":       key.NameEnd,
	"enter":     key.NameReturn,
	"return":    key.NameReturn,
	"backspace": key.NameDeleteBackward,
	"delete":    key.NameDeleteForward,
	"escape":    key.NameEscape,
	"esc":       key.NameEscape,
	"tab":       key.NameTab,
	"space":     key.NameSpace,
	"f5":        key.NameF5,
}

// parseKeyName converts a key string to Gio's key.Name
func parseKeyName(s string) key.Name {
	// Single letters: key.Name uses uppercase
	if len(s) == 1 {
		return key.Name(strings.ToUpper(s))
	}
	if name, ok := namedKeys[strings.ToLower(s)]; ok {
		return name
	}
	// Unknown names pass through (custom key names)
	return key.Name(s)
}

// Matches checks if a key event matches this hotkey exactly, so that
// Ctrl+W and Ctrl+Shift+W stay distinct
func (h Hotkey) Matches(k key.Event) bool {
	if h.Key == "" {
		return false
	}
	return k.Name == h.Key && k.Modifiers == h.Modifiers
}

// IsEmpty returns true if the hotkey is not configured
func (h Hotkey) IsEmpty() bool {
	return h.Key == ""
}

// String returns a human-readable representation of the hotkey
func (h Hotkey) String() string {
	if h.Key == "" {
		return ""
	}
	var parts []string
	for _, m := range []struct {
		mod  key.Modifiers
		name string
	}{
		{key.ModCtrl, "Ctrl"},
		{key.ModCommand, "Cmd"},
		{key.ModShift, "Shift"},
		{key.ModAlt, "Alt"},
		{key.ModSuper, "Super"},
	} {
		if h.Modifiers.Contain(m.mod) {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, string(h.Key)), "+")
}

// Filter returns a key.Filter that matches this hotkey
func (h Hotkey) Filter(focus event.Tag) key.Filter {
	return key.Filter{
		Focus:    focus,
		Name:     h.Key,
		Required: h.Modifiers,
	}
}

// Command is a shell action bound to a hotkey.
type Command int

const (
	CmdNone Command = iota
	CmdBack
	CmdForward
	CmdUp
	CmdOpen
	CmdNewWindow
	CmdCloseWindow
	CmdCloseAll
)

var commandNames = [...]string{"none", "back", "forward", "up", "open", "newWindow", "closeWindow", "closeAll"}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "none"
	}
	return commandNames[c]
}

// HotkeyMatcher maps key events to commands
type HotkeyMatcher struct {
	bindings []binding
}

type binding struct {
	hotkey Hotkey
	cmd    Command
}

// NewHotkeyMatcher creates a matcher from config
func NewHotkeyMatcher(cfg HotkeysConfig) *HotkeyMatcher {
	m := &HotkeyMatcher{}
	for _, b := range []struct {
		spec string
		cmd  Command
	}{
		{cfg.Back, CmdBack},
		{cfg.Forward, CmdForward},
		{cfg.Up, CmdUp},
		{cfg.Open, CmdOpen},
		{cfg.NewWindow, CmdNewWindow},
		{cfg.CloseWindow, CmdCloseWindow},
		{cfg.CloseAll, CmdCloseAll},
	} {
		if hk := ParseHotkey(b.spec); !hk.IsEmpty() {
			m.bindings = append(m.bindings, binding{hotkey: hk, cmd: b.cmd})
		}
	}
	return m
}

// Match returns the command bound to k. Only key presses match.
func (m *HotkeyMatcher) Match(k key.Event) Command {
	if k.State != key.Press {
		return CmdNone
	}
	for _, b := range m.bindings {
		if b.hotkey.Matches(k) {
			return b.cmd
		}
	}
	return CmdNone
}

// Filters returns one key.Filter per bound hotkey for focus.
func (m *HotkeyMatcher) Filters(focus event.Tag) []event.Filter {
	filters := make([]event.Filter, 0, len(m.bindings))
	for _, b := range m.bindings {
		filters = append(filters, b.hotkey.Filter(focus))
	}
	return filters
}
