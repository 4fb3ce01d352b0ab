package dnd

import (
	"runtime"

	"gioui.org/io/key"
)

// Modifiers is the snapshot of modifier keys taken when a drag enters or
// drops.
type Modifiers struct {
	Shift   bool
	Control bool
}

// FromKey converts Gio modifier flags. On macOS the Command key plays the
// Control role for drags, as in Finder.
func FromKey(m key.Modifiers) Modifiers {
	return fromKey(m, runtime.GOOS)
}

func fromKey(m key.Modifiers, goos string) Modifiers {
	ctrl := m.Contain(key.ModCtrl)
	if goos == "darwin" && m.Contain(key.ModCommand) {
		ctrl = true
	}
	return Modifiers{Shift: m.Contain(key.ModShift), Control: ctrl}
}

func (m Modifiers) String() string {
	switch {
	case m.Shift && m.Control:
		return "Shift+Ctrl"
	case m.Shift:
		return "Shift"
	case m.Control:
		return "Ctrl"
	default:
		return "none"
	}
}
