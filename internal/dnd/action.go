package dnd

// Action is the outcome of a drop attempt.
type Action int

const (
	Reject Action = iota
	Copy
	Move
	Link
)

func (a Action) String() string {
	switch a {
	case Copy:
		return "copy"
	case Move:
		return "move"
	case Link:
		return "link"
	default:
		return "reject"
	}
}

// ParseAction is the inverse of Action.String. Unknown names map to Reject.
func ParseAction(s string) Action {
	switch s {
	case "copy":
		return Copy
	case "move":
		return Move
	case "link":
		return Link
	default:
		return Reject
	}
}
