package session

// State is a session lifecycle state.
type State int

const (
	StateOpen    State = iota // both directions active
	StateClosing              // one direction stopped, the other is being cancelled
	StateClosed               // both directions joined, transport released; terminal
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// transitions lists the legal next states. Closed has no exits.
var transitions = map[State][]State{
	StateOpen:    {StateClosing},
	StateClosing: {StateClosed},
	StateClosed:  {},
}

func isValidTransition(from, to State) bool {
	for _, valid := range transitions[from] {
		if to == valid {
			return true
		}
	}
	return false
}
