package core

// PlayerID identifies a seat in an online match.
type PlayerID int

const (
	Player1 PlayerID = iota
	Player2
)

func (p PlayerID) String() string {
	if p == Player1 {
		return "Player1"
	}
	return "Player2"
}

// Other returns the opposing seat.
func (p PlayerID) Other() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Action is a semantic input, decoupled from the physical key.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Move the cursor up
	ActionDown           // Move the cursor down
	ActionLeft           // Move the cursor left
	ActionRight          // Move the cursor right
	ActionFire           // Attack the cell under the cursor
	ActionRotate         // Toggle orientation
	ActionConfirm        // Enter
	ActionBack           // Escape, return to menu
	ActionRestart        // New game after game over
	ActionQuit
	ActionPause
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionRotate:
		return "Rotate"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has reports whether a was triggered.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// CursorDelta sums the directional actions in the frame.
func (f InputFrame) CursorDelta() (dx, dy int) {
	if f.Has(ActionLeft) {
		dx--
	}
	if f.Has(ActionRight) {
		dx++
	}
	if f.Has(ActionUp) {
		dy--
	}
	if f.Has(ActionDown) {
		dy++
	}
	return dx, dy
}
