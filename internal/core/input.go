package core

import "strings"

// Action represents a semantic control action, abstracted from physical key presses.
// This allows scenes to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone   Action = iota
	ActionLeft          // A, Left arrow - walk left
	ActionRight         // D, Right arrow - walk right
	ActionUp            // W, Up arrow - move up (free-flying bodies)
	ActionDown          // S, Down arrow - move down
	ActionJump          // Space - jump
	ActionPause         // P - pause/unpause the simulation
	ActionReload        // R - reload settings from disk
	ActionDebug         // G - toggle debug bounds
	ActionQuit          // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionJump:
		return "Jump"
	case ActionPause:
		return "Pause"
	case ActionReload:
		return "Reload"
	case ActionDebug:
		return "Debug"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// ParseAction looks up an action by name, ignoring case.
func ParseAction(name string) (Action, bool) {
	for a := ActionLeft; a <= ActionQuit; a++ {
		if strings.EqualFold(a.String(), strings.TrimSpace(name)) {
			return a, true
		}
	}
	return ActionNone, false
}

// InputFrame represents the input state during one render frame.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
