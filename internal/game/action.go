package game

import "fmt"

// Action is one of the discrete moves available to the agent each tick.
type Action int

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionRotate
	ActionSoftDrop
)

// NumActions is the size of the action space.
const NumActions = 4

// AllActions lists the action space in index order.
var AllActions = []Action{ActionMoveLeft, ActionMoveRight, ActionRotate, ActionSoftDrop}

func (a Action) String() string {
	switch a {
	case ActionMoveLeft:
		return "move_left"
	case ActionMoveRight:
		return "move_right"
	case ActionRotate:
		return "rotate"
	case ActionSoftDrop:
		return "soft_drop"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Valid reports whether a is inside the action space.
func (a Action) Valid() bool {
	return a >= 0 && int(a) < NumActions
}
