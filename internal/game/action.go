package game

import (
	"fmt"
	"slices"
)

// Action is a decision the player can make on the active hand
type Action int

const (
	ActionHit Action = iota
	ActionStand
	ActionDouble
	ActionSplit
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case ActionHit:
		return "hit"
	case ActionStand:
		return "stand"
	case ActionDouble:
		return "double"
	case ActionSplit:
		return "split"
	default:
		return "unknown"
	}
}

// ParseAction converts a command word to an Action. Single-letter
// shortcuts are accepted.
func ParseAction(s string) (Action, error) {
	switch s {
	case "hit", "h":
		return ActionHit, nil
	case "stand", "s":
		return ActionStand, nil
	case "double", "d":
		return ActionDouble, nil
	case "split", "p":
		return ActionSplit, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// Apply performs a player action
func (g *Game) Apply(a Action) error {
	switch a {
	case ActionHit:
		return g.Hit()
	case ActionStand:
		return g.Stand()
	case ActionDouble:
		return g.DoubleDown()
	case ActionSplit:
		return g.Split()
	default:
		return fmt.Errorf("unknown action %d", int(a))
	}
}

// LegalActions returns the actions the active hand accepts, in menu order.
// It is empty outside the player's turn.
func (s State) LegalActions() []Action {
	h, ok := s.Active()
	if !ok {
		return nil
	}

	actions := []Action{ActionHit, ActionStand}
	if h.CanDoubleDown() && s.Chips >= h.Bet {
		actions = append(actions, ActionDouble)
	}
	if h.CanSplit() && s.Chips >= h.Bet {
		actions = append(actions, ActionSplit)
	}
	return actions
}

// Can reports whether the action is currently legal
func (s State) Can(a Action) bool {
	return slices.Contains(s.LegalActions(), a)
}
