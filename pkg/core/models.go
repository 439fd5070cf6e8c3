package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/boristopalov/keydoor/pkg/grid"
)

// Action is a command an agent hands to the environment.
type Action int

const (
	MoveUp Action = iota
	MoveDown
	MoveRight
	MoveLeft
	PickUpKey
	OpenDoor
)

var actionNames = [...]string{
	MoveUp:    "MOVE_UP",
	MoveDown:  "MOVE_DOWN",
	MoveRight: "MOVE_RIGHT",
	MoveLeft:  "MOVE_LEFT",
	PickUpKey: "PICK_UP_KEY",
	OpenDoor:  "OPEN_DOOR",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Actions returns the full action set in declaration order.
func Actions() []Action {
	return []Action{MoveUp, MoveDown, MoveRight, MoveLeft, PickUpKey, OpenDoor}
}

// ParseActionName maps a name such as "MOVE_UP" back to its Action.
func ParseActionName(name string) (Action, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Observation is the read-only snapshot handed to an agent each turn.
// Grid is a private copy; agents must not mutate it.
type Observation struct {
	Grid   grid.Grid
	HasKey bool
}

// String renders the grid followed by a line describing the key.
func (o Observation) String() string {
	var b strings.Builder
	b.WriteString(o.Grid.String())
	b.WriteString("\n")
	if o.HasKey {
		b.WriteString("You have the key.")
	} else {
		b.WriteString("You do not have the key.")
	}
	return b.String()
}

// Info carries auxiliary step data. Nothing is reported yet.
type Info map[string]any

type EpisodeStatus struct {
	Running   bool
	StartTime time.Time
	EndTime   time.Time
	Errors    []error
}
