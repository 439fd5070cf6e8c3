// Package tools exposes environment operations as named, text-in/text-out
// callables for tool-using agents.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/boristopalov/keydoor/pkg/core"
)

var (
	ErrToolUnregistered = errors.New("tool is not registered")
	ErrToolNameEmpty    = errors.New("tool name is empty")
	ErrNilFunc          = errors.New("tool function is nil")
	ErrDuplicateTool    = errors.New("tool is already registered")
)

// Func executes a tool with its single text argument and returns a
// human-readable result.
type Func func(argument string) string

// Tool is a named, described callable. Tools mutate the environment they
// were bound to.
type Tool struct {
	Name        string
	Description string
	Func        Func
}

// Registry stores tools by name and keeps registration order for prompts.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry(initial ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(initial))}
	for _, t := range initial {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Func == nil {
		return fmt.Errorf("%w: %q", ErrNilFunc, t.Name)
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Lookup finds a tool by its exact, case-sensitive name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Invoke runs the named tool with argument.
func (r *Registry) Invoke(name, argument string) (string, error) {
	if name == "" {
		return "", ErrToolNameEmpty
	}
	t, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrToolUnregistered, name)
	}
	return t.Func(argument), nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Describe lists one "name: description" line per tool.
func (r *Registry) Describe() string {
	lines := make([]string, 0, len(r.order))
	for _, t := range r.Tools() {
		lines = append(lines, fmt.Sprintf("- %s(argument): %s", t.Name, t.Description))
	}
	return strings.Join(lines, "\n")
}

// Stepper is the part of an environment the core tools drive.
type Stepper interface {
	Step(action core.Action) (core.Observation, bool, core.Info)
}

// CoreTools wraps movement, key pickup and door opening around env.
func CoreTools(env Stepper) []Tool {
	move := func(direction string) string {
		direction = strings.ToLower(strings.TrimSpace(direction))
		var action core.Action
		switch direction {
		case "up":
			action = core.MoveUp
		case "down":
			action = core.MoveDown
		case "left":
			action = core.MoveLeft
		case "right":
			action = core.MoveRight
		default:
			return fmt.Sprintf("Unknown direction: %s", direction)
		}
		obs, done, _ := env.Step(action)
		return fmt.Sprintf("Moved %s. has_key=%t done=%t", direction, obs.HasKey, done)
	}

	pickUpKey := func(string) string {
		obs, _, _ := env.Step(core.PickUpKey)
		return fmt.Sprintf("Attempted to pick up key. has_key=%t", obs.HasKey)
	}

	openDoor := func(string) string {
		_, done, _ := env.Step(core.OpenDoor)
		return fmt.Sprintf("Attempted to open door. done=%t", done)
	}

	return []Tool{
		{Name: "move", Description: "Move the agent in a direction (up, down, left, right)", Func: move},
		{Name: "pick_up_key", Description: "Pick up the key if standing on it", Func: pickUpKey},
		{Name: "open_door", Description: "Open the door if standing on it", Func: openDoor},
	}
}

// NewCoreRegistry returns a registry holding CoreTools(env).
func NewCoreRegistry(env Stepper) *Registry {
	r, err := NewRegistry(CoreTools(env)...)
	if err != nil {
		// The core tool names are fixed and distinct.
		panic(err)
	}
	return r
}
