package tools_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/boristopalov/keydoor/pkg/environment"
	"github.com/boristopalov/keydoor/pkg/grid"
	"github.com/boristopalov/keydoor/pkg/tools"
)

func newRegistry(t *testing.T) (*tools.Registry, *environment.KeyDoorEnvironment) {
	t.Helper()
	env, err := environment.NewKeyDoorEnvironment()
	if err != nil {
		t.Fatalf("NewKeyDoorEnvironment() error = %v", err)
	}
	return tools.NewCoreRegistry(env), env
}

func TestMoveTool(t *testing.T) {
	registry, env := newRegistry(t)

	result, err := registry.Invoke("move", "  Down ")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.HasPrefix(result, "Moved down.") {
		t.Errorf("result = %q, want prefix %q", result, "Moved down.")
	}
	if got := env.AgentPosition(); got != (grid.Position{X: 1, Y: 2}) {
		t.Errorf("AgentPosition() = %v, want (1, 2)", got)
	}
	if env.Steps() != 1 {
		t.Errorf("Steps() = %d, want 1", env.Steps())
	}
}

func TestMoveToolUnknownDirection(t *testing.T) {
	registry, env := newRegistry(t)

	result, err := registry.Invoke("move", "sideways")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if result != "Unknown direction: sideways" {
		t.Errorf("result = %q", result)
	}
	if env.Steps() != 0 {
		t.Errorf("unknown direction stepped the environment")
	}
}

func TestKeyAndDoorTools(t *testing.T) {
	registry, env := newRegistry(t)

	result, _ := registry.Invoke("pick_up_key", "")
	if result != "Attempted to pick up key. has_key=false" {
		t.Errorf("pick_up_key result = %q", result)
	}

	for _, dir := range []string{"down", "down", "left"} {
		if _, err := registry.Invoke("move", dir); err != nil {
			t.Fatalf("move(%s) error = %v", dir, err)
		}
	}
	result, _ = registry.Invoke("pick_up_key", "")
	if result != "Attempted to pick up key. has_key=true" {
		t.Errorf("pick_up_key result = %q", result)
	}

	result, _ = registry.Invoke("open_door", "")
	if result != "Attempted to open door. done=false" {
		t.Errorf("open_door result = %q", result)
	}

	registry.Invoke("move", "left")
	registry.Invoke("move", "down")
	result, _ = registry.Invoke("open_door", "")
	if result != "Attempted to open door. done=true" {
		t.Errorf("open_door result = %q", result)
	}
	if !env.Done() {
		t.Error("environment not done after opening the door")
	}
}

func TestRegistryErrors(t *testing.T) {
	registry, _ := newRegistry(t)

	if _, err := registry.Invoke("Move", "up"); !errors.Is(err, tools.ErrToolUnregistered) {
		t.Errorf("Invoke(Move) error = %v, want ErrToolUnregistered", err)
	}
	if _, err := registry.Invoke("", "up"); !errors.Is(err, tools.ErrToolNameEmpty) {
		t.Errorf("Invoke(\"\") error = %v, want ErrToolNameEmpty", err)
	}

	dup := tools.Tool{Name: "move", Func: func(string) string { return "" }}
	if err := registry.Register(dup); !errors.Is(err, tools.ErrDuplicateTool) {
		t.Errorf("Register(move) error = %v, want ErrDuplicateTool", err)
	}
	if err := registry.Register(tools.Tool{Name: "noop"}); !errors.Is(err, tools.ErrNilFunc) {
		t.Errorf("Register(nil func) error = %v, want ErrNilFunc", err)
	}
}

func TestDescribe(t *testing.T) {
	registry, _ := newRegistry(t)

	want := strings.Join([]string{
		"- move(argument): Move the agent in a direction (up, down, left, right)",
		"- pick_up_key(argument): Pick up the key if standing on it",
		"- open_door(argument): Open the door if standing on it",
	}, "\n")
	if got := registry.Describe(); got != want {
		t.Errorf("Describe() =\n%s\nwant\n%s", got, want)
	}
}
