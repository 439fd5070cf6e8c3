package experiment

import (
	"reflect"
	"testing"

	"github.com/boristopalov/keydoor/pkg/core"
)

func TestStepRecorder(t *testing.T) {
	env := newEnv(t)
	rec := NewStepRecorder(env)

	if steps := rec.Drain(); len(steps) != 0 {
		t.Fatalf("Drain() on a fresh recorder = %v, want none", steps)
	}

	for _, a := range []core.Action{core.MoveDown, core.MoveDown, core.MoveLeft, core.PickUpKey} {
		rec.Step(a)
	}
	if env.Steps() != 4 {
		t.Errorf("env.Steps() = %d, want 4", env.Steps())
	}

	want := []RecordedStep{
		{Action: core.MoveDown},
		{Action: core.MoveDown},
		{Action: core.MoveLeft},
		{Action: core.PickUpKey, HasKey: true},
	}
	if got := rec.Drain(); !reflect.DeepEqual(got, want) {
		t.Errorf("Drain() = %+v, want %+v", got, want)
	}
	if steps := rec.Drain(); len(steps) != 0 {
		t.Errorf("second Drain() = %v, want none", steps)
	}
}
