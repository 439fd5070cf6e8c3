package experiment

import (
	"sync"

	"github.com/boristopalov/keydoor/pkg/core"
	"github.com/boristopalov/keydoor/pkg/tools"
)

// RecordedStep is an environment step taken outside the runner, by a tool.
type RecordedStep struct {
	Action core.Action
	HasKey bool
	Done   bool
}

// StepRecorder forwards steps to an environment and remembers them until
// the runner drains them. Bind tool registries to it so tool-driven steps
// reach the transcript and the event bus.
type StepRecorder struct {
	env     tools.Stepper
	mu      sync.Mutex
	pending []RecordedStep
}

func NewStepRecorder(env tools.Stepper) *StepRecorder {
	return &StepRecorder{env: env}
}

func (r *StepRecorder) Step(action core.Action) (core.Observation, bool, core.Info) {
	obs, done, info := r.env.Step(action)

	r.mu.Lock()
	r.pending = append(r.pending, RecordedStep{Action: action, HasKey: obs.HasKey, Done: done})
	r.mu.Unlock()

	return obs, done, info
}

// Drain returns the steps recorded since the last call, oldest first.
func (r *StepRecorder) Drain() []RecordedStep {
	r.mu.Lock()
	defer r.mu.Unlock()

	steps := r.pending
	r.pending = nil
	return steps
}
