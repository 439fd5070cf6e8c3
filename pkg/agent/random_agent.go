package agent

import (
	"context"
	"math/rand"

	"github.com/boristopalov/keydoor/pkg/core"
)

// RandomAgent picks uniformly from the full action set.
type RandomAgent struct {
	id      string
	rand    *rand.Rand
	actions []core.Action
}

func NewRandomAgent(opts ...AgentOption) *RandomAgent {
	params := buildParams(opts)
	return &RandomAgent{
		id:      params.AgentID,
		rand:    params.Rand,
		actions: core.Actions(),
	}
}

func (a *RandomAgent) GetID() string {
	return a.id
}

func (a *RandomAgent) Observe(core.Observation) {}

func (a *RandomAgent) Act(context.Context) (core.Action, error) {
	return a.actions[a.rand.Intn(len(a.actions))], nil
}
