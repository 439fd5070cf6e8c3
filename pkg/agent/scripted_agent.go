package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/boristopalov/keydoor/pkg/core"
)

// WinningPlan solves the default layout. MOVE_LEFT steps one column to the
// right on screen.
func WinningPlan() []core.Action {
	return []core.Action{
		core.MoveDown,
		core.MoveDown,
		core.MoveLeft,
		core.PickUpKey,
		core.MoveLeft,
		core.MoveDown,
		core.OpenDoor,
	}
}

// ScriptedAgent replays a fixed plan and never replans.
type ScriptedAgent struct {
	id     string
	plan   []core.Action
	next   int
	logger *zap.Logger
}

func NewScriptedAgent(plan []core.Action, opts ...AgentOption) *ScriptedAgent {
	params := buildParams(opts)
	p := make([]core.Action, len(plan))
	copy(p, plan)
	return &ScriptedAgent{
		id:     params.AgentID,
		plan:   p,
		logger: params.Logger,
	}
}

func (a *ScriptedAgent) GetID() string {
	return a.id
}

func (a *ScriptedAgent) Observe(core.Observation) {}

func (a *ScriptedAgent) Act(context.Context) (core.Action, error) {
	if a.next >= len(a.plan) {
		return 0, fmt.Errorf("%w: plan had %d actions", ErrPlanExhausted, len(a.plan))
	}
	action := a.plan[a.next]
	a.next++
	a.logger.Debug("scripted action", zap.String("agent", a.id), zap.Stringer("action", action), zap.Int("index", a.next))
	return action, nil
}

// Remaining returns how many planned actions are left.
func (a *ScriptedAgent) Remaining() int {
	return len(a.plan) - a.next
}
