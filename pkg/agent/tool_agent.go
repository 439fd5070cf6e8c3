package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/boristopalov/keydoor/pkg/core"
	"github.com/boristopalov/keydoor/pkg/tools"
)

const (
	TOOL_SYSTEM_PROMPT = `You are playing a grid game. '@' is you, '#' is a wall you cannot walk through, 'K' is the key and 'D' is the door. Walk onto the key and pick it up, then walk onto the door and open it.
You may call one tool per reply by writing its name followed by the argument in parentheses, for example move(down). Tools act on the game immediately and you will see their result.
When you are ready to commit to a single action instead, answer with exactly one of: move up, move down, move left, move right, pick up key, open door.`

	TOOL_PROMPT_TEMPLATE = `%s

Available tools:
%s
%s
Reply with one tool call or one action.`
)

// ToolAgent is an LLM agent that may invoke tools before committing to an
// action. Each decision is bounded by maxTries completions.
type ToolAgent struct {
	*LLMAgent
	registry *tools.Registry
	maxTries int
	refresh  func() core.Observation
}

func NewToolAgent(model LanguageModel, registry *tools.Registry, opts ...AgentOption) (*ToolAgent, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if registry == nil {
		return nil, fmt.Errorf("tool registry is nil")
	}
	params := buildParams(opts)
	instruction := params.Instruction
	if instruction == "" {
		instruction = TOOL_SYSTEM_PROMPT
	}

	return &ToolAgent{
		LLMAgent: &LLMAgent{
			id:          params.AgentID,
			model:       model,
			instruction: instruction,
			logger:      params.Logger,
		},
		registry: registry,
		maxTries: params.MaxTries,
		refresh:  params.Refresh,
	}, nil
}

func (a *ToolAgent) Act(ctx context.Context) (core.Action, error) {
	feedback := ""
	for try := 1; try <= a.maxTries; try++ {
		response, err := a.complete(ctx, a.buildPrompt(feedback))
		if err != nil {
			return 0, err
		}

		call, found, err := ParseToolCall(response)
		if err != nil {
			return 0, err
		}
		if !found {
			action, err := ParseAction(response)
			if err != nil {
				return 0, err
			}
			a.logger.Debug("tool agent action",
				zap.String("agent", a.id),
				zap.Stringer("action", action),
				zap.Int("try", try),
			)
			return action, nil
		}

		if _, ok := a.registry.Lookup(call.Name); !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
		}
		feedback, err = a.registry.Invoke(call.Name, call.Argument)
		if err != nil {
			return 0, err
		}
		a.logger.Info("tool invoked",
			zap.String("agent", a.id),
			zap.String("tool", call.Name),
			zap.String("argument", call.Argument),
			zap.String("result", feedback),
			zap.Int("try", try),
		)
		if a.refresh != nil {
			a.obs = a.refresh()
		}
	}
	return 0, fmt.Errorf("%w: %d tries", ErrToolBudgetExhausted, a.maxTries)
}

func (a *ToolAgent) buildPrompt(feedback string) string {
	var last string
	if feedback != "" {
		last = fmt.Sprintf("\nResult of your last tool call: %s\n", feedback)
	}
	return fmt.Sprintf(TOOL_PROMPT_TEMPLATE, a.obs.String(), a.registry.Describe(), last)
}
