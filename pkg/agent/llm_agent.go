package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/boristopalov/keydoor/pkg/core"
)

const (
	SYSTEM_PROMPT = `You are playing a grid game. '@' is you, '#' is a wall you cannot walk through, 'K' is the key and 'D' is the door. Walk onto the key and pick it up, then walk onto the door and open it.
Answer with exactly one of: move up, move down, move left, move right, pick up key, open door.`
)

// LLMAgent asks a language model for every action.
type LLMAgent struct {
	id          string
	model       LanguageModel
	instruction string
	obs         core.Observation
	logger      *zap.Logger
}

// NewLLMAgent creates a new LLM agent
func NewLLMAgent(model LanguageModel, opts ...AgentOption) (*LLMAgent, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	params := buildParams(opts)
	instruction := params.Instruction
	if instruction == "" {
		instruction = SYSTEM_PROMPT
	}

	return &LLMAgent{
		id:          params.AgentID,
		model:       model,
		instruction: instruction,
		logger:      params.Logger,
	}, nil
}

func (a *LLMAgent) GetID() string {
	return a.id
}

func (a *LLMAgent) GetModel() LanguageModel {
	return a.model
}

func (a *LLMAgent) Observe(obs core.Observation) {
	a.obs = obs
}

func (a *LLMAgent) Act(ctx context.Context) (core.Action, error) {
	response, err := a.complete(ctx, a.obs.String())
	if err != nil {
		return 0, err
	}

	action, err := ParseAction(response)
	if err != nil {
		return 0, err
	}
	a.logger.Debug("llm action", zap.String("agent", a.id), zap.Stringer("action", action))
	return action, nil
}

func (a *LLMAgent) complete(ctx context.Context, prompt string) (string, error) {
	response, err := a.model.CompletePrompt(ctx, a.instruction, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	a.logger.Debug("completion",
		zap.String("agent", a.id),
		zap.Int("promptLen", len(prompt)),
		zap.String("response", response),
	)
	return response, nil
}
