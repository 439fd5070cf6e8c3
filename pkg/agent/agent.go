package agent

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boristopalov/keydoor/pkg/core"
)

var (
	// ErrPlanExhausted is returned by a scripted agent asked for more
	// actions than it was given.
	ErrPlanExhausted = errors.New("agent has no more actions planned")
	// ErrToolBudgetExhausted is returned when a tool-using agent does not
	// produce an action within its tries.
	ErrToolBudgetExhausted = errors.New("no action produced within the tool budget")
	// ErrNoActionFound is returned when a completion names no action.
	ErrNoActionFound = errors.New("no action found in completion")
	// ErrMalformedToolCall is returned for a tool call missing its closing parenthesis.
	ErrMalformedToolCall = errors.New("malformed tool call")
	// ErrUnknownTool is returned for a tool call naming an unregistered tool.
	ErrUnknownTool = errors.New("unknown tool")
	ErrNilModel    = errors.New("language model is nil")
)

// Agent represents a decision-maker driven by an episode loop
type Agent interface {
	// Observe updates internal state with the latest observation
	Observe(obs core.Observation)
	// Act returns the next action to take
	Act(ctx context.Context) (core.Action, error)
}

// LanguageModel is a text-completion capability.
type LanguageModel interface {
	CompletePrompt(ctx context.Context, instruction string, prompt string) (string, error)
}

type AgentParams struct {
	AgentID     string
	Logger      *zap.Logger
	Instruction string
	MaxTries    int
	Rand        *rand.Rand
	// Refresh, when set, is called after every tool invocation so the next
	// prompt shows the grid the tool left behind.
	Refresh func() core.Observation
}

type AgentOption func(*AgentParams)

func WithAgentId(id string) AgentOption {
	return func(p *AgentParams) {
		p.AgentID = id
	}
}

func WithLogger(logger *zap.Logger) AgentOption {
	return func(p *AgentParams) {
		p.Logger = logger
	}
}

func WithInstruction(instruction string) AgentOption {
	return func(p *AgentParams) {
		p.Instruction = instruction
	}
}

func WithMaxTries(n int) AgentOption {
	return func(p *AgentParams) {
		p.MaxTries = n
	}
}

func WithRand(r *rand.Rand) AgentOption {
	return func(p *AgentParams) {
		p.Rand = r
	}
}

func WithRefresh(refresh func() core.Observation) AgentOption {
	return func(p *AgentParams) {
		p.Refresh = refresh
	}
}

const defaultMaxTries = 5

func defaultAgentParams() *AgentParams {
	return &AgentParams{
		AgentID:  "agent-" + uuid.New().String(),
		Logger:   zap.NewNop(),
		MaxTries: defaultMaxTries,
	}
}

func buildParams(opts []AgentOption) *AgentParams {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	if params.MaxTries <= 0 {
		params.MaxTries = defaultMaxTries
	}
	if params.Rand == nil {
		params.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return params
}
