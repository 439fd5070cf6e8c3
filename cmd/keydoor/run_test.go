package main

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/boristopalov/keydoor/pkg/agent"
	"github.com/boristopalov/keydoor/pkg/config"
	"github.com/boristopalov/keydoor/pkg/environment"
	"github.com/boristopalov/keydoor/pkg/experiment"
	"github.com/boristopalov/keydoor/pkg/providers"
)

func TestBuildAgent(t *testing.T) {
	env, err := environment.NewKeyDoorEnvironment()
	if err != nil {
		t.Fatalf("NewKeyDoorEnvironment() error = %v", err)
	}

	tests := []struct {
		name    string
		modify  func(*config.EpisodeConfig)
		check   func(t *testing.T, a agent.Agent)
		wantErr error
	}{
		{
			name: "scripted default plan",
			check: func(t *testing.T, a agent.Agent) {
				s, ok := a.(*agent.ScriptedAgent)
				if !ok {
					t.Fatalf("got %T, want *agent.ScriptedAgent", a)
				}
				if s.Remaining() != len(agent.WinningPlan()) {
					t.Errorf("Remaining() = %d", s.Remaining())
				}
			},
		},
		{
			name: "scripted custom plan",
			modify: func(c *config.EpisodeConfig) {
				c.Agent.Plan = []string{"MOVE_DOWN", "OPEN_DOOR"}
			},
			check: func(t *testing.T, a agent.Agent) {
				if s := a.(*agent.ScriptedAgent); s.Remaining() != 2 {
					t.Errorf("Remaining() = %d, want 2", s.Remaining())
				}
			},
		},
		{
			name: "random",
			modify: func(c *config.EpisodeConfig) {
				c.Agent.Kind = "random"
				c.Agent.Seed = 7
			},
			check: func(t *testing.T, a agent.Agent) {
				if _, ok := a.(*agent.RandomAgent); !ok {
					t.Errorf("got %T, want *agent.RandomAgent", a)
				}
			},
		},
		{
			name: "llm over stdin",
			modify: func(c *config.EpisodeConfig) {
				c.Agent.Kind = "llm"
			},
			check: func(t *testing.T, a agent.Agent) {
				if _, ok := a.(*agent.LLMAgent); !ok {
					t.Errorf("got %T, want *agent.LLMAgent", a)
				}
			},
		},
		{
			name: "tool over stdin",
			modify: func(c *config.EpisodeConfig) {
				c.Agent.Kind = "tool"
			},
			check: func(t *testing.T, a agent.Agent) {
				if _, ok := a.(*agent.ToolAgent); !ok {
					t.Errorf("got %T, want *agent.ToolAgent", a)
				}
			},
		},
		{
			name: "unsupported backend",
			modify: func(c *config.EpisodeConfig) {
				c.Agent.Kind = "llm"
				c.Agent.Backend = "carrier-pigeon"
			},
			wantErr: providers.ErrUnsupportedBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			if tt.modify != nil {
				tt.modify(cfg)
			}
			a, err := buildAgent(context.Background(), cfg, env, experiment.NewStepRecorder(env), zap.NewNop())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("buildAgent() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildAgent() error = %v", err)
			}
			tt.check(t, a)
		})
	}
}

func TestBuildAgentBadPlan(t *testing.T) {
	env, err := environment.NewKeyDoorEnvironment()
	if err != nil {
		t.Fatalf("NewKeyDoorEnvironment() error = %v", err)
	}
	cfg := config.Default()
	cfg.Agent.Plan = []string{"JUMP"}
	if _, err := buildAgent(context.Background(), cfg, env, experiment.NewStepRecorder(env), zap.NewNop()); err == nil {
		t.Error("buildAgent() with an unknown action name expected error")
	}
}

func TestRunEpisodeScripted(t *testing.T) {
	cfg := config.Default()
	cfg.Render = false
	if err := runEpisode(context.Background(), cfg, zap.NewNop()); err != nil {
		t.Fatalf("runEpisode() error = %v", err)
	}
}

func TestRunEpisodeExhaustedPlan(t *testing.T) {
	cfg := config.Default()
	cfg.Render = false
	cfg.Agent.Plan = []string{"MOVE_DOWN"}
	err := runEpisode(context.Background(), cfg, zap.NewNop())
	if !errors.Is(err, agent.ErrPlanExhausted) {
		t.Fatalf("runEpisode() error = %v, want ErrPlanExhausted", err)
	}
}

func TestNewLogger(t *testing.T) {
	if _, err := newLogger(config.LogConfig{Level: "debug", Format: "json"}); err != nil {
		t.Errorf("newLogger(json) error = %v", err)
	}
	if _, err := newLogger(config.LogConfig{Level: "loud", Format: "console"}); err == nil {
		t.Error("newLogger() with a bad level expected error")
	}
}
