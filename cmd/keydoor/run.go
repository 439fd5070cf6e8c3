package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boristopalov/keydoor/pkg/agent"
	"github.com/boristopalov/keydoor/pkg/config"
	"github.com/boristopalov/keydoor/pkg/core"
	"github.com/boristopalov/keydoor/pkg/environment"
	"github.com/boristopalov/keydoor/pkg/experiment"
	"github.com/boristopalov/keydoor/pkg/messaging"
	"github.com/boristopalov/keydoor/pkg/providers"
	"github.com/boristopalov/keydoor/pkg/render"
	"github.com/boristopalov/keydoor/pkg/tools"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		agentKind  string
		backend    string
		model      string
		maxSteps   int
		maxTries   int
		seed       int64
		logLevel   string
		noRender   bool
		doRender   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one episode on the key and door grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			flags := cmd.Flags()
			if flags.Changed("agent") {
				cfg.Agent.Kind = agentKind
			}
			if flags.Changed("backend") {
				cfg.Agent.Backend = backend
			}
			if flags.Changed("model") {
				cfg.Agent.Model = model
			}
			if flags.Changed("max-steps") {
				cfg.MaxSteps = maxSteps
			}
			if flags.Changed("max-tries") {
				cfg.Agent.MaxTries = maxTries
			}
			if flags.Changed("seed") {
				cfg.Agent.Seed = seed
			}
			if flags.Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if flags.Changed("render") {
				cfg.Render = doRender
			}
			if flags.Changed("no-render") {
				cfg.Render = !noRender
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer logger.Sync()

			return runEpisode(cmd.Context(), cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to an episode YAML file")
	flags.StringVar(&agentKind, "agent", "scripted", "agent kind: scripted, random, llm or tool")
	flags.StringVar(&backend, "backend", providers.BackendStdin, "language model backend: stdin, openai or gemini")
	flags.StringVar(&model, "model", "", "model name for the backend")
	flags.IntVar(&maxSteps, "max-steps", 100, "maximum number of environment steps")
	flags.IntVar(&maxTries, "max-tries", 5, "tool calls allowed per turn for the tool agent")
	flags.Int64Var(&seed, "seed", 0, "random agent seed; 0 uses the current time")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.BoolVar(&doRender, "render", true, "draw the grid before every step")
	flags.BoolVar(&noRender, "no-render", false, "do not draw the grid")

	return cmd
}

func runEpisode(parent context.Context, cfg *config.EpisodeConfig, logger *zap.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	if cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	envOpts := []environment.EnvironmentOption{environment.WithLogger(logger)}
	if len(cfg.Environment.Layout) > 0 {
		envOpts = append(envOpts, environment.WithLayout(cfg.Environment.Layout))
	}
	env, err := environment.NewKeyDoorEnvironment(envOpts...)
	if err != nil {
		return fmt.Errorf("failed to create environment: %w", err)
	}

	recorder := experiment.NewStepRecorder(env)
	a, err := buildAgent(ctx, cfg, env, recorder, logger)
	if err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	broker := messaging.NewBroker()
	defer broker.Reset()
	// Each turn can add up to MaxTries tool steps ahead of its own step.
	events := make(chan messaging.Event, cfg.MaxSteps*(cfg.Agent.MaxTries+1))
	if err := broker.Subscribe("milestones", events); err != nil {
		return err
	}
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		logMilestones(events, logger)
	}()
	defer func() {
		broker.Unsubscribe("milestones")
		close(events)
		<-watched
	}()

	episodeOpts := []experiment.EpisodeOption{
		experiment.WithMaxSteps(cfg.MaxSteps),
		experiment.WithEvents(broker),
		experiment.WithToolSteps(recorder),
		experiment.WithLogger(logger),
	}
	if cfg.Render {
		episodeOpts = append(episodeOpts, experiment.WithRender(render.NewText(os.Stdout).Render))
	}
	ep, err := experiment.NewEpisode(env, a, episodeOpts...)
	if err != nil {
		return fmt.Errorf("failed to create episode: %w", err)
	}
	logger.Info("starting episode",
		zap.String("name", cfg.Name),
		zap.String("episode", ep.GetID()),
		zap.String("agent", cfg.Agent.Kind),
	)

	result, err := ep.Run(ctx)
	if err != nil {
		return fmt.Errorf("episode failed after %d steps: %w", result.Steps, err)
	}

	if result.Done {
		color.New(color.FgGreen, color.Bold).Printf("Completed in %d steps\n", result.Steps)
	} else {
		color.New(color.FgYellow).Printf("Door still closed after %d steps\n", result.Steps)
	}
	return nil
}

// buildAgent binds tool registries to recorder so the episode sees the steps
// tools take.
func buildAgent(ctx context.Context, cfg *config.EpisodeConfig, env *environment.KeyDoorEnvironment, recorder *experiment.StepRecorder, logger *zap.Logger) (agent.Agent, error) {
	opts := []agent.AgentOption{agent.WithLogger(logger)}
	if cfg.Agent.Instruction != "" {
		opts = append(opts, agent.WithInstruction(cfg.Agent.Instruction))
	}

	switch cfg.Agent.Kind {
	case "scripted":
		plan := agent.WinningPlan()
		if len(cfg.Agent.Plan) > 0 {
			plan = make([]core.Action, 0, len(cfg.Agent.Plan))
			for _, name := range cfg.Agent.Plan {
				action, err := core.ParseActionName(name)
				if err != nil {
					return nil, err
				}
				plan = append(plan, action)
			}
		}
		return agent.NewScriptedAgent(plan, opts...), nil
	case "random":
		seed := cfg.Agent.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts = append(opts, agent.WithRand(rand.New(rand.NewSource(seed))))
		return agent.NewRandomAgent(opts...), nil
	case "llm", "tool":
		provider, err := providers.New(ctx, cfg.Agent.Backend,
			providers.WithModel(cfg.Agent.Model),
			providers.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		if cfg.Agent.Kind == "llm" {
			a, err := agent.NewLLMAgent(provider, opts...)
			if err != nil {
				return nil, err
			}
			logModel(logger, a)
			return a, nil
		}
		opts = append(opts,
			agent.WithMaxTries(cfg.Agent.MaxTries),
			agent.WithRefresh(env.Observe),
		)
		a, err := agent.NewToolAgent(provider, tools.NewCoreRegistry(recorder), opts...)
		if err != nil {
			return nil, err
		}
		logModel(logger, a.LLMAgent)
		return a, nil
	default:
		return nil, fmt.Errorf("unknown agent kind %q", cfg.Agent.Kind)
	}
}

func logModel(logger *zap.Logger, a *agent.LLMAgent) {
	logger.Info("agent ready",
		zap.String("agent", a.GetID()),
		zap.String("model", fmt.Sprintf("%T", a.GetModel())),
	)
}

// logMilestones reports the key pickup and the door opening, each once.
func logMilestones(events <-chan messaging.Event, logger *zap.Logger) {
	hadKey, opened := false, false
	for ev := range events {
		if ev.HasKey && !hadKey {
			logger.Info("key picked up",
				zap.String("episode", ev.EpisodeID),
				zap.Int("step", ev.Step),
				zap.Bool("tool", ev.Tool),
			)
		}
		hadKey = ev.HasKey
		if ev.Done && !opened {
			opened = true
			logger.Info("door opened",
				zap.String("episode", ev.EpisodeID),
				zap.Int("step", ev.Step),
				zap.Bool("tool", ev.Tool),
			)
		}
	}
}
