package experiment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boristopalov/keydoor/pkg/agent"
	"github.com/boristopalov/keydoor/pkg/core"
	"github.com/boristopalov/keydoor/pkg/grid"
	"github.com/boristopalov/keydoor/pkg/memory"
	"github.com/boristopalov/keydoor/pkg/messaging"
)

const (
	defaultMaxSteps       = 100
	defaultTranscriptSize = 256
)

// RenderFunc draws the current grid before the agent acts.
type RenderFunc func(g grid.Grid, hasKey bool) error

// Result summarizes a finished episode.
type Result struct {
	EpisodeID  string
	Steps      int
	Done       bool
	Actions    []core.Action
	Transcript []string
}

type Episode struct {
	id         string
	env        core.Environment
	agent      agent.Agent
	maxSteps   int
	render     RenderFunc
	transcript *memory.Memory
	events     messaging.Publisher
	toolSteps  *StepRecorder
	logger     *zap.Logger

	mu     sync.RWMutex
	status core.EpisodeStatus
}

type EpisodeParams struct {
	EpisodeID      string
	MaxSteps       int
	Render         RenderFunc
	TranscriptSize int
	Events         messaging.Publisher
	ToolSteps      *StepRecorder
	Logger         *zap.Logger
}

type EpisodeOption func(*EpisodeParams)

func WithEpisodeID(id string) EpisodeOption {
	return func(p *EpisodeParams) {
		p.EpisodeID = id
	}
}

func WithMaxSteps(n int) EpisodeOption {
	return func(p *EpisodeParams) {
		p.MaxSteps = n
	}
}

func WithRender(render RenderFunc) EpisodeOption {
	return func(p *EpisodeParams) {
		p.Render = render
	}
}

// WithTranscriptSize bounds how many transcript lines are kept. Older lines
// are dropped first.
func WithTranscriptSize(n int) EpisodeOption {
	return func(p *EpisodeParams) {
		p.TranscriptSize = n
	}
}

// WithEvents publishes an Event after every step.
func WithEvents(events messaging.Publisher) EpisodeOption {
	return func(p *EpisodeParams) {
		p.Events = events
	}
}

// WithToolSteps records the steps tools took through recorder during each
// agent turn, ahead of the turn's own step.
func WithToolSteps(recorder *StepRecorder) EpisodeOption {
	return func(p *EpisodeParams) {
		p.ToolSteps = recorder
	}
}

func WithLogger(logger *zap.Logger) EpisodeOption {
	return func(p *EpisodeParams) {
		p.Logger = logger
	}
}

func defaultEpisodeParams() *EpisodeParams {
	return &EpisodeParams{
		EpisodeID:      "episode-" + uuid.New().String(),
		MaxSteps:       defaultMaxSteps,
		TranscriptSize: defaultTranscriptSize,
		Logger:         zap.NewNop(),
	}
}

func NewEpisode(env core.Environment, a agent.Agent, opts ...EpisodeOption) (*Episode, error) {
	if env == nil {
		return nil, errors.New("episode needs an environment")
	}
	if a == nil {
		return nil, errors.New("episode needs an agent")
	}

	params := defaultEpisodeParams()
	for _, opt := range opts {
		opt(params)
	}
	if params.MaxSteps <= 0 {
		return nil, fmt.Errorf("max steps must be positive, got %d", params.MaxSteps)
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}

	return &Episode{
		id:         params.EpisodeID,
		env:        env,
		agent:      a,
		maxSteps:   params.MaxSteps,
		render:     params.Render,
		transcript: memory.NewMemory(params.TranscriptSize),
		events:     params.Events,
		toolSteps:  params.ToolSteps,
		logger:     params.Logger.With(zap.String("episode", params.EpisodeID)),
	}, nil
}

func (e *Episode) GetID() string {
	return e.id
}

// Status is safe to call while Run is in progress.
func (e *Episode) Status() core.EpisodeStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := e.status
	status.Errors = append([]error(nil), e.status.Errors...)
	return status
}

// Run resets the environment and alternates agent and environment turns
// until the door opens, the step budget runs out, ctx is cancelled or the
// agent fails. The partial Result is returned alongside any error.
func (e *Episode) Run(ctx context.Context) (Result, error) {
	e.mu.Lock()
	e.status = core.EpisodeStatus{
		Running:   true,
		StartTime: time.Now(),
	}
	e.mu.Unlock()

	result, err := e.runLoop(ctx)

	e.mu.Lock()
	e.status.Running = false
	e.status.EndTime = time.Now()
	if err != nil {
		e.status.Errors = append(e.status.Errors, err)
	}
	e.mu.Unlock()

	fields := []zap.Field{
		zap.Int("steps", result.Steps),
		zap.Bool("done", result.Done),
		zap.Int("transcriptLines", e.transcript.Len()),
		zap.Error(err),
	}
	if last, ok := e.transcript.Last(); ok {
		fields = append(fields, zap.String("last", last))
	}
	e.logger.Info("episode finished", fields...)
	return result, err
}

func (e *Episode) runLoop(ctx context.Context) (Result, error) {
	e.transcript.Reset()
	result := Result{EpisodeID: e.id}

	obs, err := e.env.Reset()
	if err != nil {
		return e.finish(result), fmt.Errorf("resetting environment: %w", err)
	}
	if e.toolSteps != nil {
		e.toolSteps.Drain()
	}

	for result.Steps < e.maxSteps {
		select {
		case <-ctx.Done():
			return e.finish(result), ctx.Err()
		default:
		}

		if e.render != nil {
			if err := e.render(obs.Grid, obs.HasKey); err != nil {
				return e.finish(result), fmt.Errorf("rendering step %d: %w", result.Steps, err)
			}
		}

		e.agent.Observe(obs)
		action, err := e.agent.Act(ctx)
		e.recordToolSteps(result.Steps + 1)
		if err != nil {
			return e.finish(result), fmt.Errorf("agent failed at step %d: %w", result.Steps, err)
		}

		var done bool
		obs, done, _ = e.env.Step(action)
		result.Steps++
		result.Actions = append(result.Actions, action)
		e.transcript.Store(fmt.Sprintf("step %d: %s has_key=%t done=%t", result.Steps, action, obs.HasKey, done))
		e.logger.Debug("step",
			zap.Int("step", result.Steps),
			zap.Stringer("action", action),
			zap.Bool("has_key", obs.HasKey),
			zap.Bool("done", done),
		)
		e.publish(result.Steps, action, obs.HasKey, done, false)

		if done {
			result.Done = true
			if e.render != nil {
				if err := e.render(obs.Grid, obs.HasKey); err != nil {
					return e.finish(result), fmt.Errorf("rendering final grid: %w", err)
				}
			}
			return e.finish(result), nil
		}
	}

	e.logger.Warn("step budget exhausted", zap.Int("max_steps", e.maxSteps))
	return e.finish(result), nil
}

// recordToolSteps logs and publishes the steps tools took during turn.
func (e *Episode) recordToolSteps(turn int) {
	if e.toolSteps == nil {
		return
	}
	for _, s := range e.toolSteps.Drain() {
		e.transcript.Store(fmt.Sprintf("step %d tool: %s has_key=%t done=%t", turn, s.Action, s.HasKey, s.Done))
		e.logger.Debug("tool step",
			zap.Int("step", turn),
			zap.Stringer("action", s.Action),
			zap.Bool("has_key", s.HasKey),
			zap.Bool("done", s.Done),
		)
		e.publish(turn, s.Action, s.HasKey, s.Done, true)
	}
}

// publish never fails the episode; slow subscribers just miss events.
func (e *Episode) publish(step int, action core.Action, hasKey, done, tool bool) {
	if e.events == nil {
		return
	}
	err := e.events.Publish(messaging.Event{
		EpisodeID: e.id,
		Step:      step,
		Action:    action,
		HasKey:    hasKey,
		Done:      done,
		Tool:      tool,
		Timestamp: time.Now(),
	})
	if err != nil {
		e.logger.Warn("dropped step event", zap.Error(err))
	}
}

func (e *Episode) finish(result Result) Result {
	result.Transcript = e.transcript.GetAllMessages()
	return result
}
