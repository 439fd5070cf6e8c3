package environment

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/boristopalov/keydoor/pkg/core"
	"github.com/boristopalov/keydoor/pkg/grid"
)

// DefaultLayout is the 5x6 key/door puzzle.
var DefaultLayout = []string{
	"#####",
	"#@  #",
	"# # #",
	"# K #",
	"#  D#",
	"#####",
}

type State struct {
	Status    string
	Step      int
	Timestamp time.Time
}

// KeyDoorEnvironment implements the key/door game. It is not safe for
// concurrent use; one episode owns it.
type KeyDoorEnvironment struct {
	layout []string
	logger *zap.Logger

	grid          grid.Grid
	agentPosition grid.Position
	keyPosition   grid.Position
	doorPosition  grid.Position
	standingTile  grid.Tile
	hasKey        bool
	done          bool
	state         State
}

type EnvironmentParams struct {
	Layout []string
	Logger *zap.Logger
}

type EnvironmentOption func(*EnvironmentParams)

func WithLayout(rows []string) EnvironmentOption {
	return func(p *EnvironmentParams) {
		p.Layout = rows
	}
}

func WithLogger(logger *zap.Logger) EnvironmentOption {
	return func(p *EnvironmentParams) {
		p.Logger = logger
	}
}

// NewKeyDoorEnvironment validates the layout and resets the environment
// so it is ready for the first Step.
func NewKeyDoorEnvironment(opts ...EnvironmentOption) (*KeyDoorEnvironment, error) {
	params := &EnvironmentParams{
		Layout: DefaultLayout,
		Logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(params)
	}

	g, err := grid.FromStrings(params.Layout)
	if err != nil {
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if err := grid.Validate(g); err != nil {
		return nil, err
	}

	layout := make([]string, len(params.Layout))
	copy(layout, params.Layout)

	e := &KeyDoorEnvironment{
		layout: layout,
		logger: params.Logger,
	}
	if _, err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset rebuilds the grid from the initial layout and clears all episode state.
func (e *KeyDoorEnvironment) Reset() (core.Observation, error) {
	g, err := grid.FromStrings(e.layout)
	if err != nil {
		return core.Observation{}, err
	}
	agentPos, err := grid.AgentPosition(g)
	if err != nil {
		return core.Observation{}, err
	}
	keyPos, err := grid.KeyPosition(g)
	if err != nil {
		return core.Observation{}, err
	}
	doorPos, err := grid.DoorPosition(g)
	if err != nil {
		return core.Observation{}, err
	}

	e.grid = g
	e.agentPosition = agentPos
	e.keyPosition = keyPos
	e.doorPosition = doorPos
	e.standingTile = grid.Empty
	e.hasKey = false
	e.done = false
	e.state = State{
		Status:    "idle",
		Step:      0,
		Timestamp: time.Now(),
	}

	e.logger.Debug("environment reset",
		zap.Stringer("agent", agentPos),
		zap.Stringer("key", keyPos),
		zap.Stringer("door", doorPos),
	)

	return e.Observe(), nil
}

// Step applies one action. Ineffective actions leave the state unchanged.
func (e *KeyDoorEnvironment) Step(action core.Action) (core.Observation, bool, core.Info) {
	x, y := e.agentPosition.X, e.agentPosition.Y

	switch action {
	case core.OpenDoor:
		if e.hasKey && e.agentPosition == e.doorPosition {
			e.done = true
		}
	case core.PickUpKey:
		if !e.hasKey && e.agentPosition == e.keyPosition {
			e.hasKey = true
			// The key is consumed; leaving the cell reveals an empty floor.
			e.standingTile = grid.Empty
		}
	case core.MoveUp:
		e.moveTo(grid.Position{X: x, Y: y - 1})
	case core.MoveDown:
		e.moveTo(grid.Position{X: x, Y: y + 1})
	case core.MoveRight:
		e.moveTo(grid.Position{X: x - 1, Y: y})
	case core.MoveLeft:
		e.moveTo(grid.Position{X: x + 1, Y: y})
	}

	e.state.Step++
	e.state.Status = "running"
	if e.done {
		e.state.Status = "done"
	}
	e.state.Timestamp = time.Now()

	e.logger.Debug("environment step",
		zap.Stringer("action", action),
		zap.Stringer("agent", e.agentPosition),
		zap.Bool("hasKey", e.hasKey),
		zap.Bool("done", e.done),
		zap.Int("step", e.state.Step),
	)

	return e.Observe(), e.done, core.Info{}
}

func (e *KeyDoorEnvironment) moveTo(dest grid.Position) {
	if !e.grid.InBounds(dest) || e.grid.At(dest) == grid.Wall {
		return
	}
	e.grid.Set(e.agentPosition, e.standingTile)
	e.standingTile = e.grid.At(dest)
	e.grid.Set(dest, grid.Agent)
	e.agentPosition = dest
}

// Observe returns a fresh snapshot of the current state.
func (e *KeyDoorEnvironment) Observe() core.Observation {
	return core.Observation{
		Grid:   e.grid.Copy(),
		HasKey: e.hasKey,
	}
}

func (e *KeyDoorEnvironment) Steps() int {
	return e.state.Step
}

func (e *KeyDoorEnvironment) HasKey() bool {
	return e.hasKey
}

func (e *KeyDoorEnvironment) Done() bool {
	return e.done
}

func (e *KeyDoorEnvironment) AgentPosition() grid.Position {
	return e.agentPosition
}

func (e *KeyDoorEnvironment) GetState() State {
	return e.state
}
