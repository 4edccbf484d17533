// Package flappy implements the Flappy Bird engine: a three-phase state
// machine advanced once per frame, with obstacles spawned by an independent
// wall-clock timer owned by the platform.
//
// The engine is not safe for concurrent use. All mutation is expected to
// happen on one goroutine (the Bubble Tea update loop), which makes every
// method call atomic from the caller's point of view.
package flappy

import (
	"math/rand"

	"github.com/vovakirdan/flappy-arcade/internal/config"
	"github.com/vovakirdan/flappy-arcade/internal/core"
)

// Phase is the engine's top-level state.
type Phase int

const (
	PhaseIdle     Phase = iota // Waiting for the first flap
	PhaseRunning               // Frames advance physics
	PhaseGameOver              // Terminal until restart
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Running"
	case PhaseGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Bird is the player's vertical state. Its horizontal position is fixed by
// configuration.
type Bird struct {
	Y        float64 // Top of the hitbox
	Velocity float64 // Positive = falling
	Flapping bool    // Short-lived visual flag set by a flap
}

// RunResult is produced exactly once per run, on the frame that ends it.
type RunResult struct {
	Score  int
	Frames int
}

// GameState is the summary the platform needs every frame.
type GameState struct {
	Phase  Phase
	Score  int
	Paused bool
	Epoch  uint64
}

// StepResult is returned by Step after each frame.
type StepResult struct {
	State GameState
	Ended *RunResult // Non-nil only on the frame that entered GameOver
}

// Engine holds the single authoritative game state.
type Engine struct {
	cfg     config.FlappyConfig
	runtime core.RuntimeConfig
	width   float64 // World width, derived from the screen aspect
	rng     *rand.Rand

	phase   Phase
	bird    Bird
	field   *Field
	trail   Trail
	score   int
	frames  int
	paused  bool
	epoch   uint64 // Incremented on every restart; stale timers compare against it
	flapSeq uint64 // Incremented on every flap; stale flap-clear timers compare against it
}

// New creates an engine with the given tuning. Call Reset before use.
func New(cfg config.FlappyConfig) *Engine {
	return &Engine{
		cfg:   cfg,
		field: NewField(cfg.Obstacles.Width, cfg.Obstacles.GapHeight),
		trail: NewTrail(cfg.Trail.MaxPoints),
	}
}

// Config returns the engine tuning.
func (e *Engine) Config() config.FlappyConfig {
	return e.cfg
}

// Reset adapts the engine to a screen size and seed and starts over in Idle.
func (e *Engine) Reset(rt core.RuntimeConfig) {
	e.runtime = rt
	e.width = worldWidth(rt, e.cfg.World.Height)
	e.rng = rand.New(rand.NewSource(rt.Seed))
	e.Restart()
}

// Restart discards the current run and returns to Idle. Bird position,
// velocity, score, obstacles and trail are all reset in this one call.
func (e *Engine) Restart() {
	e.phase = PhaseIdle
	e.bird = Bird{Y: e.cfg.Bird.StartY}
	e.field.Clear()
	e.trail.Clear()
	e.score = 0
	e.frames = 0
	e.paused = false
	e.epoch++
}

// Step advances the simulation by one frame.
func (e *Engine) Step() StepResult {
	if e.phase != PhaseRunning || e.paused {
		return StepResult{State: e.State()}
	}

	e.frames++

	// Gravity, then position
	e.bird.Velocity += e.cfg.Physics.Gravity
	next := e.bird.Y + e.bird.Velocity

	// Leaving the playfield ends the run; the illegal position is discarded
	if next > e.floor() || next < 0 {
		return e.end()
	}
	e.bird.Y = next

	speed := e.cfg.Physics.ObstacleSpeed
	e.field.Advance(speed)

	if e.field.Collides(e.birdRect(), e.cfg.World.Height) {
		return e.end()
	}

	e.score += e.field.Credit(e.cfg.Bird.X)
	e.trail.Advance(speed, TrailPoint{X: e.cfg.Bird.X, Y: e.bird.Y})

	return StepResult{State: e.State()}
}

// end enters GameOver and emits the run result.
func (e *Engine) end() StepResult {
	e.phase = PhaseGameOver
	e.paused = false
	result := RunResult{Score: e.score, Frames: e.frames}
	return StepResult{State: e.State(), Ended: &result}
}

// Spawn adds an obstacle at the right edge with a random gap position.
// Returns false when not Running or paused.
func (e *Engine) Spawn() bool {
	if e.phase != PhaseRunning || e.paused {
		return false
	}
	e.field.Spawn(e.width, e.randomGapTop())
	return true
}

// OnSpawnTimer handles a spawn timer firing for the run identified by epoch.
// It reports whether the timer should be re-armed: timers from a previous
// run, or firing after the run ended, are cancelled by returning false.
func (e *Engine) OnSpawnTimer(epoch uint64) bool {
	if epoch != e.epoch || e.phase != PhaseRunning {
		return false
	}
	e.Spawn()
	return true
}

// randomGapTop picks the top of a gap so the whole gap stays on screen.
func (e *Engine) randomGapTop() float64 {
	margin := e.cfg.Obstacles.GapMargin
	span := e.cfg.World.Height - e.cfg.Obstacles.GapHeight - 2*margin
	if span <= 0 {
		return margin
	}
	return e.rng.Float64()*span + margin
}

// floor is the largest legal bird Y.
func (e *Engine) floor() float64 {
	return e.cfg.World.Height - e.cfg.World.GroundMargin
}

// birdRect returns the bird's collision box.
func (e *Engine) birdRect() core.Rect {
	return core.NewRect(e.cfg.Bird.X, e.bird.Y, e.cfg.Bird.Width, e.cfg.Bird.Height)
}

// State returns the current game state.
func (e *Engine) State() GameState {
	return GameState{
		Phase:  e.phase,
		Score:  e.score,
		Paused: e.paused,
		Epoch:  e.epoch,
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Epoch identifies the current run for timer bookkeeping.
func (e *Engine) Epoch() uint64 {
	return e.epoch
}

// Width returns the world width in world units.
func (e *Engine) Width() float64 {
	return e.width
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Phase     Phase
	Bird      Bird
	Obstacles []Obstacle
	Trail     []TrailPoint
	Score     int
	Frames    int
	Paused    bool
	Epoch     uint64
}

// Snapshot copies the current state so callers cannot mutate the engine.
func (e *Engine) Snapshot() Snapshot {
	obstacles := make([]Obstacle, len(e.field.Obstacles()))
	copy(obstacles, e.field.Obstacles())
	trail := make([]TrailPoint, len(e.trail.Points()))
	copy(trail, e.trail.Points())

	return Snapshot{
		Phase:     e.phase,
		Bird:      e.bird,
		Obstacles: obstacles,
		Trail:     trail,
		Score:     e.score,
		Frames:    e.frames,
		Paused:    e.paused,
		Epoch:     e.epoch,
	}
}

// worldWidth maps the terminal aspect ratio onto the world height.
// Terminal cells are roughly twice as tall as they are wide.
func worldWidth(rt core.RuntimeConfig, worldH float64) float64 {
	cols, rows := rt.ScreenW, rt.ScreenH
	if cols <= 0 || rows <= 0 {
		def := core.DefaultConfig()
		cols, rows = def.ScreenW, def.ScreenH
	}
	cellH := worldH / float64(rows)
	return float64(cols) * cellH / 2
}
