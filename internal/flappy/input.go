package flappy

import "github.com/vovakirdan/flappy-arcade/internal/core"

// Outcome tells the platform which timers an action requires.
type Outcome struct {
	Started   bool   // A run began; arm the spawn timer for Epoch
	Flapped   bool   // Flapping was set; clear it later with EndFlap(FlapSeq)
	Restarted bool   // State was reset to Idle
	Epoch     uint64 // Current run identity after the action
	FlapSeq   uint64
}

// HandleAction applies a semantic input immediately. Flap starts a run from
// Idle, restart is only honoured in GameOver.
func (e *Engine) HandleAction(a core.Action) Outcome {
	var out Outcome
	switch a {
	case core.ActionFlap:
		if e.phase == PhaseGameOver || e.paused {
			break
		}
		if e.phase == PhaseIdle {
			e.start()
			out.Started = true
		}
		e.flap()
		out.Flapped = true
	case core.ActionPause:
		if e.phase == PhaseRunning {
			e.paused = !e.paused
		}
	case core.ActionRestart:
		if e.phase == PhaseGameOver {
			e.Restart()
			out.Restarted = true
		}
	}
	out.Epoch = e.epoch
	out.FlapSeq = e.flapSeq
	return out
}

// start enters Running and spawns the first obstacle right away.
func (e *Engine) start() {
	e.phase = PhaseRunning
	e.Spawn()
}

// flap overwrites the vertical velocity.
func (e *Engine) flap() {
	e.bird.Velocity = e.cfg.Physics.FlapStrength
	e.bird.Flapping = true
	e.flapSeq++
}

// EndFlap clears the flapping flag if seq is still the latest flap. A later
// flap keeps the flag up for its own full duration.
func (e *Engine) EndFlap(seq uint64) {
	if seq == e.flapSeq {
		e.bird.Flapping = false
	}
}
