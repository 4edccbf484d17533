package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Timer messages carry the id of the game model that armed them, so a
// message outliving its model is ignored by the next one.

// FrameMsg advances the simulation by one frame.
type FrameMsg struct {
	Owner uint64
}

// SpawnMsg asks for an obstacle for the run identified by Epoch.
type SpawnMsg struct {
	Owner uint64
	Epoch uint64
}

// FlapEndMsg clears the flapping flag set by flap Seq.
type FlapEndMsg struct {
	Owner uint64
	Seq   uint64
}

var modelIDs atomic.Uint64

func nextModelID() uint64 {
	return modelIDs.Add(1)
}

// frameCmd schedules the next frame.
func frameCmd(owner uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return FrameMsg{Owner: owner}
	})
}

// spawnCmd schedules the next obstacle spawn.
func spawnCmd(owner uint64, interval time.Duration, epoch uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return SpawnMsg{Owner: owner, Epoch: epoch}
	})
}

// flapEndCmd schedules clearing of the flapping flag.
func flapEndCmd(owner uint64, d time.Duration, seq uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return FlapEndMsg{Owner: owner, Seq: seq}
	})
}
