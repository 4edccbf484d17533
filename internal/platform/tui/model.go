package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-arcade/internal/config"
	"github.com/vovakirdan/flappy-arcade/internal/core"
	"github.com/vovakirdan/flappy-arcade/internal/flappy"
	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
	"github.com/vovakirdan/flappy-arcade/internal/storage"
)

// AnonymousIdentity is recorded locally when the player gave no identity.
const AnonymousIdentity = "anonymous"

// GameOptions configures a game model.
type GameOptions struct {
	Game     config.FlappyConfig
	Runtime  core.RuntimeConfig
	Store    *storage.Store      // Local history; nil runs without it
	Client   *leaderboard.Client // Leaderboard service; nil plays offline
	Identity string
	Timeout  time.Duration // Per leaderboard request
	Logger   *log.Logger
}

// submitResultMsg carries the outcome of a score submission.
type submitResultMsg struct {
	runID  string
	result leaderboard.SubmitResult
	err    error
}

// standingsMsg carries a fetched leaderboard.
type standingsMsg struct {
	standings leaderboard.Standings
	err       error
}

// personalBestMsg carries the player's best score on the service.
type personalBestMsg struct {
	best leaderboard.PlayerBest
	err  error
}

// GameModel is the Bubble Tea model that plays flappy. It owns the three
// engine timers: frames, obstacle spawns and flap clearing.
type GameModel struct {
	id        uint64
	engine    *flappy.Engine
	screen    *core.Screen
	opts      GameOptions
	keyMapper *KeyMapper
	logger    *log.Logger

	localBest  int
	globalBest int
	lastRun    *flappy.RunResult
	submit     *leaderboard.SubmitResult
	status     string

	embedded   bool // Part of a session; Back returns to the menu
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a game model.
func NewGameModel(opts GameOptions) GameModel {
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}
	if opts.Identity == "" {
		opts.Identity = AnonymousIdentity
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := GameModel{
		id:        nextModelID(),
		engine:    flappy.New(opts.Game),
		screen:    core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		opts:      opts,
		keyMapper: NewKeyMapper(),
		logger:    logger,
	}
	m.engine.Reset(opts.Runtime)

	if opts.Store != nil {
		best, err := opts.Store.BestScore(opts.Identity)
		if err != nil {
			logger.Warn("Could not read local best", "error", err)
		}
		m.localBest = best
	}
	return m
}

// Init fetches the global high score and the player's best from the
// service. The engine starts Idle, so the frame timer is armed by the first
// flap.
func (m GameModel) Init() tea.Cmd {
	if m.opts.Client == nil {
		return nil
	}
	cmds := []tea.Cmd{m.fetchStandingsCmd()}
	if m.opts.Identity != AnonymousIdentity {
		cmds = append(cmds, m.fetchPersonalBestCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			m.saveScreenshot()
			return m, nil
		}
		return m.handleAction(m.keyMapper.MapKey(msg))

	case tea.MouseMsg:
		return m.handleAction(m.keyMapper.MapMouse(msg))

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case FrameMsg:
		if msg.Owner != m.id {
			return m, nil
		}
		return m.handleFrame()

	case SpawnMsg:
		if msg.Owner != m.id {
			return m, nil
		}
		if m.engine.OnSpawnTimer(msg.Epoch) {
			return m, spawnCmd(m.id, m.opts.Game.Obstacles.SpawnInterval, msg.Epoch)
		}
		return m, nil

	case FlapEndMsg:
		if msg.Owner == m.id {
			m.engine.EndFlap(msg.Seq)
		}
		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case personalBestMsg:
		var apiErr *leaderboard.APIError
		switch {
		case errors.As(msg.err, &apiErr) && apiErr.Status == http.StatusNotFound:
			// Never submitted; the local best stands
		case msg.err != nil:
			m.logger.Warn("Could not fetch personal best", "error", msg.err)
		default:
			m.localBest = max(m.localBest, msg.best.PersonalBest)
			m.globalBest = max(m.globalBest, msg.best.GlobalHighScore)
		}
		return m, nil

	case standingsMsg:
		if msg.err != nil {
			m.logger.Warn("Could not fetch leaderboard", "error", msg.err)
			return m, nil
		}
		m.globalBest = max(m.globalBest, msg.standings.GlobalHighScore)
		return m, nil
	}

	return m, nil
}

// handleAction applies an input action immediately and arms any timers it
// requires.
func (m GameModel) handleAction(action core.Action) (tea.Model, tea.Cmd) {
	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		// Leaving mid-run is only allowed while paused
		if m.embedded && (m.engine.Phase() != flappy.PhaseRunning || m.engine.State().Paused) {
			m.backToMenu = true
		}
		return m, nil
	}

	out := m.engine.HandleAction(action)

	var cmds []tea.Cmd
	if out.Started {
		cmds = append(cmds,
			frameCmd(m.id, m.opts.Runtime.FrameInterval()),
			spawnCmd(m.id, m.opts.Game.Obstacles.SpawnInterval, out.Epoch),
		)
	}
	if out.Flapped {
		cmds = append(cmds, flapEndCmd(m.id, m.opts.Game.Physics.FlapDuration, out.FlapSeq))
	}
	if out.Restarted {
		m.lastRun = nil
		m.submit = nil
		m.status = ""
	}
	return m, tea.Batch(cmds...)
}

// handleResize adapts the screen buffer. The world is only rebuilt while no
// run is in progress.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.opts.Runtime.ScreenW = msg.Width
	m.opts.Runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if m.engine.Phase() == flappy.PhaseIdle {
		m.engine.Reset(m.opts.Runtime)
	}
	return m, nil
}

// handleFrame steps the engine and records a finished run. The frame timer
// is re-armed only while the run continues; the chain ends at game over and
// the next run's first flap starts a new one.
func (m GameModel) handleFrame() (tea.Model, tea.Cmd) {
	if m.engine.Phase() != flappy.PhaseRunning {
		return m, nil
	}

	res := m.engine.Step()
	if res.Ended == nil {
		return m, frameCmd(m.id, m.opts.Runtime.FrameInterval())
	}

	run := *res.Ended
	m.lastRun = &run
	m.localBest = max(m.localBest, run.Score)
	m.logger.Info("Run finished", "identity", m.opts.Identity, "score", run.Score, "frames", run.Frames)

	var runID string
	if m.opts.Store != nil {
		saved, err := m.opts.Store.SaveRun(m.opts.Identity, run.Score, run.Frames)
		if err != nil {
			m.logger.Warn("Could not save run", "error", err)
		}
		runID = saved.ID
	}

	if m.opts.Client != nil && m.opts.Identity != AnonymousIdentity && run.Score > 0 {
		m.status = "Submitting score..."
		return m, m.submitCmd(runID, run.Score)
	}
	return m, nil
}

// handleSubmitResult records the service response. Failures only change the
// status line.
func (m GameModel) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("Score submission failed", "error", msg.err)
		m.status = "Leaderboard unavailable"
		return m, nil
	}

	res := msg.result
	m.submit = &res
	m.globalBest = max(m.globalBest, res.GlobalHighScore)
	m.status = ""

	if msg.runID != "" && m.opts.Store != nil {
		if err := m.opts.Store.MarkSubmitted(msg.runID); err != nil {
			m.logger.Warn("Could not mark run submitted", "error", err)
		}
	}
	return m, nil
}

// submitCmd posts a score off the update loop.
func (m GameModel) submitCmd(runID string, score int) tea.Cmd {
	client, identity, timeout := m.opts.Client, m.opts.Identity, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		res, err := client.SubmitScore(ctx, identity, score)
		return submitResultMsg{runID: runID, result: res, err: err}
	}
}

// fetchStandingsCmd loads the leaderboard off the update loop.
func (m GameModel) fetchStandingsCmd() tea.Cmd {
	return fetchStandings(m.opts.Client, m.opts.Timeout)
}

// fetchPersonalBestCmd loads the player's best off the update loop.
func (m GameModel) fetchPersonalBestCmd() tea.Cmd {
	client, identity, timeout := m.opts.Client, m.opts.Identity, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		pb, err := client.FetchPersonalBest(ctx, identity)
		return personalBestMsg{best: pb, err: err}
	}
}

func fetchStandings(client *leaderboard.Client, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(timeout)
		defer cancel()
		st, err := client.FetchLeaderboard(ctx)
		return standingsMsg{standings: st, err: err}
	}
}

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.WithTimeout(timeout, 5*time.Second))
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.render()

	dir := filepath.Join(config.DataDir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("Could not create screenshot directory", "error", err)
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("flappy_%s.txt", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("Could not save screenshot", "error", err)
	}
}

// render draws the engine plus the high-score HUD and game-over panel.
func (m GameModel) render() {
	m.engine.Render(m.screen)

	hud := fmt.Sprintf(" Best: %d ", m.localBest)
	if m.opts.Client != nil {
		hud = fmt.Sprintf(" Best: %d  Global: %d ", m.localBest, m.globalBest)
	}
	m.screen.DrawTextColored(m.screen.Width()-len(hud)-2, 0, hud, core.ColorCyan)

	if m.engine.Phase() == flappy.PhaseGameOver && m.lastRun != nil {
		flappy.DrawMessage(m.screen, "GAME OVER", m.gameOverLines()...)
	}
}

func (m GameModel) gameOverLines() []string {
	lines := []string{fmt.Sprintf("Score: %d", m.lastRun.Score)}
	if m.submit != nil {
		lines = append(lines, fmt.Sprintf("Personal best: %d", m.submit.PersonalBest))
		if m.submit.NewGlobalHighScore {
			lines = append(lines, "New global high score!")
		} else {
			lines = append(lines, fmt.Sprintf("Global high score: %d", m.submit.GlobalHighScore))
		}
	} else {
		lines = append(lines, fmt.Sprintf("Local best: %d", m.localBest))
	}
	if m.status != "" {
		lines = append(lines, m.status)
	}

	controls := "R: restart  Q: quit"
	if m.embedded {
		controls = "R: restart  B: menu  Q: quit"
	}
	return append(lines, "", controls)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.render()
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays flappy in the current terminal until the player quits.
func Run(opts GameOptions) error {
	p := tea.NewProgram(
		NewGameModel(opts),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse press flaps
	)

	_, err := p.Run()
	return err
}
