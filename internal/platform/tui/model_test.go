package tui

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/flappy-arcade/internal/config"
	"github.com/vovakirdan/flappy-arcade/internal/core"
	"github.com/vovakirdan/flappy-arcade/internal/flappy"
	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
	"github.com/vovakirdan/flappy-arcade/internal/storage"
)

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func testOptions() GameOptions {
	return GameOptions{
		Game:    config.DefaultFlappyConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7},
		Timeout: time.Second,
	}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// send feeds msg to m and returns the updated game model.
func send(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return gm, cmd
}

func TestGameModelFlapStartsRun(t *testing.T) {
	m := NewGameModel(testOptions())
	if m.engine.Phase() != flappy.PhaseIdle {
		t.Fatalf("initial phase = %v", m.engine.Phase())
	}

	m, cmd := send(t, m, spaceKey)
	if m.engine.Phase() != flappy.PhaseRunning {
		t.Errorf("phase after flap = %v, want Running", m.engine.Phase())
	}
	if cmd == nil {
		t.Error("starting a run should arm timers")
	}
	if n := len(m.engine.Snapshot().Obstacles); n != 1 {
		t.Errorf("obstacles after start = %d, want 1", n)
	}
	if !m.engine.Snapshot().Bird.Flapping {
		t.Error("bird should be flapping")
	}
}

func TestGameModelIgnoresForeignTimers(t *testing.T) {
	m := NewGameModel(testOptions())
	m, _ = send(t, m, spaceKey)
	frames := m.engine.Snapshot().Frames

	m, cmd := send(t, m, FrameMsg{Owner: m.id + 1})
	if cmd != nil {
		t.Error("foreign frame should not re-arm")
	}
	if got := m.engine.Snapshot().Frames; got != frames {
		t.Errorf("frames = %d after foreign frame, want %d", got, frames)
	}

	m, _ = send(t, m, SpawnMsg{Owner: m.id + 1, Epoch: m.engine.Epoch()})
	if n := len(m.engine.Snapshot().Obstacles); n != 1 {
		t.Errorf("obstacles = %d after foreign spawn, want 1", n)
	}

	m, cmd = send(t, m, FrameMsg{Owner: m.id})
	if cmd == nil {
		t.Error("own frame should re-arm")
	}
	if got := m.engine.Snapshot().Frames; got != frames+1 {
		t.Errorf("frames = %d, want %d", got, frames+1)
	}
}

func TestGameModelSpawnTimer(t *testing.T) {
	m := NewGameModel(testOptions())
	m, _ = send(t, m, spaceKey)
	epoch := m.engine.Epoch()

	m, cmd := send(t, m, SpawnMsg{Owner: m.id, Epoch: epoch})
	if cmd == nil {
		t.Error("spawn timer should re-arm during the run")
	}
	if n := len(m.engine.Snapshot().Obstacles); n != 2 {
		t.Errorf("obstacles = %d, want 2", n)
	}

	m, cmd = send(t, m, SpawnMsg{Owner: m.id, Epoch: epoch - 1})
	if cmd != nil {
		t.Error("stale epoch should not re-arm")
	}
	if n := len(m.engine.Snapshot().Obstacles); n != 2 {
		t.Errorf("obstacles = %d after stale spawn, want 2", n)
	}
}

func TestGameModelFlapEnd(t *testing.T) {
	m := NewGameModel(testOptions())
	m, _ = send(t, m, spaceKey)
	m, _ = send(t, m, spaceKey)

	// The first flap's timer must not cut the second one short
	m, _ = send(t, m, FlapEndMsg{Owner: m.id, Seq: 1})
	if !m.engine.Snapshot().Bird.Flapping {
		t.Error("older flap timer cleared the flag")
	}
	m, _ = send(t, m, FlapEndMsg{Owner: m.id, Seq: 2})
	if m.engine.Snapshot().Bird.Flapping {
		t.Error("latest flap timer should clear the flag")
	}
}

// playUntilOver starts a run and steps frames until it ends.
func playUntilOver(t *testing.T, m GameModel) GameModel {
	t.Helper()
	m, _ = send(t, m, spaceKey)
	for range 2000 {
		if m.engine.Phase() == flappy.PhaseGameOver {
			return m
		}
		m, _ = send(t, m, FrameMsg{Owner: m.id})
	}
	t.Fatal("run did not end")
	return m
}

func TestGameModelFrameTimerOnlyWhileRunning(t *testing.T) {
	m := NewGameModel(testOptions())
	if cmd := m.Init(); cmd != nil {
		t.Error("offline Init should not arm anything while Idle")
	}

	m, cmd := send(t, m, FrameMsg{Owner: m.id})
	if cmd != nil {
		t.Error("frame while Idle should not re-arm")
	}

	m = playUntilOver(t, m)
	for i := range 5 {
		var cmd tea.Cmd
		m, cmd = send(t, m, FrameMsg{Owner: m.id})
		if cmd != nil {
			if _, ok := cmd().(FrameMsg); ok {
				t.Fatalf("frame %d after game over re-armed the frame timer", i)
			}
		}
	}

	// Restart goes back to Idle with no frames; the next flap starts them again
	m, cmd = send(t, m, runeKey('r'))
	if cmd != nil {
		t.Error("restart should not arm timers")
	}
	m, cmd = send(t, m, spaceKey)
	if cmd == nil || m.engine.Phase() != flappy.PhaseRunning {
		t.Fatalf("flap after restart: phase %v cmd %v", m.engine.Phase(), cmd)
	}
}

func TestGameModelRecordsRun(t *testing.T) {
	store := openStore(t)
	opts := testOptions()
	opts.Store = store
	opts.Identity = "alice"

	m := playUntilOver(t, NewGameModel(opts))
	if m.lastRun == nil {
		t.Fatal("lastRun not set")
	}

	runs, err := store.RecentRuns("alice", 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved runs = %d, want 1", len(runs))
	}
	if runs[0].Frames != m.lastRun.Frames || runs[0].Score != m.lastRun.Score {
		t.Errorf("saved %+v, want %+v", runs[0], *m.lastRun)
	}

	// More frames after game over must not record again
	m, _ = send(t, m, FrameMsg{Owner: m.id})
	runs, _ = store.RecentRuns("alice", 10)
	if len(runs) != 1 {
		t.Errorf("saved runs after extra frame = %d, want 1", len(runs))
	}

	m, _ = send(t, m, runeKey('r'))
	if m.engine.Phase() != flappy.PhaseIdle || m.lastRun != nil {
		t.Errorf("restart: phase %v lastRun %v", m.engine.Phase(), m.lastRun)
	}
}

func TestGameModelSubmitResult(t *testing.T) {
	store := openStore(t)
	run, err := store.SaveRun("0xabc", 9, 300)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"newGlobalHighScore":false,"personalBest":12,"globalHighScore":40}`))
	}))
	defer srv.Close()

	opts := testOptions()
	opts.Store = store
	opts.Identity = "0xabc"
	opts.Client = leaderboard.NewClient(srv.URL, time.Second)
	m := NewGameModel(opts)

	msg := m.submitCmd(run.ID, 9)()
	res, ok := msg.(submitResultMsg)
	if !ok {
		t.Fatalf("submitCmd returned %T", msg)
	}
	if res.err != nil {
		t.Fatalf("submit error: %v", res.err)
	}

	m, _ = send(t, m, res)
	if m.submit == nil || m.submit.PersonalBest != 12 {
		t.Errorf("submit = %+v", m.submit)
	}
	if m.globalBest != 40 {
		t.Errorf("globalBest = %d, want 40", m.globalBest)
	}

	runs, _ := store.RecentRuns("0xabc", 1)
	if len(runs) != 1 || !runs[0].Submitted {
		t.Errorf("run not marked submitted: %+v", runs)
	}
}

func TestGameModelPersonalBestFromService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/api/scores/0xabc" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Wallet not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"wallet":"0xab...0xabc","personalBest":60,"globalHighScore":90}`))
	}))
	defer srv.Close()

	opts := testOptions()
	opts.Identity = "0xabc"
	opts.Client = leaderboard.NewClient(srv.URL, time.Second)
	m := NewGameModel(opts)

	m, _ = send(t, m, m.fetchPersonalBestCmd()())
	if m.localBest != 60 || m.globalBest != 90 {
		t.Errorf("best = %d, global = %d; want 60, 90", m.localBest, m.globalBest)
	}

	opts.Identity = "newcomer"
	m = NewGameModel(opts)
	m.localBest = 4
	m, _ = send(t, m, m.fetchPersonalBestCmd()())
	if m.localBest != 4 {
		t.Errorf("unknown identity changed best to %d", m.localBest)
	}
}

func TestGameModelSubmitFailureKeepsPlaying(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	opts := testOptions()
	opts.Identity = "0xabc"
	opts.Client = leaderboard.NewClient(srv.URL, time.Second)
	m := NewGameModel(opts)

	m, _ = send(t, m, m.submitCmd("", 5)())
	if m.submit != nil {
		t.Errorf("submit = %+v, want nil", m.submit)
	}
	if m.status == "" {
		t.Error("failure should set a status line")
	}
}

func TestGameModelBack(t *testing.T) {
	m := NewGameModel(testOptions())
	m.embedded = true
	m, _ = send(t, m, spaceKey)

	m, _ = send(t, m, runeKey('b'))
	if m.BackToMenu() {
		t.Error("back should be refused mid-run")
	}

	m, _ = send(t, m, runeKey('p'))
	m, _ = send(t, m, runeKey('b'))
	if !m.BackToMenu() {
		t.Error("back should be allowed while paused")
	}
}

func TestGameModelStandaloneIgnoresBack(t *testing.T) {
	m := NewGameModel(testOptions())
	m, _ = send(t, m, runeKey('b'))
	if m.BackToMenu() {
		t.Error("standalone model has no menu to return to")
	}
}

func TestGameModelQuit(t *testing.T) {
	m := NewGameModel(testOptions())
	m, cmd := send(t, m, runeKey('q'))
	if !m.IsQuitting() || cmd == nil {
		t.Errorf("quit: quitting=%v cmd=%v", m.IsQuitting(), cmd)
	}
	if m.View() != "" {
		t.Error("View should be empty after quitting")
	}
}

func TestGameModelResizeOnlyWhenIdle(t *testing.T) {
	m := NewGameModel(testOptions())
	w := m.engine.Width()

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 24})
	if m.engine.Width() <= w {
		t.Errorf("idle resize: width %v, want > %v", m.engine.Width(), w)
	}

	m, _ = send(t, m, spaceKey)
	w = m.engine.Width()
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 24})
	if m.engine.Width() != w {
		t.Error("resize mid-run should not rebuild the world")
	}
	if m.engine.Phase() != flappy.PhaseRunning {
		t.Errorf("phase = %v after resize, want Running", m.engine.Phase())
	}
}

func TestGameModelHUD(t *testing.T) {
	opts := testOptions()
	m := NewGameModel(opts)
	m.localBest = 17
	m.render()
	if got := m.screen.Row(0); !strings.Contains(got, "Best: 17") {
		t.Errorf("HUD row = %q", got)
	}
}
