// Package leaderboard holds the score store behind the leaderboard service,
// its file persistence, and the HTTP client the game uses to reach it.
package leaderboard

import (
	"cmp"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultTopN is the number of entries the leaderboard reports.
const DefaultTopN = 10

// Entry is one identity's best score.
type Entry struct {
	Identity string `json:"wallet"`
	Score    int    `json:"score"`
}

// SubmitResult is the outcome of one score submission.
type SubmitResult struct {
	Accepted           bool `json:"success"`
	NewGlobalHighScore bool `json:"newGlobalHighScore"`
	PersonalBest       int  `json:"personalBest"`
	GlobalHighScore    int  `json:"globalHighScore"`
}

// Standings is the ranked view of the board.
type Standings struct {
	Entries         []Entry `json:"leaderboard"`
	GlobalHighScore int     `json:"globalHighScore"`
}

// PlayerBest is one identity's best score next to the global high score.
type PlayerBest struct {
	Identity        string `json:"wallet"`
	PersonalBest    int    `json:"personalBest"`
	GlobalHighScore int    `json:"globalHighScore"`
}

// Board maps identities to their best score and tracks the global high
// score. All methods are safe for concurrent use; a submission's
// read-check-write-persist sequence runs under one lock.
type Board struct {
	mu     sync.Mutex
	path   string
	scores map[string]int
	global int
	logger *log.Logger
}

// Open loads the board stored at path. A missing file yields an empty board.
// An empty path keeps the board in memory only.
func Open(path string, logger *log.Logger) (*Board, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	b := &Board{
		path:   path,
		scores: make(map[string]int),
		logger: logger,
	}
	if path == "" {
		return b, nil
	}

	st, err := load(path)
	if err != nil {
		return nil, err
	}
	for _, rec := range st.Scores {
		b.scores[rec.Identity] = rec.Score
		b.global = max(b.global, rec.Score)
	}
	b.global = max(b.global, st.GlobalHighScore)

	logger.Info("Loaded scores", "path", path, "entries", len(b.scores), "global", b.global)
	return b, nil
}

// Submit records score for identity if it beats the identity's best, and
// raises the global high score when it is beaten too. Persistence failures
// are logged and do not affect the result.
func (b *Board) Submit(identity string, score int) SubmitResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.scores[identity]
	res := SubmitResult{Accepted: true}

	if score > current {
		b.scores[identity] = score
		if score > b.global {
			b.global = score
			res.NewGlobalHighScore = true
		}
		if err := b.persistLocked(); err != nil {
			b.logger.Error("Failed to save scores", "path", b.path, "error", err)
		}
	}

	res.PersonalBest = max(current, score)
	res.GlobalHighScore = b.global
	return res
}

// Top returns at most n entries ordered by score descending, ties by
// identity ascending.
func (b *Board) Top(n int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.topLocked(n)
}

// topLocked returns the first n sorted entries; a negative n returns all.
func (b *Board) topLocked(n int) []Entry {
	entries := b.sortedLocked()
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Standings returns the top DefaultTopN entries with the global high score,
// taken under one lock.
func (b *Board) Standings() Standings {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Standings{Entries: b.topLocked(DefaultTopN), GlobalHighScore: b.global}
}

// Best returns the best score recorded for identity and the global high
// score. ok is false when identity never submitted.
func (b *Board) Best(identity string) (PlayerBest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.scores[identity]
	return PlayerBest{Identity: identity, PersonalBest: s, GlobalHighScore: b.global}, ok
}

// GlobalHighScore returns the highest score ever accepted.
func (b *Board) GlobalHighScore() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.global
}

// Len returns the number of identities on the board.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.scores)
}

// Flush writes the board to disk.
func (b *Board) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.persistLocked()
}

func (b *Board) sortedLocked() []Entry {
	entries := make([]Entry, 0, len(b.scores))
	for id, s := range b.scores {
		entries = append(entries, Entry{Identity: id, Score: s})
	}
	slices.SortFunc(entries, func(x, y Entry) int {
		if c := cmp.Compare(y.Score, x.Score); c != 0 {
			return c
		}
		return cmp.Compare(x.Identity, y.Identity)
	})
	return entries
}

func (b *Board) persistLocked() error {
	if b.path == "" {
		return nil
	}
	entries := b.sortedLocked()
	st := fileState{
		Scores:          make([]scoreRecord, len(entries)),
		GlobalHighScore: b.global,
	}
	for i, e := range entries {
		st.Scores[i] = scoreRecord(e)
	}
	return save(b.path, st)
}
