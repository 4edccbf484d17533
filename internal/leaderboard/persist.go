package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// fileState is the on-disk layout:
// {"scores": [["identity", score], ...], "globalHighScore": n}
type fileState struct {
	Scores          []scoreRecord `json:"scores"`
	GlobalHighScore int           `json:"globalHighScore"`
}

// scoreRecord is stored as a two-element JSON array.
type scoreRecord struct {
	Identity string
	Score    int
}

func (r scoreRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{r.Identity, r.Score})
}

func (r *scoreRecord) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("score record: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Identity); err != nil {
		return fmt.Errorf("score record identity: %w", err)
	}
	var score float64
	if err := json.Unmarshal(pair[1], &score); err != nil {
		return fmt.Errorf("score record score: %w", err)
	}
	r.Score = int(score)
	return nil
}

// load reads the board file. A missing file is an empty board.
func load(path string) (fileState, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fileState{}, nil
	}
	if err != nil {
		return fileState{}, fmt.Errorf("leaderboard: read %s: %w", path, err)
	}
	var st fileState
	if err := json.Unmarshal(b, &st); err != nil {
		return fileState{}, fmt.Errorf("leaderboard: parse %s: %w", path, err)
	}
	return st, nil
}

// save writes the board through a temporary file so readers never see a
// partial write.
func save(path string, st fileState) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("leaderboard: create dir: %w", err)
		}
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("leaderboard: encode: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("leaderboard: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("leaderboard: rename: %w", err)
	}
	return nil
}
