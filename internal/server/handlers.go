package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
)

const (
	maxBodyBytes = 1 << 20
	maxScore     = math.MaxInt32
)

// scoreRequest keeps fields raw so type errors can be told apart from
// missing fields.
type scoreRequest struct {
	Score  json.RawMessage `json:"score"`
	Wallet json.RawMessage `json:"wallet"`
}

// handleSubmitScore handles POST /api/scores.
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	wallet, score, err := decodeSubmission(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := s.board.Submit(wallet, score)
	if res.NewGlobalHighScore {
		s.requestLogger(r).Info("New global high score", "score", score, "wallet", leaderboard.Mask(wallet))
		s.notifier.NotifyHighScore(HighScoreEvent{
			Wallet:    wallet,
			Score:     score,
			Timestamp: time.Now().UTC(),
		})
	}

	s.writeJSON(w, http.StatusOK, res)
}

// handleLeaderboard handles GET /api/leaderboard.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	st := s.board.Standings()
	st.Entries = leaderboard.MaskEntries(st.Entries)
	s.writeJSON(w, http.StatusOK, st)
}

// handlePersonalBest handles GET /api/scores/{wallet}. The wallet is echoed
// masked, like every identity the service returns.
func (s *Server) handlePersonalBest(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")
	pb, ok := s.board.Best(wallet)
	if !ok {
		s.writeError(w, r, &NotFoundError{Message: "Wallet not found"})
		return
	}
	pb.Identity = leaderboard.Mask(pb.Identity)
	s.writeJSON(w, http.StatusOK, pb)
}

// decodeSubmission validates a score submission body.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (string, int, error) {
	var req scoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", 0, &ValidationError{Message: "Request body too large"}
		}
		return "", 0, &ValidationError{Message: "Invalid JSON body"}
	}

	if isAbsent(req.Score) || isAbsent(req.Wallet) {
		return "", 0, &ValidationError{Message: "Missing required fields"}
	}

	var f float64
	if err := json.Unmarshal(req.Score, &f); err != nil {
		return "", 0, &ValidationError{Field: "score", Message: "score must be a number"}
	}
	switch {
	case f != math.Trunc(f):
		return "", 0, &ValidationError{Field: "score", Message: "score must be an integer"}
	case f < 0: // Zero is accepted with 200 but never becomes a best.
		return "", 0, &ValidationError{Field: "score", Message: "score must not be negative"}
	case f > maxScore:
		return "", 0, &ValidationError{Field: "score", Message: "score out of range"}
	}

	var wallet string
	if err := json.Unmarshal(req.Wallet, &wallet); err != nil {
		return "", 0, &ValidationError{Field: "wallet", Message: "wallet must be a string"}
	}
	if strings.TrimSpace(wallet) == "" {
		return "", 0, &ValidationError{Field: "wallet", Message: "Missing required fields"}
	}

	return wallet, int(f), nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
