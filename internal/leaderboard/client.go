package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx response from the leaderboard service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("leaderboard: %d %s", e.Status, e.Message)
}

// ScoreSubmission is the request body of POST /api/scores.
type ScoreSubmission struct {
	Score  int    `json:"score"`
	Wallet string `json:"wallet"`
}

// Client talks to a leaderboard service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SubmitScore posts a finished run.
func (c *Client) SubmitScore(ctx context.Context, identity string, score int) (SubmitResult, error) {
	body, err := json.Marshal(ScoreSubmission{Score: score, Wallet: identity})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("leaderboard: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scores", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("leaderboard: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var res SubmitResult
	if err := c.do(req, &res); err != nil {
		return SubmitResult{}, err
	}
	return res, nil
}

// FetchLeaderboard returns the current top entries (identities masked by the
// service) and the global high score.
func (c *Client) FetchLeaderboard(ctx context.Context) (Standings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/leaderboard", nil)
	if err != nil {
		return Standings{}, fmt.Errorf("leaderboard: build request: %w", err)
	}

	var st Standings
	if err := c.do(req, &st); err != nil {
		return Standings{}, err
	}
	return st, nil
}

// FetchPersonalBest returns identity's best score on the service. An identity
// that never submitted yields an *APIError with status 404.
func (c *Client) FetchPersonalBest(ctx context.Context, identity string) (PlayerBest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/scores/"+url.PathEscape(identity), nil)
	if err != nil {
		return PlayerBest{}, fmt.Errorf("leaderboard: build request: %w", err)
	}

	var pb PlayerBest
	if err := c.do(req, &pb); err != nil {
		return PlayerBest{}, err
	}
	return pb, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("leaderboard: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("leaderboard: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
