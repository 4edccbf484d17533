package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// HighScoreEvent announces a new global high score.
type HighScoreEvent struct {
	Wallet    string    `json:"wallet"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives new global high scores. Implementations must not block
// the caller.
type Notifier interface {
	NotifyHighScore(ev HighScoreEvent)
}

// MultiNotifier fans an event out to several notifiers.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyHighScore(ev HighScoreEvent) {
	for _, n := range m {
		n.NotifyHighScore(ev)
	}
}

// WebhookNotifier POSTs events to a URL. Delivery is best effort: failures
// are logged and never retried.
type WebhookNotifier struct {
	url     string
	client  *http.Client
	timeout time.Duration
	logger  *log.Logger
	wg      sync.WaitGroup
}

// NewWebhookNotifier creates a notifier that gives each delivery timeout to
// complete.
func NewWebhookNotifier(url string, timeout time.Duration, logger *log.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:     url,
		client:  &http.Client{},
		timeout: timeout,
		logger:  logger,
	}
}

// NotifyHighScore sends ev in the background.
func (n *WebhookNotifier) NotifyHighScore(ev HighScoreEvent) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(ev); err != nil {
			n.logger.Warn("Webhook delivery failed", "url", n.url, "error", err)
		}
	}()
}

// Wait blocks until in-flight deliveries finish.
func (n *WebhookNotifier) Wait() {
	n.wg.Wait()
}

func (n *WebhookNotifier) send(ev HighScoreEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
