package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/flappy-arcade/internal/leaderboard"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes high-score events to websocket subscribers. The subscriber set
// is owned by the Run goroutine.
type Hub struct {
	register   chan *subscriber
	unregister chan *subscriber
	broadcast  chan []byte
	done       chan struct{}
	count      atomic.Int64
	logger     *log.Logger
}

// NewHub creates a hub. Call Run to start delivering events.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		register:   make(chan *subscriber),
		unregister: make(chan *subscriber),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run delivers events until ctx is cancelled, then closes every subscriber.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	clients := make(map[*subscriber]struct{})
	defer func() {
		for c := range clients {
			close(c.send)
		}
		h.count.Store(0)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			clients[c] = struct{}{}
			h.count.Store(int64(len(clients)))
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
				h.count.Store(int64(len(clients)))
			}
		case msg := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- msg:
				default:
					// Too slow to keep up
					delete(clients, c)
					close(c.send)
				}
			}
			h.count.Store(int64(len(clients)))
		}
	}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	return int(h.count.Load())
}

// NotifyHighScore broadcasts ev with the wallet masked. Events are dropped
// when the hub is backed up.
func (h *Hub) NotifyHighScore(ev HighScoreEvent) {
	ev.Wallet = leaderboard.Mask(ev.Wallet)
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("Failed to encode event", "error", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Event feed backed up, dropping event", "score", ev.Score)
	}
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	c := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	case <-r.Context().Done():
		conn.Close()
		return
	}

	go c.writer()
	c.reader()

	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// reader discards client messages and returns when the connection drops.
func (c *subscriber) reader() {
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writer sends queued events and keepalive pings.
func (c *subscriber) writer() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
