// Package livefeed pushes leaderboard updates to connected browsers over
// WebSocket so open leaderboard panels refresh without polling.
package livefeed

import (
	"context"
	"encoding/json"
	"sync"

	"duckhub/internal/leaderboard"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Update is the JSON message pushed to clients after a leaderboard change.
type Update struct {
	Type    string              `json:"type"`
	Entries []leaderboard.Entry `json:"entries"`
}

// Client is a single WebSocket subscriber.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// WritePump drains the Send channel into the connection until the context
// ends or the channel closes.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub tracks connected leaderboard watchers.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.SugaredLogger
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an update to every client. Non-blocking: clients with full
// send channels miss this update and catch the next one.
func (h *Hub) Broadcast(u Update) {
	data, err := json.Marshal(u)
	if err != nil {
		h.logger.Errorw("marshaling leaderboard update", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}
