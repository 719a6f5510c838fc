package publisher

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/clever-tips/internal/metrics"
	"github.com/yourusername/clever-tips/internal/models"
)

const (
	streamChannel = "websocket"

	// MessageTypePredictions carries a published batch
	MessageTypePredictions = "predictions"
)

// ServerMessage is the envelope written to stream clients
type ServerMessage struct {
	Type      string                    `json:"type"`
	Payload   []*models.MatchPrediction `json:"payload"`
	Timestamp time.Time                 `json:"timestamp"`
}

// Hub maintains the set of active stream clients and broadcasts published
// batches to them. It also acts as a Publisher.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan ServerMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	upgrader websocket.Upgrader
	logger   *logrus.Entry
}

// NewHub creates a new Hub instance
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan ServerMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.WithField("component", "stream_hub"),
	}
}

// Run starts the hub's main loop and blocks until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Stream hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Name returns the publisher name
func (h *Hub) Name() string {
	return streamChannel
}

// Publish queues a batch for every connected client. A full queue drops the batch.
func (h *Hub) Publish(ctx context.Context, predictions []*models.MatchPrediction) error {
	batch := make([]*models.MatchPrediction, 0, len(predictions))
	for _, p := range predictions {
		if p != nil {
			batch = append(batch, p)
		}
	}

	msg := ServerMessage{Type: MessageTypePredictions, Payload: batch, Timestamp: time.Now()}
	select {
	case h.broadcast <- msg:
		metrics.RecordPublish(streamChannel, nil)
	case <-ctx.Done():
		return ctx.Err()
	default:
		h.logger.Warn("Broadcast buffer full, dropping batch")
	}
	return nil
}

// ServeWS upgrades the request and attaches the connection as a client
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := NewClient(uuid.NewString(), conn, h)
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.WritePump()
	go c.ReadPump()
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount returns the number of active clients
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.clientsMu.Unlock()

	metrics.UpdateStreamClients(n)
	h.logger.WithField("client_id", c.ID).WithField("clients", n).Info("Stream client connected")
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.clientsMu.Unlock()

	if ok {
		metrics.UpdateStreamClients(n)
		h.logger.WithField("client_id", c.ID).WithField("clients", n).Info("Stream client disconnected")
	}
}

// broadcastMessage sends msg to every client; clients with a full buffer are dropped
func (h *Hub) broadcastMessage(msg ServerMessage) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.TrySend(msg) {
			h.logger.WithField("client_id", c.ID).Warn("Client buffer full, disconnecting")
			h.unregisterClient(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.WithField("clients", len(h.clients)).Info("Shutting down stream hub")
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.UpdateStreamClients(0)
}
