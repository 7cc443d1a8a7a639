package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

// SnapshotSource supplies the latest summary to clients that ask for it.
type SnapshotSource interface {
	Latest() (*ports.SummarySnapshot, error)
}

// Hub maintains the set of active Clients and broadcasts summary updates to them.
type Hub struct {
	// clients is the set of connected dashboards
	clients map[*Client]bool

	// Broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients map and source
	mu sync.RWMutex

	source SnapshotSource

	// keepalive timings handed to new clients
	pingPeriod time.Duration
	pongWait   time.Duration

	done     chan struct{}
	stopOnce sync.Once

	logger *slog.Logger
}

// Ensure Hub implements the SummaryBroadcaster interface.
var _ ports.SummaryBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		pingPeriod: defaultPingPeriod,
		pongWait:   defaultPongWait,
		logger:     logger.With("component", "websocket_hub"),
	}
}

// SetSnapshotSource wires the provider used to answer REQUEST_SUMMARY.
func (h *Hub) SetSnapshotSource(source SnapshotSource) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.source = source
}

// SetKeepalive overrides the ping interval and pong deadline for clients
// created afterwards. The ping interval must be shorter than pongWait;
// otherwise the defaults are kept.
func (h *Hub) SetKeepalive(pingPeriod, pongWait time.Duration) {
	if pingPeriod <= 0 || pongWait <= pingPeriod {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pingPeriod = pingPeriod
	h.pongWait = pongWait
}

func (h *Hub) keepalive() (time.Duration, time.Duration) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pingPeriod, h.pongWait
}

func (h *Hub) snapshotSource() SnapshotSource {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.source
}

// Broadcast sends an event to the hub's internal broadcast channel.
// This method implements the ports.SummaryBroadcaster interface.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"generation", event.Generation,
		)
		return nil
	}
}

// Run starts the hub's event loop until Stop is called. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop ends the event loop and disconnects every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Add registers a client with the running hub. It reports false once the
// hub has been stopped.
func (h *Hub) Add(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info("client registered",
		"session_id", client.SessionID,
		"total_connections", len(h.clients),
	)
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	// Safely close the send channel
	client.CloseSend()

	h.logger.Info("client unregistered",
		"session_id", client.SessionID,
	)
}

// DisconnectSession drops every client connected under sessionID and
// returns how many were dropped. Their write pumps send a close frame.
func (h *Hub) DisconnectSession(sessionID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	dropped := 0
	for client := range h.clients {
		if client.SessionID != sessionID {
			continue
		}
		delete(h.clients, client)
		client.CloseSend()
		dropped++
	}

	if dropped > 0 {
		h.logger.Info("session disconnected",
			"session_id", sessionID,
			"connections", dropped,
		)
	}
	return dropped
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.CloseSend()
		delete(h.clients, client)
	}
}

// broadcastEvent sends an event to every connected client. Clients whose
// send buffer is full are dropped.
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"generation", event.Generation,
		"client_count", len(clients),
	)

	for _, client := range clients {
		if !client.trySend(event) {
			h.logger.Warn("client send buffer full, unregistering",
				"session_id", client.SessionID,
			)
			// Called from the Run goroutine, so unregister directly.
			h.unregisterClient(client)
		}
	}
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsSessionConnected checks if a session has any active connections
func (h *Hub) IsSessionConnected(sessionID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.SessionID == sessionID {
			return true
		}
	}
	return false
}
