package server

import (
	"log/slog"
	"sync"

	"github.com/mcoot/jigsawd/internal/model"
)

// outbound is one pre-encoded message queued for fan-out
type outbound struct {
	data    []byte
	exclude *Client
}

// Hub fans messages out to every connected member of a single room.
// Delivery is best-effort: a peer whose send buffer is full has the message
// dropped, and one slow or dead peer never blocks delivery to the rest.
type Hub struct {
	roomID  model.RoomID
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}
}

// NewHub creates a new Hub for a room
func NewHub(roomID model.RoomID, logger *slog.Logger) *Hub {
	return &Hub{
		roomID:     roomID,
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("room_id", string(roomID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Debug("room hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("hub client registered",
				slog.String("client", string(client.clientID)),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, client)
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("hub client unregistered",
				slog.String("client", string(client.clientID)),
				slog.Int("total_clients", clientCount))

		case msg := <-h.broadcast:
			h.mu.RLock()
			droppedCount := 0
			for client := range h.clients {
				if client == msg.exclude {
					continue
				}
				if !client.Enqueue(msg.data) {
					droppedCount++
				}
			}
			h.mu.RUnlock()
			if droppedCount > 0 {
				h.logger.Warn("broadcast partial failure",
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Debug("room hub stopped")
			return
		}
	}
}

// Register adds a connection to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a connection from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a pre-encoded message for every member except exclude.
// exclude may be nil to reach all members.
func (h *Hub) Broadcast(data []byte, exclude *Client) {
	select {
	case h.broadcast <- outbound{data: data, exclude: exclude}:
	default:
		h.logger.Warn("broadcast dropped - hub buffer full")
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of registered connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager manages hubs for all rooms
type HubManager struct {
	hubs   map[model.RoomID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.RoomID]*Hub),
		logger: logger.With(slog.String("component", "hub")),
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(roomID model.RoomID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		return hub
	}

	hub := NewHub(roomID, m.logger)
	m.hubs[roomID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *HubManager) GetHub(roomID model.RoomID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID]
}

// RemoveHub removes and closes a room's hub
func (m *HubManager) RemoveHub(roomID model.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		hub.Close()
		delete(m.hubs, roomID)
		m.logger.Debug("room hub removed", slog.String("room_id", string(roomID)))
	}
}

// CloseAll shuts down every hub, used during server shutdown
func (m *HubManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for roomID, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, roomID)
	}
}
