package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/variant-editor/internal/app/variant"
	"github.com/ikkim/variant-editor/pkg/logger"
)

const (
	MessageTypeSnapshot = "snapshot"
	MessageTypeRefresh  = "refresh"
	MessageTypeClosed   = "session_closed"

	sendBufferSize = 16
)

// ServerMessage is every frame pushed to a subscriber.
type ServerMessage struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Snapshot  *variant.Snapshot `json:"snapshot,omitempty"`
}

// ClientMessage is a frame received from a subscriber.
type ClientMessage struct {
	Type string `json:"type"` // refresh
}

// Client is one websocket subscriber of one editing session.
type Client struct {
	Hub       *Hub
	Conn      *Conn
	SessionID string
	Send      chan []byte

	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

func NewClient(hub *Hub, conn *Conn, sessionID string) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, sendBufferSize),
	}
}

// Hub fans snapshots out to the subscribers of each session. All subscriber
// bookkeeping happens on the Run goroutine.
type Hub struct {
	// sessionID -> subscribers
	clients map[string]map[*Client]struct{}

	// last published frame per session, replayed on refresh
	latest map[string][]byte

	register     chan *registration
	unregister   chan *Client
	broadcast    chan *BroadcastMessage
	closeSession chan string
	done         chan struct{}
	stopOnce     sync.Once

	mu sync.RWMutex
}

type registration struct {
	client *Client
	done   chan struct{}
}

type BroadcastMessage struct {
	SessionID string
	Message   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:      make(map[string]map[*Client]struct{}),
		latest:       make(map[string][]byte),
		register:     make(chan *registration, 256),
		unregister:   make(chan *Client, 256),
		broadcast:    make(chan *BroadcastMessage, 1024),
		closeSession: make(chan string, 256),
		done:         make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for sessionID := range h.clients {
				h.dropSession(sessionID)
			}
			h.mu.Unlock()
			h.drainRegistrations()
			return

		case reg := <-h.register:
			client := reg.client
			h.mu.Lock()
			if _, ok := h.clients[client.SessionID]; !ok {
				h.clients[client.SessionID] = make(map[*Client]struct{})
			}
			h.clients[client.SessionID][client] = struct{}{}
			count := len(h.clients[client.SessionID])
			h.mu.Unlock()
			close(reg.done)
			logger.Info("WebSocket client registered", map[string]interface{}{
				"session_id":  client.SessionID,
				"subscribers": count,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeClient(client)
			count := len(h.clients[client.SessionID])
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"session_id":  client.SessionID,
				"subscribers": count,
			})

		case message := <-h.broadcast:
			h.mu.Lock()
			h.latest[message.SessionID] = message.Message
			for client := range h.clients[message.SessionID] {
				select {
				case client.Send <- message.Message:
				default:
					h.removeClient(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"session_id": message.SessionID,
					})
				}
			}
			h.mu.Unlock()

		case sessionID := <-h.closeSession:
			h.mu.Lock()
			h.dropSession(sessionID)
			h.mu.Unlock()
		}
	}
}

// Stop ends Run and disconnects every subscriber.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}

// SnapshotFrame encodes a snapshot frame for the session.
func SnapshotFrame(sessionID string, snap variant.Snapshot) ([]byte, error) {
	return json.Marshal(ServerMessage{
		Type:      MessageTypeSnapshot,
		SessionID: sessionID,
		Snapshot:  &snap,
	})
}

// Publish queues a snapshot for every subscriber of the session.
func (h *Hub) Publish(sessionID string, snap variant.Snapshot) {
	data, err := SnapshotFrame(sessionID, snap)
	if err != nil {
		logger.Error("Failed to marshal snapshot", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return
	}

	select {
	case h.broadcast <- &BroadcastMessage{SessionID: sessionID, Message: data}:
	case <-h.done:
	default:
		logger.Warn("Broadcast channel full, snapshot dropped", map[string]interface{}{
			"session_id": sessionID,
		})
	}
}

// CloseSession disconnects every subscriber of the session.
func (h *Hub) CloseSession(sessionID string) {
	select {
	case h.closeSession <- sessionID:
	case <-h.done:
	}
}

// Register subscribes the client and returns once every later broadcast for
// its session will reach it. It reports false when the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case <-h.done:
		close(client.Send)
		return false
	default:
	}

	reg := &registration{client: client, done: make(chan struct{})}
	select {
	case h.register <- reg:
	case <-h.done:
		close(client.Send)
		return false
	}

	select {
	case <-reg.done:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) SubscribedSessions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sessions := make([]string, 0, len(h.clients))
	for sessionID := range h.clients {
		sessions = append(sessions, sessionID)
	}
	return sessions
}

// Deliver queues a frame for one client. It reports false when the client is
// no longer subscribed or its buffer is full.
func (h *Hub) Deliver(client *Client, data []byte) bool {
	// Send channels are only closed under the write lock.
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[client.SessionID][client]; !ok {
		return false
	}
	select {
	case client.Send <- data:
		return true
	default:
		return false
	}
}

// HandleClientMessage answers a refresh request with the last published
// snapshot of the client's session.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"session_id": client.SessionID,
			"count":      count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"session_id": client.SessionID,
			"error":      err.Error(),
		})
		return
	}
	if msg.Type != MessageTypeRefresh {
		return
	}

	h.mu.RLock()
	data, ok := h.latest[client.SessionID]
	h.mu.RUnlock()
	if ok {
		h.Deliver(client, data)
	}
}

// drainRegistrations closes the clients of registrations still queued when
// Run stops.
func (h *Hub) drainRegistrations() {
	for {
		select {
		case reg := <-h.register:
			close(reg.client.Send)
		default:
			return
		}
	}
}

// removeClient must be called with h.mu held.
func (h *Hub) removeClient(client *Client) {
	subscribers, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	if _, ok := subscribers[client]; !ok {
		return
	}
	delete(subscribers, client)
	close(client.Send)
	if len(subscribers) == 0 {
		delete(h.clients, client.SessionID)
	}
}

// dropSession must be called with h.mu held.
func (h *Hub) dropSession(sessionID string) {
	closed, _ := json.Marshal(ServerMessage{Type: MessageTypeClosed, SessionID: sessionID})
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- closed:
		default:
		}
		close(client.Send)
	}
	delete(h.clients, sessionID)
	delete(h.latest, sessionID)

	logger.Debug("WebSocket session closed", map[string]interface{}{
		"session_id": sessionID,
	})
}
