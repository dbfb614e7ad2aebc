// Package websocket pushes delivery notifications to connected recipients
// so their letter list refreshes without polling.
package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/eletters/backend/internal/models"
	"github.com/gorilla/websocket"
)

// Client wraps a WebSocket connection.
type Client struct {
	conn *websocket.Conn
}

// Conn returns the underlying WebSocket connection.
func (c *Client) Conn() *websocket.Conn {
	return c.conn
}

// Hub manages active WebSocket connections per principal.
// It supports multiple connections per principal (e.g., multiple tabs).
type Hub struct {
	mu              sync.RWMutex
	clients         map[string]map[*Client]struct{} // principalID -> set of clients
	maxPerPrincipal int
}

// NewHub creates a new Hub with a per-principal connection limit.
func NewHub(maxPerPrincipal int) *Hub {
	if maxPerPrincipal <= 0 {
		maxPerPrincipal = 10
	}
	return &Hub{
		clients:         make(map[string]map[*Client]struct{}),
		maxPerPrincipal: maxPerPrincipal,
	}
}

// Register adds a WebSocket connection for the given principal.
// If the per-principal limit is exceeded, the new connection is closed and
// nil is returned.
func (h *Hub) Register(principalID string, conn *websocket.Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	principalClients, ok := h.clients[principalID]
	if !ok {
		principalClients = make(map[*Client]struct{})
		h.clients[principalID] = principalClients
	}

	if len(principalClients) >= h.maxPerPrincipal {
		log.Printf("websocket: principal %s exceeded max connections (%d), closing new connection", principalID, h.maxPerPrincipal)
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too many connections for this principal"),
			// Zero deadline - best effort.
			time.Time{},
		)
		_ = conn.Close()
		return nil
	}

	client := &Client{conn: conn}
	principalClients[client] = struct{}{}
	return client
}

// Unregister removes a client for the given principal and closes the connection.
func (h *Hub) Unregister(principalID string, client *Client) {
	if client == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	principalClients, ok := h.clients[principalID]
	if !ok {
		_ = client.conn.Close()
		return
	}

	delete(principalClients, client)

	if len(principalClients) == 0 {
		delete(h.clients, principalID)
	}

	_ = client.conn.Close()
}

// Send broadcasts a message to all active clients for the principal.
func (h *Hub) Send(principalID string, msg []byte) {
	h.mu.RLock()
	principalClients := h.clients[principalID]
	h.mu.RUnlock()

	if len(principalClients) == 0 {
		return
	}

	for client := range principalClients {
		if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("websocket: failed to write message for principal %s: %v", principalID, err)
			// Best-effort cleanup: unregister this client.
			go h.Unregister(principalID, client)
		}
	}
}

// letterNotification is what a recipient's clients receive when a letter
// arrives for them.
type letterNotification struct {
	Type     string `json:"type"`
	LetterID string `json:"letter_id"`
	SenderID string `json:"sender_id"`
}

// NotifyLetter tells the recipient's connected clients that a new letter
// has been delivered.
func (h *Hub) NotifyLetter(recipientID string, letter *models.Letter) {
	msg, err := json.Marshal(letterNotification{
		Type:     "letter.delivered",
		LetterID: letter.ID,
		SenderID: letter.SenderID,
	})
	if err != nil {
		log.Printf("websocket: failed to encode notification: %v", err)
		return
	}

	h.Send(recipientID, msg)
}

// ActiveConnections returns the number of active WebSocket connections for
// a principal.
func (h *Hub) ActiveConnections(principalID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[principalID])
}
