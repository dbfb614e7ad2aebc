package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/eletters/backend/internal/auth"
	ws "github.com/eletters/backend/internal/websocket"
	"github.com/gorilla/websocket"
)

// WebSocketHandler handles the /api/v1/ws endpoint for letter delivery
// notifications.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// For now, allow all origins. This server is expected to be used
		// behind a reverse proxy in a trusted environment.
		return true
	},
}

// Handle upgrades the HTTP connection to a WebSocket and registers it with
// the Hub. Authentication is handled via query parameter (?token=...) since
// WebSocket connections cannot set custom headers in browsers. The token is
// validated using the same ValidateToken function used by the
// RequirePrincipal middleware.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Extract token from query parameter (WebSocket connections can't set headers).
	token := r.URL.Query().Get("token")
	if token == "" {
		// Fallback to Authorization header if query parameter is not provided.
		// This allows testing with tools that can set headers.
		authHeader := r.Header.Get("Authorization")
		if authHeader != "" {
			fields := strings.Fields(authHeader)
			if len(fields) >= 2 && strings.EqualFold(fields[0], "Bearer") {
				token = strings.TrimSpace(strings.Join(fields[1:], " "))
			}
		}
	}

	if token == "" {
		log.Printf("WebSocketHandler: No token provided")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	principalID, err := auth.ValidateToken(token)
	if err != nil {
		log.Printf("WebSocketHandler: Token validation failed: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocketHandler: Failed to upgrade connection: %v", err)
		return
	}

	client := h.hub.Register(principalID, conn)
	if client == nil {
		return
	}
	defer h.hub.Unregister(principalID, client)

	// The server only pushes; the read loop exists to notice the peer
	// going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
